package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/auth"
	"servicedesk-backend/internal/logger"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/pkg/utils"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	LocationKey contextKey = "location_id"
	UserKey     contextKey = "user"
)

// UserLookup resolves the user named in a token.
type UserLookup interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Role and location come from the database so deleted agents lose
		// access immediately.
		user, err := m.users.Get(r.Context(), claims.UserID)
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusUnauthorized, "User not found")
			return
		}
		if err != nil {
			log := logger.WithComponent("auth")
			log.Error().Err(err).Int("user_id", claims.UserID).Msg("user lookup failed")
			failure := apperrors.Internal("Failed to authenticate", err)
			utils.Error(w, apperrors.StatusCode(failure), apperrors.PublicMessage(failure))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin rejects non-admin callers. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin, "Access denied. Admins only.")(next)
}

// RequireAgent rejects non-agent callers. It must run after Authenticate.
func RequireAgent(next http.Handler) http.Handler {
	return RequireRole(models.RoleAgent, "Access denied. Agents only.")(next)
}

// RequireRole ensures the authenticated user has role.
func RequireRole(role, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := GetRoleFromContext(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Authorization header required")
				return
			}
			if userRole != role {
				utils.Error(w, http.StatusForbidden, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser attaches the caller to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	ctx = context.WithValue(ctx, RoleKey, user.Role)
	if user.LocationID != nil {
		ctx = context.WithValue(ctx, LocationKey, *user.LocationID)
	}
	return ctx
}

// GetUserFromContext returns the authenticated caller.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetLocationIDFromContext returns the agent's location, if any.
func GetLocationIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(LocationKey).(int)
	return id, ok
}
