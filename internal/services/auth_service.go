package services

import (
	"context"
	"errors"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/auth"
	"servicedesk-backend/internal/config"
	"servicedesk-backend/internal/logger"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
)

type userStore interface {
	GetByMobile(ctx context.Context, mobileNo string) (*models.User, error)
	UpsertAdmin(ctx context.Context, mobileNo, passwordHash string) (*models.User, error)
}

type agentLocationFinder interface {
	GetByUserID(ctx context.Context, userID int) (*models.Location, error)
}

type AuthService struct {
	users      userStore
	locations  agentLocationFinder
	jwtManager *auth.JWTManager
}

func NewAuthService(users userStore, locations agentLocationFinder, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, locations: locations, jwtManager: jwtManager}
}

// Login checks a mobile number and password and issues a token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByMobile(ctx, req.Identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Internal("Internal server error", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}
	if !user.IsAdmin() && !user.IsAgent() {
		return nil, apperrors.Unauthenticated("Invalid user role")
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("Internal server error", err)
	}

	// admins never carry tenant references in the response
	if user.IsAdmin() {
		user.CompanyID, user.LocationID = nil, nil
	}
	return &models.LoginResponse{User: user, Token: token}, nil
}

// Profile describes the caller. Agents are enriched from their location.
func (s *AuthService) Profile(ctx context.Context, user *models.User) (*models.Profile, error) {
	if user.IsAdmin() {
		return &models.Profile{
			ID:       user.ID,
			Role:     user.Role,
			Name:     "Administrator",
			Email:    user.MobileNo + "@admin.com",
			MobileNo: user.MobileNo,
		}, nil
	}

	loc, err := s.locations.GetByUserID(ctx, user.ID)
	if err == nil {
		return &models.Profile{
			ID:         user.ID,
			Role:       user.Role,
			Name:       loc.ContactPerson,
			Email:      loc.Email,
			MobileNo:   user.MobileNo,
			LocationID: &loc.ID,
			CompanyID:  &loc.CompanyID,
		}, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		log := logger.WithComponent("auth")
		log.Warn().Err(err).Int("user_id", user.ID).Msg("location lookup for profile failed")
	}

	return &models.Profile{
		ID:         user.ID,
		Role:       user.Role,
		Name:       user.MobileNo,
		Email:      user.MobileNo + "@agent.com",
		MobileNo:   user.MobileNo,
		LocationID: user.LocationID,
		CompanyID:  user.CompanyID,
	}, nil
}

// SeedAdmins creates or refreshes the configured bootstrap admins and
// returns how many were written. Numbers held by agents are skipped.
func (s *AuthService) SeedAdmins(ctx context.Context, admins []config.BootstrapAdmin) (int, error) {
	log := logger.WithComponent("auth")

	seeded := 0
	for _, a := range admins {
		if !isMobileNo(a.MobileNo) {
			log.Warn().Str("mobile_no", a.MobileNo).Msg("skipping bootstrap admin with invalid mobile number")
			continue
		}

		hash, err := auth.HashPassword(a.Password)
		if err != nil {
			return seeded, err
		}

		_, err = s.users.UpsertAdmin(ctx, a.MobileNo, hash)
		if errors.Is(err, repositories.ErrDuplicate) {
			log.Warn().Str("mobile_no", a.MobileNo).Msg("bootstrap admin number belongs to an agent, skipped")
			continue
		}
		if err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
