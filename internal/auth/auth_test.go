package auth

import (
	"testing"
	"time"

	"servicedesk-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "test", time.Hour)
	user := &models.User{ID: 12, Role: models.RoleAgent}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 12 || claims.Role != models.RoleAgent {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "test" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewJWTManager("secret", "test", time.Hour)
	user := &models.User{ID: 1, Role: models.RoleAdmin}

	otherKey, _ := NewJWTManager("other", "test", time.Hour).GenerateToken(user)
	expired, _ := NewJWTManager("secret", "test", -time.Minute).GenerateToken(user)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"wrong key": otherKey,
		"expired":   expired,
		"alg none":  none,
		"garbage":   "not-a-token",
		"empty":     "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateToken(token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in clear text")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
