package services

import (
	"context"
	"testing"
	"time"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/auth"
	"servicedesk-backend/internal/config"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
)

type fakeUsers struct {
	byMobile map[string]*models.User
}

func (f *fakeUsers) GetByMobile(_ context.Context, mobileNo string) (*models.User, error) {
	u, ok := f.byMobile[mobileNo]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpsertAdmin(_ context.Context, mobileNo, hash string) (*models.User, error) {
	if u, ok := f.byMobile[mobileNo]; ok && u.Role != models.RoleAdmin {
		return nil, repositories.ErrDuplicate
	}
	u := &models.User{ID: len(f.byMobile) + 1, Role: models.RoleAdmin, MobileNo: mobileNo, PasswordHash: hash}
	f.byMobile[mobileNo] = u
	return u, nil
}

type fakeAgentLocations map[int]*models.Location

func (f fakeAgentLocations) GetByUserID(_ context.Context, userID int) (*models.Location, error) {
	l, ok := f[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return l, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()
	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	users := &fakeUsers{byMobile: map[string]*models.User{
		"9000000001": {ID: 1, Role: models.RoleAdmin, MobileNo: "9000000001", PasswordHash: hash, CompanyID: intPtr(5)},
		"9000000002": {ID: 2, Role: models.RoleAgent, MobileNo: "9000000002", PasswordHash: hash, LocationID: intPtr(3), CompanyID: intPtr(1)},
	}}
	locations := fakeAgentLocations{2: {ID: 3, CompanyID: 1, ContactPerson: "Asha", Email: "asha@example.com"}}
	return NewAuthService(users, locations, auth.NewJWTManager("test-secret", "servicedesk", time.Hour)), users
}

func TestLogin(t *testing.T) {
	s, _ := newTestAuthService(t)
	ctx := context.Background()

	res, err := s.Login(ctx, &models.LoginRequest{Identifier: "9000000001", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Token == "" || res.User.CompanyID != nil {
		t.Errorf("unexpected admin login %+v", res.User)
	}

	for _, req := range []models.LoginRequest{
		{Identifier: "9000000001", Password: "wrong"},
		{Identifier: "9999999999", Password: "secret"},
	} {
		_, err := s.Login(ctx, &req)
		if !apperrors.Is(err, apperrors.KindAuthentication) || apperrors.PublicMessage(err) != "Invalid credentials" {
			t.Errorf("%s: got %v", req.Identifier, err)
		}
	}
}

func TestProfile(t *testing.T) {
	s, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		user      *models.User
		wantName  string
		wantEmail string
	}{
		{"admin", &models.User{ID: 1, Role: models.RoleAdmin, MobileNo: "9000000001"}, "Administrator", "9000000001@admin.com"},
		{"agent with location", &models.User{ID: 2, Role: models.RoleAgent, MobileNo: "9000000002"}, "Asha", "asha@example.com"},
		{"agent without location", &models.User{ID: 9, Role: models.RoleAgent, MobileNo: "9000000009"}, "9000000009", "9000000009@agent.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.Profile(ctx, tt.user)
			if err != nil {
				t.Fatal(err)
			}
			if p.Name != tt.wantName || p.Email != tt.wantEmail {
				t.Errorf("got %q <%s>, want %q <%s>", p.Name, p.Email, tt.wantName, tt.wantEmail)
			}
		})
	}
}

func TestSeedAdmins(t *testing.T) {
	s, users := newTestAuthService(t)

	n, err := s.SeedAdmins(context.Background(), []config.BootstrapAdmin{
		{MobileNo: "9111111111", Password: "first"},
		{MobileNo: "not-a-number", Password: "x"},
		{MobileNo: "9000000002", Password: "agent-number"},
		{MobileNo: "9000000001", Password: "rotated"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("seeded %d, want 2", n)
	}
	if !auth.VerifyPassword(users.byMobile["9000000001"].PasswordHash, "rotated") {
		t.Error("existing admin password not refreshed")
	}
	if users.byMobile["9000000002"].Role != models.RoleAgent {
		t.Error("agent was turned into an admin")
	}
}
