package models

import "time"

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

type User struct {
	ID           int       `json:"_id"`
	Role         string    `json:"role"`
	MobileNo     string    `json:"mobileNo"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CompanyID    *int      `json:"companyId,omitempty"`
	LocationID   *int      `json:"locationId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
func (u *User) IsAgent() bool { return u.Role == RoleAgent }

// LoginRequest is the body of POST /api/auth/login. Identifier is the
// mobile number.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Profile is what GET /api/auth/profile returns.
type Profile struct {
	ID         int    `json:"_id"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	MobileNo   string `json:"mobileNo"`
	LocationID *int   `json:"locationId,omitempty"`
	CompanyID  *int   `json:"companyId,omitempty"`
}
