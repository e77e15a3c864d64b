package models

import "time"

// Location belongs to a company and has exactly one agent login.
type Location struct {
	ID            int       `json:"_id"`
	CompanyID     int       `json:"companyId"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Email         string    `json:"email"`
	ContactPerson string    `json:"contactPerson"`
	ContactMobile string    `json:"contactMobile"`
	UserID        *int      `json:"userId,omitempty"`
	AgentMobileNo string    `json:"agentMobileNo,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateLocationRequest creates a location together with its agent user.
// MobileNo and Password are the agent's login credentials.
type CreateLocationRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Email         string `json:"email"`
	ContactPerson string `json:"contactPerson"`
	ContactMobile string `json:"contactMobile"`
	MobileNo      string `json:"mobileNo"`
	Password      string `json:"password"`
}

// UpdateLocationRequest lists every field a location patch may touch. A nil
// field is left unchanged; Password rehashes the agent's password when set.
type UpdateLocationRequest struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	ContactMobile *string `json:"contactMobile"`
	Password      *string `json:"password"`
}

func (r *UpdateLocationRequest) HasLocationFields() bool {
	return r.Name != nil || r.Address != nil || r.Email != nil || r.ContactPerson != nil || r.ContactMobile != nil
}

type CreateLocationResponse struct {
	Location  *Location `json:"location"`
	AgentUser *User     `json:"agentUser"`
}
