package models

import "time"

type Company struct {
	ID        int       `json:"_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateCompanyRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UpdateCompanyRequest patches only the fields that are present.
type UpdateCompanyRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// CompanyFilter drives the paginated company listing.
type CompanyFilter struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

type CompanyListResponse struct {
	Companies  []*Company `json:"companies"`
	Pagination Pagination `json:"pagination"`
}

// CompanyLocationRow is one line of the companies/locations CSV. Location
// fields are nil for companies without locations.
type CompanyLocationRow struct {
	Company  Company
	Location *Location
}
