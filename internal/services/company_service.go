package services

import (
	"context"
	"errors"
	"strings"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/auth"
	"servicedesk-backend/internal/cache"
	"servicedesk-backend/internal/export"
	"servicedesk-backend/internal/metrics"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
)

type companyStore interface {
	Create(ctx context.Context, c *models.Company) error
	Get(ctx context.Context, id int) (*models.Company, error)
	Update(ctx context.Context, id int, req *models.UpdateCompanyRequest) (*models.Company, error)
	Delete(ctx context.Context, id int) (*models.Company, error)
	List(ctx context.Context, f models.CompanyFilter) ([]*models.Company, error)
	Count(ctx context.Context, f models.CompanyFilter) (int, error)
	ListWithLocations(ctx context.Context) ([]*models.CompanyLocationRow, error)
}

type locationStore interface {
	CreateWithAgent(ctx context.Context, loc *models.Location, agent *models.User) error
	ListByCompany(ctx context.Context, companyID int) ([]*models.Location, error)
	Update(ctx context.Context, companyID, id int, req *models.UpdateLocationRequest, passwordHash string) (*models.Location, error)
	Delete(ctx context.Context, companyID, id int) (*models.Location, error)
}

// CompanyService manages companies and their locations. Each location is
// created together with the agent login that works it.
type CompanyService struct {
	companies companyStore
	locations locationStore
}

func NewCompanyService(companies companyStore, locations locationStore) *CompanyService {
	return &CompanyService{companies: companies, locations: locations}
}

func (s *CompanyService) CreateCompany(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	company := &models.Company{Name: req.Name, Phone: req.Phone, Email: req.Email}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, apperrors.Internal("Failed to create company", err)
	}

	cache.InvalidateAnalytics(ctx)
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id int) (*models.Company, error) {
	company, err := s.companies.Get(ctx, id)
	if err != nil {
		return nil, companyErr(err)
	}
	return company, nil
}

// ListCompanies runs the count and the page query separately; under
// concurrent writes the two can disagree.
func (s *CompanyService) ListCompanies(ctx context.Context, f models.CompanyFilter) (*models.CompanyListResponse, error) {
	f.Page, f.Limit = models.NormalizePage(f.Page, f.Limit)

	total, err := s.companies.Count(ctx, f)
	if err != nil {
		return nil, apperrors.Internal("Failed to count companies", err)
	}
	companies, err := s.companies.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal("Failed to list companies", err)
	}

	return &models.CompanyListResponse{
		Companies:  companies,
		Pagination: models.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, id int, req *models.UpdateCompanyRequest) (*models.Company, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.Validation("name is required")
	}

	company, err := s.companies.Update(ctx, id, req)
	if err != nil {
		return nil, companyErr(err)
	}
	return company, nil
}

// DeleteCompany removes the company with its locations and their agents.
func (s *CompanyService) DeleteCompany(ctx context.Context, id int) (*models.Company, error) {
	company, err := s.companies.Delete(ctx, id)
	if err != nil {
		return nil, companyErr(err)
	}

	cache.InvalidateAnalytics(ctx)
	return company, nil
}

// CompaniesCSV renders every company with its locations, one line per
// location.
func (s *CompanyService) CompaniesCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.companies.ListWithLocations(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to export companies data", err)
	}
	metrics.ExportsGenerated.WithLabelValues("companies_csv").Inc()
	return export.SerializeRows(export.CompanyLocationColumns, export.CompanyLocationRecords(rows)), nil
}

func (s *CompanyService) CreateLocation(ctx context.Context, companyID int, req *models.CreateLocationRequest) (*models.CreateLocationResponse, error) {
	company, err := s.companies.Get(ctx, companyID)
	if err != nil {
		return nil, companyErr(err)
	}

	if !isMobileNo(req.MobileNo) {
		return nil, apperrors.Validation("Please enter a valid 10-digit mobile number for Login ID")
	}
	if req.ContactMobile != "" && !isMobileNo(req.ContactMobile) {
		return nil, apperrors.Validation("Please enter a valid 10-digit mobile number for Contact Mobile")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.Password == "" {
		return nil, apperrors.Validation("password is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to create location", err)
	}

	loc := &models.Location{
		CompanyID:     company.ID,
		Name:          req.Name,
		Address:       req.Address,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		ContactMobile: req.ContactMobile,
	}
	agent := &models.User{MobileNo: req.MobileNo, PasswordHash: hash}

	err = s.locations.CreateWithAgent(ctx, loc, agent)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, apperrors.Conflict("This mobile number is already registered as Login ID")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create location", err)
	}

	cache.InvalidateAnalytics(ctx)
	return &models.CreateLocationResponse{Location: loc, AgentUser: agent}, nil
}

func (s *CompanyService) ListLocations(ctx context.Context, companyID int) ([]*models.Location, error) {
	if _, err := s.companies.Get(ctx, companyID); err != nil {
		return nil, companyErr(err)
	}

	locations, err := s.locations.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list locations", err)
	}
	return locations, nil
}

// UpdateLocation applies the set fields of req. A non-empty password is
// rehashed onto the location's agent.
func (s *CompanyService) UpdateLocation(ctx context.Context, companyID, locationID int, req *models.UpdateLocationRequest) (*models.Location, error) {
	if req.ContactMobile != nil && !isMobileNo(*req.ContactMobile) {
		return nil, apperrors.Validation("Please enter a valid 10-digit mobile number for Contact Mobile")
	}

	var hash string
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		var err error
		if hash, err = auth.HashPassword(*req.Password); err != nil {
			return nil, apperrors.Internal("Failed to update location", err)
		}
	}

	loc, err := s.locations.Update(ctx, companyID, locationID, req, hash)
	if err != nil {
		return nil, locationErr(err)
	}
	return loc, nil
}

// DeleteLocation removes the location and its agent login.
func (s *CompanyService) DeleteLocation(ctx context.Context, companyID, locationID int) (*models.Location, error) {
	loc, err := s.locations.Delete(ctx, companyID, locationID)
	if err != nil {
		return nil, locationErr(err)
	}

	cache.InvalidateAnalytics(ctx)
	return loc, nil
}

func companyErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Company not found")
	}
	return apperrors.Internal("Internal server error", err)
}

func locationErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Location not found")
	}
	return apperrors.Internal("Internal server error", err)
}
