package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/export"
	"servicedesk-backend/internal/metrics"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/internal/timeutil"
)

// maxInvoiceNoAttempts bounds invoice number regeneration on collision.
const maxInvoiceNoAttempts = 5

type invoiceStore interface {
	CreateWithHistory(ctx context.Context, inv *models.Invoice, entry models.InvoiceHistoryEntry) error
	AppendStatus(ctx context.Context, id int, entry models.InvoiceHistoryEntry) error
	Get(ctx context.Context, id int) (*models.Invoice, error)
	List(ctx context.Context, f models.InvoiceFilter) ([]*models.Invoice, error)
	Update(ctx context.Context, id int, req *models.UpdateInvoiceRequest) error
	Delete(ctx context.Context, id int) error
}

type companyGetter interface {
	Get(ctx context.Context, id int) (*models.Company, error)
}

type locationGetter interface {
	Get(ctx context.Context, id int) (*models.Location, error)
}

type InvoiceService struct {
	invoices  invoiceStore
	companies companyGetter
	locations locationGetter

	now    func() time.Time
	suffix func() int
}

func NewInvoiceService(invoices invoiceStore, companies companyGetter, locations locationGetter) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		companies: companies,
		locations: locations,
		now:       timeutil.Now,
		suffix:    func() int { return rand.Intn(1000) },
	}
}

// GenerateInvoiceNo formats INV-YYMMDD-RRR for the IST date of t.
func GenerateInvoiceNo(t time.Time, suffix int) string {
	return fmt.Sprintf("INV-%s-%03d", timeutil.ToIST(t).Format(timeutil.InvoiceLayout), suffix%1000)
}

// CreateInvoice stores a draft invoice with its first history entry. The
// number is regenerated when the store reports it taken; after
// maxInvoiceNoAttempts collisions nothing is written.
func (s *InvoiceService) CreateInvoice(ctx context.Context, caller *models.User, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	company, err := s.companies.Get(ctx, req.CompanyID)
	if err != nil {
		return nil, companyErr(err)
	}
	location, err := s.locations.Get(ctx, req.LocationID)
	if err != nil {
		return nil, locationErr(err)
	}

	now := s.now()
	entry := models.InvoiceHistoryEntry{Status: models.InvoiceDraft, Timestamp: now, UpdatedBy: &caller.ID}

	for attempt := 0; attempt < maxInvoiceNoAttempts; attempt++ {
		inv := &models.Invoice{
			InvoiceNo:    GenerateInvoiceNo(now, s.suffix()),
			CompanyID:    &company.ID,
			LocationID:   &location.ID,
			CompanyName:  company.Name,
			LocationName: location.Name,
			Amount:       req.Amount,
			GSTAmount:    req.GSTAmount,
			Description:  req.Description,
			Status:       models.InvoiceDraft,
		}

		err := s.invoices.CreateWithHistory(ctx, inv, entry)
		if errors.Is(err, repositories.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal("Failed to create invoice", err)
		}

		inv.History = []models.InvoiceHistoryEntry{entry}
		metrics.InvoicesCreated.Inc()
		return inv, nil
	}

	return nil, apperrors.Internal("Could not generate unique invoice number", nil)
}

// ListInvoices returns invoices newest first; agents only see their
// location's.
func (s *InvoiceService) ListInvoices(ctx context.Context, caller *models.User) ([]*models.Invoice, error) {
	var f models.InvoiceFilter
	if caller.IsAgent() {
		f.LocationID = agentLocation(caller)
	}

	invoices, err := s.invoices.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal("Failed to list invoices", err)
	}
	return invoices, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, caller *models.User, id int) (*models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, invoiceErr(err)
	}
	if !canSeeInvoice(caller, inv) {
		return nil, apperrors.Forbidden("Access denied")
	}
	return inv, nil
}

// UpdateStatus appends a history entry and sets the status. Any valid
// status is accepted regardless of the current one.
func (s *InvoiceService) UpdateStatus(ctx context.Context, caller *models.User, id int, status string) (*models.Invoice, error) {
	if !models.IsValidInvoiceStatus(status) {
		return nil, apperrors.Validation("Invalid status")
	}

	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, invoiceErr(err)
	}
	if !canSeeInvoice(caller, inv) {
		return nil, apperrors.Forbidden("Access denied")
	}

	entry := models.InvoiceHistoryEntry{Status: status, Timestamp: s.now(), UpdatedBy: &caller.ID}
	if err := s.invoices.AppendStatus(ctx, id, entry); err != nil {
		return nil, invoiceErr(err)
	}

	inv.Status = status
	inv.History = append(inv.History, entry)
	return inv, nil
}

func (s *InvoiceService) UpdateInvoice(ctx context.Context, id int, req *models.UpdateInvoiceRequest) (*models.Invoice, error) {
	if req.Amount != nil && *req.Amount < 0 {
		return nil, apperrors.Validation("amount must be at least 0")
	}
	if req.GSTAmount != nil && *req.GSTAmount < 0 {
		return nil, apperrors.Validation("gstAmount must be at least 0")
	}

	if err := s.invoices.Update(ctx, id, req); err != nil {
		return nil, invoiceErr(err)
	}
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, invoiceErr(err)
	}
	return inv, nil
}

// DeleteInvoice removes the invoice and returns what was deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, invoiceErr(err)
	}
	if err := s.invoices.Delete(ctx, id); err != nil {
		return nil, invoiceErr(err)
	}
	return inv, nil
}

// InvoicePDF renders an invoice the caller may see.
func (s *InvoiceService) InvoicePDF(ctx context.Context, caller *models.User, id int) (*models.Invoice, []byte, error) {
	inv, err := s.GetInvoice(ctx, caller, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := export.InvoicePDF(inv)
	if err != nil {
		return nil, nil, apperrors.Internal("Failed to render invoice", err)
	}
	metrics.ExportsGenerated.WithLabelValues("invoice_pdf").Inc()
	return inv, data, nil
}

// canSeeInvoice lets admins see everything and agents only their location.
func canSeeInvoice(caller *models.User, inv *models.Invoice) bool {
	if !caller.IsAgent() {
		return true
	}
	return caller.LocationID != nil && inv.LocationID != nil && *caller.LocationID == *inv.LocationID
}

// agentLocation scopes an agent without a location to an id no row has.
func agentLocation(caller *models.User) *int {
	if caller.LocationID != nil {
		return caller.LocationID
	}
	none := 0
	return &none
}

func invoiceErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Invoice not found")
	}
	return apperrors.Internal("Internal server error", err)
}
