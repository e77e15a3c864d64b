package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/cache"
	"servicedesk-backend/internal/export"
	"servicedesk-backend/internal/metrics"
	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/internal/storage"
	"servicedesk-backend/internal/timeutil"
)

// maxTransactionIDAttempts bounds transaction id regeneration on collision.
const maxTransactionIDAttempts = 5

type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id int) (*models.Payment, error)
	List(ctx context.Context, f models.PaymentFilter) ([]*models.Payment, error)
	Aggregate(ctx context.Context, f models.PaymentFilter) (models.PaymentAggregate, error)
	UpdateStatus(ctx context.Context, id int, status string, remarks *string, paymentDate *time.Time, screenshot *models.StoredFile) error
	DeleteWithStatus(ctx context.Context, id int, status string) (bool, error)
	ExportRows(ctx context.Context, createdBy *int) ([]*models.PaymentExportRow, error)
}

type PaymentService struct {
	payments paymentStore
	files    storage.FileStore
	now      func() time.Time
}

func NewPaymentService(payments paymentStore, files storage.FileStore) *PaymentService {
	return &PaymentService{payments: payments, files: files, now: timeutil.Now}
}

// GenerateTransactionID formats TX-<invoiceNo|NOINV>-<TYPE>-<unixSeconds>.
func GenerateTransactionID(invoiceNo, transactionType string, unix int64) string {
	if invoiceNo == "" {
		invoiceNo = "NOINV"
	}
	return fmt.Sprintf("TX-%s-%s-%d", invoiceNo, strings.ToUpper(transactionType), unix)
}

// DeriveHandlingCharges fills in the charge from project cost and
// percentage when both are given and no charge was supplied.
func DeriveHandlingCharges(projectCost, percentage, supplied *float64) *float64 {
	if supplied != nil && *supplied != 0 {
		return supplied
	}
	if projectCost == nil || percentage == nil || *projectCost == 0 || *percentage == 0 {
		return supplied
	}
	charge := *projectCost * *percentage / 100
	return &charge
}

// CreatePayment records a pending payment request. Only agents may raise
// one. A taken transaction id is retried one second later.
func (s *PaymentService) CreatePayment(ctx context.Context, caller *models.User, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if !caller.IsAgent() {
		return nil, apperrors.Forbidden("Access denied. Agents only.")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	p := &models.Payment{
		TransactionType:           req.TransactionType,
		PONo:                      req.PONo,
		InvoiceNo:                 req.InvoiceNo,
		ProjectCost:               req.ProjectCost,
		HandlingChargesPercentage: req.HandlingChargesPercentage,
		CalculatedHandlingCharges: DeriveHandlingCharges(req.ProjectCost, req.HandlingChargesPercentage, req.CalculatedHandlingCharges),
		Instructions:              req.Instructions,
		Status:                    models.PaymentPending,
		CreatedBy:                 &caller.ID,
		CreatedByMobileNo:         caller.MobileNo,
	}

	unix := s.now().Unix()
	for attempt := 0; attempt < maxTransactionIDAttempts; attempt++ {
		p.TransactionID = GenerateTransactionID(req.InvoiceNo, req.TransactionType, unix+int64(attempt))

		err := s.payments.Create(ctx, p)
		if errors.Is(err, repositories.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal("Failed to create payment", err)
		}

		metrics.PaymentsCreated.WithLabelValues(p.TransactionType).Inc()
		cache.InvalidateAnalytics(ctx)
		return p, nil
	}

	return nil, apperrors.Internal("Could not generate unique transaction ID", nil)
}

// ListPayments pages through payments matching f. Agents only see their
// own. TotalAmount sums handling charges over the whole filter.
func (s *PaymentService) ListPayments(ctx context.Context, caller *models.User, f models.PaymentFilter) (*models.PaymentListResponse, error) {
	if caller.IsAgent() {
		f.CreatedBy = &caller.ID
	}
	if f.Status != "" && !models.IsValidPaymentStatus(f.Status) {
		return nil, apperrors.Validation("Invalid status")
	}
	if f.TransactionType != "" && !models.IsValidTransactionType(f.TransactionType) {
		return nil, apperrors.Validation("Invalid transaction type")
	}
	f.Page, f.Limit = models.NormalizePage(f.Page, f.Limit)

	payments, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, apperrors.Internal("Failed to list payments", err)
	}
	agg, err := s.payments.Aggregate(ctx, f)
	if err != nil {
		return nil, apperrors.Internal("Failed to total payments", err)
	}

	page := models.NewPagination(f.Page, f.Limit, agg.Count)
	return &models.PaymentListResponse{
		Payments: payments,
		Pagination: models.PaymentListPagination{
			CurrentPage:   page.CurrentPage,
			TotalPages:    page.TotalPages,
			TotalPayments: page.TotalCount,
			HasNext:       page.HasNext,
			HasPrev:       page.HasPrev,
		},
		TotalAmount: agg.HandlingCharges,
	}, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, caller *models.User, id int) (*models.Payment, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, paymentErr(err)
	}
	if caller.IsAgent() && (p.CreatedBy == nil || *p.CreatedBy != caller.ID) {
		return nil, apperrors.Forbidden("Access denied")
	}
	return p, nil
}

// UpdateStatus applies an admin decision. Marking a payment paid stamps
// the payment date and keeps the screenshot if one was uploaded; other
// statuses ignore the upload.
func (s *PaymentService) UpdateStatus(ctx context.Context, id int, status string, remarks *string, screenshot *storage.Upload) (*models.Payment, error) {
	if !models.IsValidPaymentStatus(status) {
		return nil, apperrors.Validation("Invalid status")
	}
	if _, err := s.payments.Get(ctx, id); err != nil {
		return nil, paymentErr(err)
	}
	if remarks != nil && *remarks == "" {
		remarks = nil
	}

	var paymentDate *time.Time
	var stored *models.StoredFile
	if status == models.PaymentPaid {
		now := s.now()
		paymentDate = &now

		if screenshot != nil {
			screenshot.Prefix = "payments"
			file, err := s.files.Store(ctx, screenshot)
			if err != nil {
				if apperrors.Is(err, apperrors.KindValidation) {
					return nil, err
				}
				return nil, apperrors.Internal("Failed to store screenshot", err)
			}
			stored = file
		}
	}

	if err := s.payments.UpdateStatus(ctx, id, status, remarks, paymentDate, stored); err != nil {
		return nil, paymentErr(err)
	}

	metrics.PaymentStatusChanges.WithLabelValues(status).Inc()
	cache.InvalidateAnalytics(ctx)

	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, paymentErr(err)
	}
	return p, nil
}

// DeletePayment removes a payment that is still pending.
func (s *PaymentService) DeletePayment(ctx context.Context, id int) (*models.Payment, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, paymentErr(err)
	}
	if p.Status != models.PaymentPending {
		return nil, apperrors.Validation("Only pending payments can be deleted")
	}

	deleted, err := s.payments.DeleteWithStatus(ctx, id, models.PaymentPending)
	if err != nil {
		return nil, apperrors.Internal("Failed to delete payment", err)
	}
	if !deleted {
		// status changed between the read and the delete
		return nil, apperrors.Validation("Only pending payments can be deleted")
	}

	cache.InvalidateAnalytics(ctx)
	return p, nil
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportPayments renders the payments visible to caller. Admins get every
// payment; agents get their own, named after their company and location.
func (s *PaymentService) ExportPayments(ctx context.Context, caller *models.User, format string) (*ExportFile, error) {
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, apperrors.Validation("format must be csv or xlsx")
	}

	var createdBy *int
	if caller.IsAgent() {
		createdBy = &caller.ID
	}
	rows, err := s.payments.ExportRows(ctx, createdBy)
	if err != nil {
		return nil, apperrors.Internal("Failed to export payments data", err)
	}

	date := timeutil.ToIST(s.now()).Format(timeutil.DateLayout)
	base := "payments_export_all_companies_" + date
	if caller.IsAgent() {
		companyName, locationName := "company", "location"
		if len(rows) > 0 {
			if c := rows[0].Company; c != nil && c.Name != "" {
				companyName = c.Name
			}
			if l := rows[0].Location; l != nil && l.Name != "" {
				locationName = l.Name
			}
		}
		base = fmt.Sprintf("payments_export_%s_%s_%s",
			unsafeFilenameChars.ReplaceAllString(companyName, "_"),
			unsafeFilenameChars.ReplaceAllString(locationName, "_"),
			date)
	}

	records := export.PaymentExportRecords(rows)
	if format == FormatXLSX {
		data, err := export.Workbook(export.PaymentExportColumns, records)
		if err != nil {
			return nil, apperrors.Internal("Failed to generate spreadsheet", err)
		}
		metrics.ExportsGenerated.WithLabelValues("payments_xlsx").Inc()
		return &ExportFile{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}

	metrics.ExportsGenerated.WithLabelValues("payments_csv").Inc()
	return &ExportFile{
		Filename:    base + ".csv",
		ContentType: "text/csv",
		Data:        export.SerializeRows(export.PaymentExportColumns, records),
	}, nil
}

func paymentErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("Payment not found")
	}
	return apperrors.Internal("Internal server error", err)
}
