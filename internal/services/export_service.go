package services

import (
	"context"

	"servicedesk-backend/internal/apperrors"
	"servicedesk-backend/internal/export"
	"servicedesk-backend/internal/metrics"
	"servicedesk-backend/internal/models"
)

// DatabaseExportFilename is the attachment name of the full dump.
const DatabaseExportFilename = "database_export.zip"

type ExportSources struct {
	Companies interface {
		ListAll(ctx context.Context) ([]*models.Company, error)
	}
	Locations interface {
		ListAll(ctx context.Context) ([]*models.Location, error)
	}
	Users interface {
		List(ctx context.Context) ([]*models.User, error)
	}
	Invoices interface {
		List(ctx context.Context, f models.InvoiceFilter) ([]*models.Invoice, error)
	}
	Payments interface {
		ListAll(ctx context.Context) ([]*models.Payment, error)
	}
	Journals interface {
		List(ctx context.Context) ([]*models.Journal, error)
	}
}

type ExportService struct {
	src ExportSources
}

func NewExportService(src ExportSources) *ExportService {
	return &ExportService{src: src}
}

// DatabaseZip dumps every collection to CSV and bundles them. Any failing
// collection aborts the whole export; nothing partial is returned.
func (s *ExportService) DatabaseZip(ctx context.Context) ([]byte, error) {
	companies, err := s.src.Companies.ListAll(ctx)
	if err != nil {
		return nil, exportErr(err)
	}
	locations, err := s.src.Locations.ListAll(ctx)
	if err != nil {
		return nil, exportErr(err)
	}
	users, err := s.src.Users.List(ctx)
	if err != nil {
		return nil, exportErr(err)
	}
	invoices, err := s.src.Invoices.List(ctx, models.InvoiceFilter{})
	if err != nil {
		return nil, exportErr(err)
	}
	payments, err := s.src.Payments.ListAll(ctx)
	if err != nil {
		return nil, exportErr(err)
	}
	journals, err := s.src.Journals.List(ctx)
	if err != nil {
		return nil, exportErr(err)
	}

	companyNames := make(map[int]string, len(companies))
	for _, c := range companies {
		companyNames[c.ID] = c.Name
	}

	data, err := export.BundleFiles([]export.NamedFile{
		export.CompaniesTable(companies).File(),
		export.LocationsTable(locations, companyNames).File(),
		export.UsersTable(users).File(),
		export.InvoicesTable(invoices).File(),
		export.PaymentsTable(payments).File(),
		export.JournalsTable(journals).File(),
	})
	if err != nil {
		return nil, exportErr(err)
	}

	metrics.ExportsGenerated.WithLabelValues("database_zip").Inc()
	return data, nil
}

func exportErr(err error) error {
	return apperrors.Internal("Failed to export database", err)
}
