package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicedesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `p.id, p.transaction_type, p.transaction_id, p.po_no, p.invoice_no,
	p.project_cost, p.handling_charges_percentage, p.calculated_handling_charges,
	p.instructions, p.status, p.remarks, p.screenshot_url, p.screenshot_file_type,
	p.payment_date, p.created_by, COALESCE(u.mobile_no, ''), p.created_at, p.updated_at`

const paymentFrom = ` FROM payments p LEFT JOIN users u ON u.id = p.created_by`

func paymentScanTargets(p *models.Payment) []interface{} {
	return []interface{}{
		&p.ID, &p.TransactionType, &p.TransactionID, &p.PONo, &p.InvoiceNo,
		&p.ProjectCost, &p.HandlingChargesPercentage, &p.CalculatedHandlingCharges,
		&p.Instructions, &p.Status, &p.Remarks, &p.ScreenshotURL, &p.ScreenshotFileType,
		&p.PaymentDate, &p.CreatedBy, &p.CreatedByMobileNo, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(paymentScanTargets(&p)...); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create inserts the payment only if its transaction id is free; a taken
// id yields ErrDuplicate.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO payments (transaction_type, transaction_id, po_no, invoice_no, project_cost,
		     handling_charges_percentage, calculated_handling_charges, instructions, status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (transaction_id) DO NOTHING
		 RETURNING id, created_at, updated_at`,
		p.TransactionType, p.TransactionID, p.PONo, p.InvoiceNo, p.ProjectCost,
		p.HandlingChargesPercentage, p.CalculatedHandlingCharges, p.Instructions, p.Status, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	return translate(err)
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	return scanPayment(r.DB.QueryRow(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE p.id = $1`, id))
}

// List returns one page of matching payments, newest first.
func (r *PaymentRepository) List(ctx context.Context, f models.PaymentFilter) ([]*models.Payment, error) {
	b := paymentWhere(f)
	page, limit := models.NormalizePage(f.Page, f.Limit)
	query := `SELECT ` + paymentColumns + paymentFrom + b.sql() +
		` ORDER BY p.created_at DESC, p.id DESC` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", b.next(), b.next()+1)
	args := append(b.args, limit, models.Offset(page, limit))

	return r.query(ctx, query, args...)
}

// ListAll returns every payment, oldest first.
func (r *PaymentRepository) ListAll(ctx context.Context) ([]*models.Payment, error) {
	return r.query(ctx, `SELECT `+paymentColumns+paymentFrom+` ORDER BY p.created_at, p.id`)
}

// CreatedSince returns payments created at or after since, optionally for
// one creator.
func (r *PaymentRepository) CreatedSince(ctx context.Context, since time.Time, createdBy *int) ([]*models.Payment, error) {
	b := paymentWhere(models.PaymentFilter{StartDate: &since, CreatedBy: createdBy})
	return r.query(ctx, `SELECT `+paymentColumns+paymentFrom+b.sql()+` ORDER BY p.created_at`, b.args...)
}

func (r *PaymentRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Aggregate counts the payments matching the filter and sums their
// handling charges and project cost. Paging fields are ignored.
func (r *PaymentRepository) Aggregate(ctx context.Context, f models.PaymentFilter) (models.PaymentAggregate, error) {
	b := paymentWhere(f)
	var agg models.PaymentAggregate
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(p.calculated_handling_charges), 0)::float8,
		        COALESCE(SUM(p.project_cost), 0)::float8
		 FROM payments p`+b.sql(), b.args...,
	).Scan(&agg.Count, &agg.HandlingCharges, &agg.ProjectCost)
	return agg, err
}

// UpdateStatus writes a status change. Nil arguments leave the stored
// value untouched.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int, status string, remarks *string, paymentDate *time.Time, screenshot *models.StoredFile) error {
	var url, mime *string
	if screenshot != nil {
		url, mime = &screenshot.URL, &screenshot.MimeType
	}
	tag, err := r.DB.Exec(ctx,
		`UPDATE payments
		 SET status = $2,
		     remarks = COALESCE($3, remarks),
		     payment_date = COALESCE($4, payment_date),
		     screenshot_url = COALESCE($5, screenshot_url),
		     screenshot_file_type = COALESCE($6, screenshot_file_type),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, status, remarks, paymentDate, url, mime,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWithStatus deletes the payment only while it still has the given
// status. It reports whether a row was removed.
func (r *PaymentRepository) DeleteWithStatus(ctx context.Context, id int, status string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE id = $1 AND status = $2`, id, status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ExportRows joins each payment with its creator's location and company.
func (r *PaymentRepository) ExportRows(ctx context.Context, createdBy *int) ([]*models.PaymentExportRow, error) {
	b := paymentWhere(models.PaymentFilter{CreatedBy: createdBy})
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+`,
		        c.id, c.name, c.phone, c.email,
		        l.id, l.name, l.address, l.email, l.contact_person, l.contact_mobile
		 `+paymentFrom+`
		 LEFT JOIN locations l ON l.id = u.location_id
		 LEFT JOIN companies c ON c.id = COALESCE(l.company_id, u.company_id)`+
			b.sql()+` ORDER BY p.created_at DESC, p.id DESC`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.PaymentExportRow
	for rows.Next() {
		var row models.PaymentExportRow
		var companyID, locationID *int
		var cName, cPhone, cEmail *string
		var lName, lAddress, lEmail, lPerson, lMobile *string

		targets := append(paymentScanTargets(&row.Payment),
			&companyID, &cName, &cPhone, &cEmail,
			&locationID, &lName, &lAddress, &lEmail, &lPerson, &lMobile)
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		if companyID != nil {
			row.Company = &models.Company{ID: *companyID, Name: deref(cName), Phone: deref(cPhone), Email: deref(cEmail)}
		}
		if locationID != nil {
			row.Location = &models.Location{
				ID:            *locationID,
				Name:          deref(lName),
				Address:       deref(lAddress),
				Email:         deref(lEmail),
				ContactPerson: deref(lPerson),
				ContactMobile: deref(lMobile),
			}
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
