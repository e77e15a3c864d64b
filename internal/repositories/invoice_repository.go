package repositories

import (
	"context"
	"errors"

	"servicedesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `i.id, i.invoice_no, i.company_id, i.location_id,
	COALESCE(c.name, ''), COALESCE(l.name, ''),
	i.amount, i.gst_amount, i.description, i.status, i.created_at, i.updated_at`

const invoiceFrom = ` FROM invoices i
	LEFT JOIN companies c ON c.id = i.company_id
	LEFT JOIN locations l ON l.id = i.location_id`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNo, &inv.CompanyID, &inv.LocationID,
		&inv.CompanyName, &inv.LocationName,
		&inv.Amount, &inv.GSTAmount, &inv.Description, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	inv.History = []models.InvoiceHistoryEntry{}
	return &inv, nil
}

// CreateWithHistory inserts the invoice only if its number is free, along
// with its first history entry. A taken number yields ErrDuplicate and
// nothing is written.
func (r *InvoiceRepository) CreateWithHistory(ctx context.Context, inv *models.Invoice, entry models.InvoiceHistoryEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices (invoice_no, company_id, location_id, amount, gst_amount, description, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (invoice_no) DO NOTHING
		 RETURNING id, created_at, updated_at`,
		inv.InvoiceNo, inv.CompanyID, inv.LocationID, inv.Amount, inv.GSTAmount, inv.Description, inv.Status,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	if err != nil {
		return translate(err)
	}

	if err := insertHistory(ctx, tx, inv.ID, entry); err != nil {
		return err
	}
	inv.History = []models.InvoiceHistoryEntry{entry}

	return tx.Commit(ctx)
}

// AppendStatus overwrites the status and appends the history entry.
func (r *InvoiceRepository) AppendStatus(ctx context.Context, id int, entry models.InvoiceHistoryEntry) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE invoices SET status = $2, updated_at = NOW() WHERE id = $1`, id, entry.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := insertHistory(ctx, tx, id, entry); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertHistory(ctx context.Context, tx pgx.Tx, invoiceID int, entry models.InvoiceHistoryEntry) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO invoice_status_history (invoice_id, status, updated_by, changed_at)
		 VALUES ($1, $2, $3, $4)`,
		invoiceID, entry.Status, entry.UpdatedBy, entry.Timestamp,
	)
	return err
}

// Get returns the invoice with its full history.
func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx, `SELECT `+invoiceColumns+invoiceFrom+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachHistory(ctx, []*models.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns invoices newest first, optionally scoped to one location.
func (r *InvoiceRepository) List(ctx context.Context, f models.InvoiceFilter) ([]*models.Invoice, error) {
	b := &whereBuilder{}
	if f.LocationID != nil {
		b.add("i.location_id = $%d", *f.LocationID)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+invoiceFrom+b.sql()+` ORDER BY i.created_at DESC, i.id DESC`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachHistory(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// attachHistory loads history for all invoices with a single query,
// preserving append order.
func (r *InvoiceRepository) attachHistory(ctx context.Context, invoices []*models.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	byID := make(map[int]*models.Invoice, len(invoices))
	ids := make([]int, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT invoice_id, status, changed_at, updated_by
		 FROM invoice_status_history
		 WHERE invoice_id = ANY($1)
		 ORDER BY invoice_id, id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID int
		var entry models.InvoiceHistoryEntry
		if err := rows.Scan(&invoiceID, &entry.Status, &entry.Timestamp, &entry.UpdatedBy); err != nil {
			return err
		}
		if inv, ok := byID[invoiceID]; ok {
			inv.History = append(inv.History, entry)
		}
	}
	return rows.Err()
}

// Update patches amount, GST and description.
func (r *InvoiceRepository) Update(ctx context.Context, id int, req *models.UpdateInvoiceRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices
		 SET amount = COALESCE($2, amount),
		     gst_amount = COALESCE($3, gst_amount),
		     description = COALESCE($4, description),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, req.Amount, req.GSTAmount, req.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
