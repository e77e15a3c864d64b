package repositories

import (
	"context"
	"time"

	"servicedesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type JournalRepository struct {
	DB *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{DB: db}
}

const journalColumns = `id, name, amount, mode, narration, screenshot_url, created_by, created_at, updated_at`

func scanJournal(row pgx.Row) (*models.Journal, error) {
	var j models.Journal
	err := row.Scan(&j.ID, &j.Name, &j.Amount, &j.Mode, &j.Narration, &j.ScreenshotURL,
		&j.CreatedBy, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (r *JournalRepository) Create(ctx context.Context, j *models.Journal) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO journals (name, amount, mode, narration, screenshot_url, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		j.Name, j.Amount, j.Mode, j.Narration, j.ScreenshotURL, j.CreatedBy,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

func (r *JournalRepository) Get(ctx context.Context, id int) (*models.Journal, error) {
	return scanJournal(r.DB.QueryRow(ctx, `SELECT `+journalColumns+` FROM journals WHERE id = $1`, id))
}

// List returns all entries, newest first.
func (r *JournalRepository) List(ctx context.Context) ([]*models.Journal, error) {
	return r.query(ctx, `SELECT `+journalColumns+` FROM journals ORDER BY created_at DESC, id DESC`)
}

func (r *JournalRepository) CreatedSince(ctx context.Context, since time.Time) ([]*models.Journal, error) {
	return r.query(ctx, `SELECT `+journalColumns+` FROM journals WHERE created_at >= $1 ORDER BY created_at`, since)
}

func (r *JournalRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Journal, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := []*models.Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

// Update patches the non-nil fields.
func (r *JournalRepository) Update(ctx context.Context, id int, p *models.JournalPatch) (*models.Journal, error) {
	return scanJournal(r.DB.QueryRow(ctx,
		`UPDATE journals
		 SET name = COALESCE($2, name),
		     amount = COALESCE($3, amount),
		     mode = COALESCE($4, mode),
		     narration = COALESCE($5, narration),
		     screenshot_url = COALESCE($6, screenshot_url),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+journalColumns,
		id, p.Name, p.Amount, p.Mode, p.Narration, p.ScreenshotURL,
	))
}

func (r *JournalRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM journals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JournalRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM journals`).Scan(&n)
	return n, err
}
