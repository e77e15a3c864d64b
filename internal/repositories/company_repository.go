package repositories

import (
	"context"
	"fmt"
	"time"

	"servicedesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyRepository struct {
	DB *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

const companyColumns = `c.id, c.name, c.phone, c.email, c.created_at, c.updated_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO companies (name, phone, email)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Phone, c.Email,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CompanyRepository) Get(ctx context.Context, id int) (*models.Company, error) {
	return scanCompany(r.DB.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies c WHERE c.id = $1`, id))
}

// Update patches the non-nil fields.
func (r *CompanyRepository) Update(ctx context.Context, id int, req *models.UpdateCompanyRequest) (*models.Company, error) {
	return scanCompany(r.DB.QueryRow(ctx,
		`UPDATE companies c
		 SET name = COALESCE($2, c.name),
		     phone = COALESCE($3, c.phone),
		     email = COALESCE($4, c.email),
		     updated_at = NOW()
		 WHERE c.id = $1
		 RETURNING `+companyColumns,
		id, req.Name, req.Phone, req.Email,
	))
}

// Delete removes the company, its locations (by cascade) and the agent
// users of those locations.
func (r *CompanyRepository) Delete(ctx context.Context, id int) (*models.Company, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM users
		 WHERE role = 'agent'
		   AND id IN (SELECT user_id FROM locations WHERE company_id = $1 AND user_id IS NOT NULL)`,
		id,
	); err != nil {
		return nil, err
	}

	company, err := scanCompany(tx.QueryRow(ctx,
		`DELETE FROM companies c WHERE c.id = $1 RETURNING `+companyColumns, id))
	if err != nil {
		return nil, err
	}
	return company, tx.Commit(ctx)
}

// List returns one page of companies matching the filter.
func (r *CompanyRepository) List(ctx context.Context, f models.CompanyFilter) ([]*models.Company, error) {
	b := companyWhere(f)
	query := `SELECT ` + companyColumns + ` FROM companies c` + b.sql() +
		companyOrderBy(f.SortBy, f.SortOrder) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", b.next(), b.next()+1)

	page, limit := models.NormalizePage(f.Page, f.Limit)
	args := append(b.args, limit, models.Offset(page, limit))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// Count returns how many companies match the filter's search.
func (r *CompanyRepository) Count(ctx context.Context, f models.CompanyFilter) (int, error) {
	b := companyWhere(f)
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM companies c`+b.sql(), b.args...).Scan(&n)
	return n, err
}

// ListAll returns every company, oldest first.
func (r *CompanyRepository) ListAll(ctx context.Context) ([]*models.Company, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+companyColumns+` FROM companies c ORDER BY c.created_at, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// CreatedSince returns creation times of companies created at or after since.
func (r *CompanyRepository) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := r.DB.Query(ctx, `SELECT created_at FROM companies WHERE created_at >= $1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// ListWithLocations returns one row per location, and a single row with no
// location for companies that have none.
func (r *CompanyRepository) ListWithLocations(ctx context.Context) ([]*models.CompanyLocationRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+companyColumns+`,
		        l.id, l.name, l.address, l.email, l.contact_person, l.contact_mobile,
		        l.user_id, u.mobile_no
		 FROM companies c
		 LEFT JOIN locations l ON l.company_id = c.id
		 LEFT JOIN users u ON u.id = l.user_id
		 ORDER BY c.created_at, c.id, l.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.CompanyLocationRow
	for rows.Next() {
		var row models.CompanyLocationRow
		var locID, userID *int
		var name, address, email, contactPerson, contactMobile, agentMobile *string
		c := &row.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt,
			&locID, &name, &address, &email, &contactPerson, &contactMobile, &userID, &agentMobile); err != nil {
			return nil, err
		}
		if locID != nil {
			row.Location = &models.Location{
				ID:            *locID,
				CompanyID:     c.ID,
				Name:          deref(name),
				Address:       deref(address),
				Email:         deref(email),
				ContactPerson: deref(contactPerson),
				ContactMobile: deref(contactMobile),
				UserID:        userID,
				AgentMobileNo: deref(agentMobile),
			}
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

func (r *CompanyRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n)
	return n, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
