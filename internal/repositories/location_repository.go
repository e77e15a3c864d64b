package repositories

import (
	"context"
	"errors"

	"servicedesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository struct {
	DB *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{DB: db}
}

const locationColumns = `l.id, l.company_id, l.name, l.address, l.email, l.contact_person,
	l.contact_mobile, l.user_id, COALESCE(u.mobile_no, ''), l.created_at, l.updated_at`

const locationFrom = ` FROM locations l LEFT JOIN users u ON u.id = l.user_id`

func scanLocation(row pgx.Row) (*models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.Email, &l.ContactPerson,
		&l.ContactMobile, &l.UserID, &l.AgentMobileNo, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// CreateWithAgent inserts the location and its agent user in one
// transaction and links them both ways. A taken mobile number yields
// ErrDuplicate and nothing is written.
func (r *LocationRepository) CreateWithAgent(ctx context.Context, loc *models.Location, agent *models.User) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO locations (company_id, name, address, email, contact_person, contact_mobile)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		loc.CompanyID, loc.Name, loc.Address, loc.Email, loc.ContactPerson, loc.ContactMobile,
	).Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return err
	}

	agent.Role = models.RoleAgent
	agent.CompanyID = &loc.CompanyID
	agent.LocationID = &loc.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO users (role, mobile_no, password_hash, company_id, location_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (mobile_no) DO NOTHING
		 RETURNING id, created_at, updated_at`,
		agent.Role, agent.MobileNo, agent.PasswordHash, agent.CompanyID, agent.LocationID,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	if err != nil {
		return translate(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE locations SET user_id = $2 WHERE id = $1`, loc.ID, agent.ID); err != nil {
		return err
	}
	loc.UserID = &agent.ID
	loc.AgentMobileNo = agent.MobileNo

	return tx.Commit(ctx)
}

func (r *LocationRepository) ListByCompany(ctx context.Context, companyID int) ([]*models.Location, error) {
	return r.list(ctx, ` WHERE l.company_id = $1 ORDER BY l.created_at, l.id`, companyID)
}

func (r *LocationRepository) ListAll(ctx context.Context) ([]*models.Location, error) {
	return r.list(ctx, ` ORDER BY l.created_at, l.id`)
}

func (r *LocationRepository) list(ctx context.Context, tail string, args ...interface{}) ([]*models.Location, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+locationColumns+locationFrom+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []*models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// Get returns a location by id without company scoping.
func (r *LocationRepository) Get(ctx context.Context, id int) (*models.Location, error) {
	return scanLocation(r.DB.QueryRow(ctx,
		`SELECT `+locationColumns+locationFrom+` WHERE l.id = $1`, id))
}

// GetByUserID returns the location an agent logs in for.
func (r *LocationRepository) GetByUserID(ctx context.Context, userID int) (*models.Location, error) {
	return scanLocation(r.DB.QueryRow(ctx,
		`SELECT `+locationColumns+locationFrom+` WHERE l.user_id = $1`, userID))
}

// Update patches the location fields that are set and, when passwordHash is
// not empty, the agent user's password. Both writes share a transaction.
func (r *LocationRepository) Update(ctx context.Context, companyID, id int, req *models.UpdateLocationRequest, passwordHash string) (*models.Location, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var userID *int
	err = tx.QueryRow(ctx,
		`UPDATE locations
		 SET name = COALESCE($3, name),
		     address = COALESCE($4, address),
		     email = COALESCE($5, email),
		     contact_person = COALESCE($6, contact_person),
		     contact_mobile = COALESCE($7, contact_mobile),
		     updated_at = CASE WHEN $8 THEN NOW() ELSE updated_at END
		 WHERE id = $1 AND company_id = $2
		 RETURNING user_id`,
		id, companyID, req.Name, req.Address, req.Email, req.ContactPerson, req.ContactMobile,
		req.HasLocationFields(),
	).Scan(&userID)
	if err != nil {
		return nil, translate(err)
	}

	if passwordHash != "" && userID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
			*userID, passwordHash,
		); err != nil {
			return nil, err
		}
	}

	loc, err := scanLocation(tx.QueryRow(ctx,
		`SELECT `+locationColumns+locationFrom+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, err
	}
	return loc, tx.Commit(ctx)
}

// Delete removes the location of the given company and its agent user.
func (r *LocationRepository) Delete(ctx context.Context, companyID, id int) (*models.Location, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	loc, err := scanLocation(tx.QueryRow(ctx,
		`SELECT `+locationColumns+locationFrom+` WHERE l.id = $1 AND l.company_id = $2`, id, companyID))
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id); err != nil {
		return nil, err
	}
	if loc.UserID != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1 AND role = 'agent'`, *loc.UserID); err != nil {
			return nil, err
		}
	}
	return loc, tx.Commit(ctx)
}

func (r *LocationRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n)
	return n, err
}
