package repositories

import (
	"context"
	"errors"

	"servicedesk-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, role, mobile_no, password_hash, company_id, location_id, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Role, &u.MobileNo, &u.PasswordHash,
		&u.CompanyID, &u.LocationID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByMobile(ctx context.Context, mobileNo string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE mobile_no = $1`, mobileNo))
}

// UpsertAdmin creates an admin with the given mobile number or refreshes
// the password of the existing admin in one statement. A mobile number
// already used by an agent is left untouched and reported as ErrDuplicate.
func (r *UserRepository) UpsertAdmin(ctx context.Context, mobileNo, passwordHash string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`INSERT INTO users (role, mobile_no, password_hash)
		 VALUES ('admin', $1, $2)
		 ON CONFLICT (mobile_no) DO UPDATE
		   SET password_hash = EXCLUDED.password_hash, updated_at = NOW()
		   WHERE users.role = 'admin'
		 RETURNING `+userColumns,
		mobileNo, passwordHash,
	))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrDuplicate
	}
	return u, err
}

// List returns all users, oldest first.
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
