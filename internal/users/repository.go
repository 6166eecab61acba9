package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/platform/db"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const userColumns = `id, email, name, student_id, phone_number, photo, password_hash, is_active, is_staff, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users ordered by email.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Get returns a user by ID.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return u, err
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, email)
	}
	return u, err
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, p UpsertParams) (User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, student_id, phone_number, photo, password_hash, is_active, is_staff)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+userColumns,
		p.Email, p.Name, p.StudentID, p.PhoneNumber, p.Photo, p.PasswordHash, p.IsActive, p.IsStaff)
	u, err := scanUser(row)
	if err != nil && db.IsUniqueViolation(err) {
		return User{}, fmt.Errorf("%w: email already registered", shared.ErrConflict)
	}
	return u, err
}

// UpsertByEmail creates or refreshes a user keyed by email.
func (r *Repository) UpsertByEmail(ctx context.Context, p UpsertParams) (User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, student_id, phone_number, photo, password_hash, is_active, is_staff)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (email) DO UPDATE SET
	name = EXCLUDED.name,
	student_id = EXCLUDED.student_id,
	photo = EXCLUDED.photo,
	password_hash = EXCLUDED.password_hash,
	is_active = EXCLUDED.is_active,
	is_staff = EXCLUDED.is_staff,
	updated_at = NOW()
RETURNING `+userColumns,
		p.Email, p.Name, p.StudentID, p.PhoneNumber, p.Photo, p.PasswordHash, p.IsActive, p.IsStaff)
	return scanUser(row)
}

// UpdateProfile applies partial profile edits.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET
	name = COALESCE($2, name),
	student_id = COALESCE($3, student_id),
	phone_number = COALESCE($4, phone_number),
	photo = COALESCE($5, photo),
	is_active = COALESCE($6, is_active),
	is_staff = COALESCE($7, is_staff),
	updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns,
		id, req.Name, req.StudentID, req.PhoneNumber, req.Photo, req.IsActive, req.IsStaff)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return u, err
}

// IsStaff reports the staff flag for a user. Unknown users are not staff.
func (r *Repository) IsStaff(ctx context.Context, id int64) (bool, error) {
	var isStaff bool
	err := r.pool.QueryRow(ctx, `SELECT is_staff FROM users WHERE id = $1`, id).Scan(&isStaff)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return isStaff, err
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.StudentID, &u.PhoneNumber, &u.Photo, &u.PasswordHash, &u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
