package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// Repository defines persistence for pending registrations.
type Repository interface {
	UpsertPending(ctx context.Context, p PendingRegistration) error
	FindPending(ctx context.Context, email string) (*PendingRegistration, error)
	DeletePending(ctx context.Context, email string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// UpsertPending stores a pending signup, replacing any earlier attempt for
// the same address. The created_at reset restarts the validity window.
func (r *PGRepository) UpsertPending(ctx context.Context, p PendingRegistration) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pending_registrations (email, name, student_id, password_hash, otp, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			student_id = EXCLUDED.student_id,
			password_hash = EXCLUDED.password_hash,
			otp = EXCLUDED.otp,
			created_at = now()`,
		p.Email, p.Name, p.StudentID, p.PasswordHash, p.OTP)
	if err != nil {
		return fmt.Errorf("upsert pending registration: %w", err)
	}
	return nil
}

func (r *PGRepository) FindPending(ctx context.Context, email string) (*PendingRegistration, error) {
	var p PendingRegistration
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, student_id, password_hash, otp, created_at
		FROM pending_registrations WHERE lower(email) = lower($1)`, email).
		Scan(&p.ID, &p.Email, &p.Name, &p.StudentID, &p.PasswordHash, &p.OTP, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no pending registration for %s", shared.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("find pending registration: %w", err)
	}
	return &p, nil
}

func (r *PGRepository) DeletePending(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM pending_registrations WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return fmt.Errorf("delete pending registration: %w", err)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
