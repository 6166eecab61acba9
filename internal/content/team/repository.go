package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/platform/db"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, designation, name, student_id, email, image_url,
	facebook_url, linkedin_url, quote, year, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Designation, &m.Name, &m.StudentID, &m.Email,
		&m.ImageURL, &m.FacebookURL, &m.LinkedInURL, &m.Quote, &m.Year,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *Repository) List(ctx context.Context, year *int) ([]Member, error) {
	query := `SELECT ` + columns + ` FROM team_members`
	var args []any
	if year != nil {
		query += ` WHERE year = $1`
		args = append(args, *year)
	}
	query += ` ORDER BY year DESC, name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM team_members WHERE id = $1`, id)
	m, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, fmt.Errorf("%w: team member %d", shared.ErrNotFound, id)
	}
	return m, err
}

func (r *Repository) Create(ctx context.Context, m Member) (Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO team_members (designation, name, student_id, email, image_url,
			facebook_url, linkedin_url, quote, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+columns,
		m.Designation, m.Name, m.StudentID, m.Email, m.ImageURL,
		m.FacebookURL, m.LinkedInURL, m.Quote, m.Year)
	created, err := scan(row)
	if err != nil && db.IsUniqueViolation(err) {
		return Member{}, fmt.Errorf("%w: member already listed for that year", shared.ErrConflict)
	}
	return created, err
}

func (r *Repository) Update(ctx context.Context, m Member) (Member, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE team_members SET designation = $2, name = $3, student_id = $4, email = $5,
			image_url = $6, facebook_url = $7, linkedin_url = $8, quote = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		m.ID, m.Designation, m.Name, m.StudentID, m.Email, m.ImageURL,
		m.FacebookURL, m.LinkedInURL, m.Quote)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, fmt.Errorf("%w: team member %d", shared.ErrNotFound, m.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team member %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: team member %d", shared.ErrNotFound, id)
	}
	return nil
}
