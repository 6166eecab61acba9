package alumni

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/platform/db"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, name, email, batch, session, designation, company, location,
	image_url, year, approval_status, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Alumnus, error) {
	var a Alumnus
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Batch, &a.Session, &a.Designation,
		&a.Company, &a.Location, &a.ImageURL, &a.Year, &a.Approval, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func filterClause(f ListFilter) (string, []any) {
	var clause string
	var args []any
	var where []string
	if f.Year != nil {
		args = append(args, *f.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	if f.Batch != "" {
		args = append(args, f.Batch)
		where = append(where, fmt.Sprintf("batch = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		where = append(where, fmt.Sprintf("approval_status = ANY($%d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			clause += ` WHERE ` + cond
		} else {
			clause += ` AND ` + cond
		}
	}
	return clause, args
}

func (r *Repository) Count(ctx context.Context, f ListFilter) (int, error) {
	clause, args := filterClause(f)
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM alumni`+clause, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count alumni: %w", err)
	}
	return total, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Alumnus, error) {
	clause, args := filterClause(f)
	query := `SELECT ` + columns + ` FROM alumni` + clause + ` ORDER BY name ASC`
	if f.PerPage > 0 {
		args = append(args, f.PerPage)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		page := f.Page
		if page < 1 {
			page = 1
		}
		args = append(args, (page-1)*f.PerPage)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alumni: %w", err)
	}
	defer rows.Close()

	var out []Alumnus
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alumnus: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Alumnus, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM alumni WHERE id = $1`, id)
	a, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Alumnus{}, fmt.Errorf("%w: alumnus %d", shared.ErrNotFound, id)
	}
	return a, err
}

func (r *Repository) Create(ctx context.Context, a Alumnus) (Alumnus, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO alumni (name, email, batch, session, designation, company, location,
			image_url, year, approval_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+columns,
		a.Name, a.Email, a.Batch, a.Session, a.Designation, a.Company, a.Location,
		a.ImageURL, a.Year, a.Approval, a.CreatedBy)
	created, err := scan(row)
	if err != nil && db.IsUniqueViolation(err) {
		return Alumnus{}, fmt.Errorf("%w: alumnus already listed for that year", shared.ErrConflict)
	}
	return created, err
}

func (r *Repository) Update(ctx context.Context, a Alumnus) (Alumnus, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE alumni SET name = $2, email = $3, batch = $4, session = $5,
			designation = $6, company = $7, location = $8, image_url = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		a.ID, a.Name, a.Email, a.Batch, a.Session, a.Designation, a.Company,
		a.Location, a.ImageURL)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Alumnus{}, fmt.Errorf("%w: alumnus %d", shared.ErrNotFound, a.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM alumni WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alumnus %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alumnus %d", shared.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE alumni SET approval_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set alumnus %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alumnus %d", shared.ErrNotFound, id)
	}
	return nil
}
