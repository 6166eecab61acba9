package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, title, category, format, difficulty, link, restricted,
	description, year, approval_status, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Resource, error) {
	var res Resource
	err := row.Scan(&res.ID, &res.Title, &res.Category, &res.Format, &res.Difficulty,
		&res.Link, &res.Restricted, &res.Description, &res.Year, &res.Approval,
		&res.CreatedBy, &res.CreatedAt, &res.UpdatedAt)
	return res, err
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Resource, error) {
	query := `SELECT ` + columns + ` FROM resources`
	var args []any
	var where []string
	if f.Year != nil {
		args = append(args, *f.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		args = append(args, f.Statuses)
		where = append(where, fmt.Sprintf("approval_status = ANY($%d)", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		res, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Resource, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM resources WHERE id = $1`, id)
	res, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Resource{}, fmt.Errorf("%w: resource %d", shared.ErrNotFound, id)
	}
	return res, err
}

func (r *Repository) Create(ctx context.Context, res Resource) (Resource, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO resources (title, category, format, difficulty, link, restricted,
			description, year, approval_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+columns,
		res.Title, res.Category, res.Format, res.Difficulty, res.Link, res.Restricted,
		res.Description, res.Year, res.Approval, res.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, res Resource) (Resource, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE resources SET title = $2, category = $3, format = $4, difficulty = $5,
			link = $6, restricted = $7, description = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		res.ID, res.Title, res.Category, res.Format, res.Difficulty, res.Link,
		res.Restricted, res.Description)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Resource{}, fmt.Errorf("%w: resource %d", shared.ErrNotFound, res.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: resource %d", shared.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resources SET approval_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set resource %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: resource %d", shared.ErrNotFound, id)
	}
	return nil
}
