package blogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, title, category, tags, author, date, excerpt, image,
	restricted, year, approval_status, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Category, &b.Tags, &b.Author, &b.Date, &b.Excerpt,
		&b.Image, &b.Restricted, &b.Year, &b.Approval, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Blog, error) {
	query := `SELECT ` + columns + ` FROM blogs`
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
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var out []Blog
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Blog, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM blogs WHERE id = $1`, id)
	b, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Blog{}, fmt.Errorf("%w: blog %d", shared.ErrNotFound, id)
	}
	return b, err
}

func (r *Repository) Create(ctx context.Context, b Blog) (Blog, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (title, category, tags, author, date, excerpt, image,
			restricted, year, approval_status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+columns,
		b.Title, b.Category, b.Tags, b.Author, b.Date, b.Excerpt, b.Image,
		b.Restricted, b.Year, b.Approval, b.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, b Blog) (Blog, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE blogs SET title = $2, category = $3, tags = $4, author = $5, date = $6,
			excerpt = $7, image = $8, restricted = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		b.ID, b.Title, b.Category, b.Tags, b.Author, b.Date, b.Excerpt, b.Image, b.Restricted)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Blog{}, fmt.Errorf("%w: blog %d", shared.ErrNotFound, b.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: blog %d", shared.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blogs SET approval_status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set blog %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: blog %d", shared.ErrNotFound, id)
	}
	return nil
}
