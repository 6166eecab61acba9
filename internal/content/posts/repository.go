package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, title, slug, content, images, videos, year, created_by,
	created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Images, &p.Videos,
		&p.Year, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Post, error) {
	query := `SELECT ` + columns + ` FROM posts`
	var args []any
	if f.Year != nil {
		args = append(args, *f.Year)
		query += ` WHERE year = $1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM posts WHERE id = $1`, id)
	p, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, fmt.Errorf("%w: post %d", shared.ErrNotFound, id)
	}
	return p, err
}

func (r *Repository) Create(ctx context.Context, p Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, slug, content, images, videos, year, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+columns,
		p.Title, p.Slug, p.Content, p.Images, p.Videos, p.Year, p.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, p Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts SET title = $2, content = $3, images = $4, videos = $5,
			updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		p.ID, p.Title, p.Content, p.Images, p.Videos)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, fmt.Errorf("%w: post %d", shared.ErrNotFound, p.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: post %d", shared.ErrNotFound, id)
	}
	return nil
}

func (r *Repository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
		slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check post slug %q: %w", slug, err)
	}
	return exists, nil
}
