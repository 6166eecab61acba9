package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/platform/db"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all pages ordered by name.
func (r *Repository) List(ctx context.Context) ([]Page, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM pages ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pages []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Get returns a page by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Page, error) {
	var p Page
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at FROM pages WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Page{}, fmt.Errorf("%w: page %d", shared.ErrNotFound, id)
	}
	return p, err
}

// Create inserts a new page. Duplicate names map to a conflict.
func (r *Repository) Create(ctx context.Context, name, description string) (Page, error) {
	var p Page
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pages (name, description) VALUES ($1, $2) RETURNING id, name, description, created_at, updated_at`,
		name, description).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Page{}, fmt.Errorf("%w: page %q already exists", shared.ErrConflict, name)
		}
		return Page{}, err
	}
	return p, nil
}

// UpdateDescription edits the mutable part of a page. The name is identity
// and stays fixed.
func (r *Repository) UpdateDescription(ctx context.Context, id int64, description string) (Page, error) {
	var p Page
	err := r.pool.QueryRow(ctx,
		`UPDATE pages SET description = $2, updated_at = NOW() WHERE id = $1 RETURNING id, name, description, created_at, updated_at`,
		id, description).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Page{}, fmt.Errorf("%w: page %d", shared.ErrNotFound, id)
	}
	return p, err
}

// Delete removes a page unless a role still grants it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: page is granted to a role", shared.ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: page %d", shared.ErrNotFound, id)
	}
	return nil
}
