package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/pages"
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

// List returns all roles with their granted pages, ordered by name.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_president, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.IsPresident, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		granted, err := r.pagesFor(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Pages = granted
	}
	return roles, nil
}

// Get returns a role by ID with its pages.
func (r *Repository) Get(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT id, name, is_president, created_at, updated_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.IsPresident, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return Role{}, err
	}
	role.Pages, err = r.pagesFor(ctx, role.ID)
	return role, err
}

// FindPresident returns the unique president role, or shared.ErrNoPresidentRole.
func (r *Repository) FindPresident(ctx context.Context) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `SELECT id, name, is_president, created_at, updated_at FROM roles WHERE is_president`).
		Scan(&role.ID, &role.Name, &role.IsPresident, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, shared.ErrNoPresidentRole
	}
	if err != nil {
		return Role{}, err
	}
	role.Pages, err = r.pagesFor(ctx, role.ID)
	return role, err
}

// OtherPresidentExists reports whether a role different from name already
// carries the president flag.
func (r *Repository) OtherPresidentExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE is_president AND name <> $1)`, name).Scan(&exists)
	return exists, err
}

// Upsert creates or updates a role keyed by name and replaces its page
// grants. The partial unique index on is_president backs the service-level
// president check against races.
func (r *Repository) Upsert(ctx context.Context, name string, pageIDs []int64, isPresident bool) (Role, error) {
	var role Role
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO roles (name, is_president) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET is_president = EXCLUDED.is_president, updated_at = NOW()
RETURNING id, name, is_president, created_at, updated_at`,
			name, isPresident).
			Scan(&role.ID, &role.Name, &role.IsPresident, &role.CreatedAt, &role.UpdatedAt)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: a president role already exists", shared.ErrConflict)
			}
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM role_pages WHERE role_id = $1`, role.ID); err != nil {
			return err
		}
		for _, pageID := range pageIDs {
			if _, err := tx.Exec(ctx, `INSERT INTO role_pages (role_id, page_id) VALUES ($1, $2)`, role.ID, pageID); err != nil {
				if db.IsForeignKeyViolation(err) {
					return fmt.Errorf("%w: page %d", shared.ErrNotFound, pageID)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Role{}, err
	}
	role.Pages, err = r.pagesFor(ctx, role.ID)
	return role, err
}

// Delete removes a role. Roles referenced by memberships are protected by a
// RESTRICT foreign key and refuse deletion.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_pages WHERE role_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
		}
		return nil
	})
	if err != nil && db.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: role has committee memberships", shared.ErrConflict)
	}
	return err
}

func (r *Repository) pagesFor(ctx context.Context, roleID int64) ([]pages.Page, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.description, p.created_at, p.updated_at
FROM role_pages rp JOIN pages p ON p.id = rp.page_id
WHERE rp.role_id = $1 ORDER BY p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var granted []pages.Page
	for rows.Next() {
		var p pages.Page
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		granted = append(granted, p)
	}
	return granted, rows.Err()
}
