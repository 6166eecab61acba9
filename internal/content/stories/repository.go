package stories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, name, position, company, quote, image_url, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Story, error) {
	var s Story
	err := row.Scan(&s.ID, &s.Name, &s.Position, &s.Company, &s.Quote, &s.ImageURL,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repository) List(ctx context.Context) ([]Story, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM success_stories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var out []Story
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Story, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM success_stories WHERE id = $1`, id)
	s, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Story{}, fmt.Errorf("%w: story %d", shared.ErrNotFound, id)
	}
	return s, err
}

func (r *Repository) Create(ctx context.Context, s Story) (Story, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO success_stories (name, position, company, quote, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+columns,
		s.Name, s.Position, s.Company, s.Quote, s.ImageURL, s.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, s Story) (Story, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE success_stories SET name = $2, position = $3, company = $4, quote = $5,
			image_url = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		s.ID, s.Name, s.Position, s.Company, s.Quote, s.ImageURL)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Story{}, fmt.Errorf("%w: story %d", shared.ErrNotFound, s.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM success_stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete story %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: story %d", shared.ErrNotFound, id)
	}
	return nil
}
