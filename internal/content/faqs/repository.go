package faqs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, question, answer, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (FAQ, error) {
	var f FAQ
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *Repository) List(ctx context.Context) ([]FAQ, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM faqs ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var out []FAQ
	for rows.Next() {
		f, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (FAQ, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM faqs WHERE id = $1`, id)
	f, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FAQ{}, fmt.Errorf("%w: faq %d", shared.ErrNotFound, id)
	}
	return f, err
}

func (r *Repository) Create(ctx context.Context, f FAQ) (FAQ, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO faqs (question, answer, created_by)
		VALUES ($1, $2, $3)
		RETURNING `+columns,
		f.Question, f.Answer, f.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, f FAQ) (FAQ, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE faqs SET question = $2, answer = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		f.ID, f.Question, f.Answer)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FAQ{}, fmt.Errorf("%w: faq %d", shared.ErrNotFound, f.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faq %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: faq %d", shared.ErrNotFound, id)
	}
	return nil
}
