package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const columns = `id, title, date, time, location, venue, description, image,
	tags, link, is_upcoming, highlights, links, year, created_by, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scan(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Venue,
		&e.Description, &e.Image, &e.Tags, &e.Link, &e.IsUpcoming, &e.Highlights,
		&e.Links, &e.Year, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Event, error) {
	query := `SELECT ` + columns + ` FROM events`
	var args []any
	var where []string
	if f.Year != nil {
		args = append(args, *f.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	if f.Upcoming != nil {
		args = append(args, *f.Upcoming)
		where = append(where, fmt.Sprintf("is_upcoming = $%d", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM events WHERE id = $1`, id)
	e, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, fmt.Errorf("%w: event %d", shared.ErrNotFound, id)
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, e Event) (Event, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (title, date, time, location, venue, description, image,
			tags, link, is_upcoming, highlights, links, year, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+columns,
		e.Title, e.Date, e.Time, e.Location, e.Venue, e.Description, e.Image,
		e.Tags, e.Link, e.IsUpcoming, e.Highlights, e.Links, e.Year, e.CreatedBy)
	return scan(row)
}

func (r *Repository) Update(ctx context.Context, e Event) (Event, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE events SET title = $2, date = $3, time = $4, location = $5, venue = $6,
			description = $7, image = $8, tags = $9, link = $10, is_upcoming = $11,
			highlights = $12, links = $13, updated_at = now()
		WHERE id = $1
		RETURNING `+columns,
		e.ID, e.Title, e.Date, e.Time, e.Location, e.Venue, e.Description, e.Image,
		e.Tags, e.Link, e.IsUpcoming, e.Highlights, e.Links)
	updated, err := scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, fmt.Errorf("%w: event %d", shared.ErrNotFound, e.ID)
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: event %d", shared.ErrNotFound, id)
	}
	return nil
}
