// Package settings persists system-wide configuration, most importantly the
// current committee year every year-scoped operation reads.
package settings

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const currentYearKey = "current_year"

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the store can run
// standalone or inside the handover transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store reads and writes the singleton system_settings rows.
type Store struct {
	q Querier
}

// NewStore constructs a Store over a pool or transaction.
func NewStore(q Querier) *Store {
	return &Store{q: q}
}

// CurrentYear returns the current committee year, creating the row with the
// calendar year on first access. The read-after-insert handles a concurrent
// writer winning the insert.
func (s *Store) CurrentYear(ctx context.Context) (int, error) {
	raw, err := s.get(ctx)
	if err == nil {
		return strconv.Atoi(raw)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	year := time.Now().Year()
	if _, err := s.q.Exec(ctx,
		`INSERT INTO system_settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		currentYearKey, strconv.Itoa(year)); err != nil {
		return 0, err
	}
	raw, err = s.get(ctx)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

// SetCurrentYear upserts the current year. Values equal to or lower than the
// stored year are accepted; callers must not rely on monotonicity.
func (s *Store) SetCurrentYear(ctx context.Context, year int) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO system_settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		currentYearKey, strconv.Itoa(year))
	return err
}

func (s *Store) get(ctx context.Context) (string, error) {
	var raw string
	err := s.q.QueryRow(ctx, `SELECT value FROM system_settings WHERE key = $1`, currentYearKey).Scan(&raw)
	return raw, err
}
