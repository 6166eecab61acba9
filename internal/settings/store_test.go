package settings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDB struct {
	vals map[string]string
}

func newMemDB() *memDB {
	return &memDB{vals: map[string]string{}}
}

type memRow struct {
	val string
	err error
}

func (r memRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.val
	return nil
}

func (d *memDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	v, ok := d.vals[args[0].(string)]
	if !ok {
		return memRow{err: pgx.ErrNoRows}
	}
	return memRow{val: v}
}

func (d *memDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	key, val := args[0].(string), args[1].(string)
	if strings.Contains(sql, "DO NOTHING") {
		if _, ok := d.vals[key]; !ok {
			d.vals[key] = val
		}
	} else {
		d.vals[key] = val
	}
	return pgconn.CommandTag{}, nil
}

func TestCurrentYearDefaultsToCalendarYear(t *testing.T) {
	store := NewStore(newMemDB())

	year, err := store.CurrentYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Now().Year(), year)
}

func TestCurrentYearKeepsExistingValue(t *testing.T) {
	db := newMemDB()
	db.vals[currentYearKey] = "2019"
	store := NewStore(db)

	year, err := store.CurrentYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2019, year)
}

func TestSetCurrentYearOverwrites(t *testing.T) {
	db := newMemDB()
	store := NewStore(db)

	require.NoError(t, store.SetCurrentYear(context.Background(), 2026))
	year, err := store.CurrentYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
}
