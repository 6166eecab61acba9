package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounts struct {
	approved map[string]int
	all      map[string]int
	err      error
}

func (f fakeCounts) CountApproved(ctx context.Context, table string) (int, error) {
	return f.approved[table], f.err
}

func (f fakeCounts) CountAll(ctx context.Context, table string) (int, error) {
	return f.all[table], f.err
}

func TestSummaryCountsPublishedContent(t *testing.T) {
	svc := NewService(fakeCounts{
		approved: map[string]int{"projects": 12, "blogs": 30, "resources": 7, "alumni": 150},
		all:      map[string]int{"events": 22, "success_stories": 4},
	})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Projects: 12, Blogs: 30, Resources: 7, Events: 22, Alumni: 150, Stories: 4,
	}, summary)
}

func TestSummaryPropagatesFirstError(t *testing.T) {
	countErr := errors.New("connection reset")
	svc := NewService(fakeCounts{err: countErr})

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, countErr)
}
