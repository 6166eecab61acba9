package posts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseku-cluster/cluster-backend/internal/authz"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type memRepo struct {
	items  map[int64]Post
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[int64]Post{}, nextID: 1}
}

func (m *memRepo) List(ctx context.Context, f ListFilter) ([]Post, error) {
	var out []Post
	for _, p := range m.items {
		if f.Year != nil && p.Year != *f.Year {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id int64) (Post, error) {
	p, ok := m.items[id]
	if !ok {
		return Post{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) Create(ctx context.Context, p Post) (Post, error) {
	p.ID = m.nextID
	m.nextID++
	m.items[p.ID] = p
	return p, nil
}

func (m *memRepo) Update(ctx context.Context, p Post) (Post, error) {
	if _, ok := m.items[p.ID]; !ok {
		return Post{}, shared.ErrNotFound
	}
	m.items[p.ID] = p
	return p, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	for _, p := range m.items {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type stubSettings struct{ year int }

func (s stubSettings) CurrentYear(ctx context.Context) (int, error) { return s.year, nil }

func newTestService(year int) (*Service, *memRepo) {
	repo := newMemRepo()
	gate := authz.NewEvaluator(nil, stubSettings{year: year}, nil)
	return NewService(repo, stubSettings{year: year}, gate), repo
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "cluster-weekly-update", Slugify("  CLUSTER  Weekly...Update  "))
	assert.Equal(t, "intake-2026", Slugify("Intake 2026"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCreateDerivesUniqueSlug(t *testing.T) {
	svc, _ := newTestService(2025)

	first, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Tech Fest Recap", Content: "What a week.",
	})
	require.NoError(t, err)
	assert.Equal(t, "tech-fest-recap", first.Slug)
	assert.Equal(t, 2025, first.Year)

	second, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Tech Fest Recap", Content: "Part two.",
	})
	require.NoError(t, err)
	assert.Equal(t, "tech-fest-recap-1", second.Slug)
}

func TestCreateFallsBackWhenTitleHasNoSlugCharacters(t *testing.T) {
	svc, _ := newTestService(2025)

	p, err := svc.Create(context.Background(), UpsertRequest{Title: "!!!", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "post", p.Slug)
}

func TestUpdateKeepsSlug(t *testing.T) {
	svc, _ := newTestService(2025)

	created, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Orientation", Content: "Welcome.",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpsertRequest{
		Title: "Orientation Day", Content: "Welcome, freshers.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Orientation Day", updated.Title)
	assert.Equal(t, "orientation", updated.Slug)
}

func TestUpdateRejectsPastYears(t *testing.T) {
	svc, repo := newTestService(2025)
	repo.items[7] = Post{ID: 7, Title: "Archive", Slug: "archive", Year: 2023}

	_, err := svc.Update(context.Background(), 7, UpsertRequest{Title: "Edited", Content: "x"})
	require.ErrorIs(t, err, shared.ErrPermissionDenied)

	err = svc.Delete(context.Background(), 7)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
}
