package alumni

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type memRepo struct {
	items  map[int64]Alumnus
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[int64]Alumnus{}, nextID: 1}
}

func (m *memRepo) filtered(f ListFilter) []Alumnus {
	var out []Alumnus
	for _, a := range m.items {
		if f.Year != nil && a.Year != *f.Year {
			continue
		}
		if f.Batch != "" && a.Batch != f.Batch {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				if a.Approval == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memRepo) Count(ctx context.Context, f ListFilter) (int, error) {
	return len(m.filtered(f)), nil
}

func (m *memRepo) List(ctx context.Context, f ListFilter) ([]Alumnus, error) {
	out := m.filtered(f)
	if f.PerPage > 0 {
		start := (f.Page - 1) * f.PerPage
		if start > len(out) {
			start = len(out)
		}
		end := start + f.PerPage
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id int64) (Alumnus, error) {
	a, ok := m.items[id]
	if !ok {
		return Alumnus{}, shared.ErrNotFound
	}
	return a, nil
}

func (m *memRepo) Create(ctx context.Context, a Alumnus) (Alumnus, error) {
	a.ID = m.nextID
	m.nextID++
	m.items[a.ID] = a
	return a, nil
}

func (m *memRepo) Update(ctx context.Context, a Alumnus) (Alumnus, error) {
	m.items[a.ID] = a
	return a, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func (m *memRepo) SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error {
	a := m.items[id]
	a.Approval = status
	m.items[id] = a
	return nil
}

type stubSettings struct{ year int }

func (s stubSettings) CurrentYear(ctx context.Context) (int, error) { return s.year, nil }

type memApprovals struct{ logs []shared.ApprovalLog }

func (m *memApprovals) Record(ctx context.Context, log shared.ApprovalLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newTestService(year int) (*Service, *memRepo, *memApprovals) {
	repo := newMemRepo()
	approvals := &memApprovals{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, stubSettings{year: year}, approvals, logger), repo, approvals
}

func TestSubmitStartsPending(t *testing.T) {
	svc, _, _ := newTestService(2024)

	a, err := svc.Submit(context.Background(), UpsertRequest{
		Name: "Farhana Akter", Batch: "12th",
	})
	require.NoError(t, err)
	assert.Equal(t, content.StatusPending, a.Approval)
	assert.Equal(t, 2024, a.Year)
}

func TestAnonymousDirectoryShowsApprovedOnly(t *testing.T) {
	svc, repo, _ := newTestService(2024)
	repo.items[1] = Alumnus{ID: 1, Name: "A", Approval: content.StatusApproved}
	repo.items[2] = Alumnus{ID: 2, Name: "B", Approval: content.StatusPending}

	visible, err := svc.List(context.Background(), ListFilter{}, false)
	require.NoError(t, err)
	require.Len(t, visible.Data, 1)
	assert.Equal(t, int64(1), visible.Data[0].ID)
	assert.Equal(t, 1, visible.Pagination.Total)
}

func TestDirectoryPaginates(t *testing.T) {
	svc, repo, _ := newTestService(2024)
	for i := 1; i <= 45; i++ {
		id := int64(i)
		repo.items[id] = Alumnus{ID: id, Name: fmt.Sprintf("Alum %03d", i), Approval: content.StatusApproved}
	}

	first, err := svc.List(context.Background(), ListFilter{}, true)
	require.NoError(t, err)
	assert.Len(t, first.Data, 20)
	assert.Equal(t, 45, first.Pagination.Total)
	assert.Equal(t, 3, first.Pagination.TotalPages)

	last, err := svc.List(context.Background(), ListFilter{Page: 3, PerPage: 20}, true)
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)
	assert.Equal(t, "Alum 041", last.Data[0].Name)
}

func TestPastYearEntriesStayEditable(t *testing.T) {
	// Unlike year scoped content, the directory is maintained across years.
	svc, repo, _ := newTestService(2024)
	repo.items[1] = Alumnus{ID: 1, Name: "Old Entry", Year: 2019, Approval: content.StatusApproved}

	updated, err := svc.Update(context.Background(), 1, UpsertRequest{
		Name: "Old Entry", Batch: "5th", Company: "New Employer",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Employer", updated.Company)
	assert.Equal(t, 2019, updated.Year)
}

func TestDecideRecordsModeration(t *testing.T) {
	svc, _, approvals := newTestService(2024)
	a, err := svc.Submit(context.Background(), UpsertRequest{Name: "F", Batch: "12th"})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), a.ID, content.StatusRejected, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, content.StatusRejected, decided.Approval)
	require.Len(t, approvals.logs, 1)
	assert.Equal(t, shared.ApprovalReject, approvals.logs[0].Action)

	_, err = svc.Decide(context.Background(), a.ID, content.StatusApproved, "")
	require.ErrorIs(t, err, shared.ErrConflict)
}
