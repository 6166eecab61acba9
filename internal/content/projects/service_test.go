package projects

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseku-cluster/cluster-backend/internal/authz"
	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type memRepo struct {
	items  map[int64]Project
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[int64]Project{}, nextID: 1}
}

func (m *memRepo) List(ctx context.Context, f ListFilter) ([]Project, error) {
	var out []Project
	for _, p := range m.items {
		if f.Year != nil && p.Year != *f.Year {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				if p.Approval == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id int64) (Project, error) {
	p, ok := m.items[id]
	if !ok {
		return Project{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) Create(ctx context.Context, p Project) (Project, error) {
	p.ID = m.nextID
	m.nextID++
	m.items[p.ID] = p
	return p, nil
}

func (m *memRepo) Update(ctx context.Context, p Project) (Project, error) {
	if _, ok := m.items[p.ID]; !ok {
		return Project{}, shared.ErrNotFound
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

func (m *memRepo) SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error {
	p, ok := m.items[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Approval = status
	m.items[id] = p
	return nil
}

type stubSettings struct{ year int }

func (s stubSettings) CurrentYear(ctx context.Context) (int, error) { return s.year, nil }

type memApprovals struct {
	logs []shared.ApprovalLog
}

func (m *memApprovals) Record(ctx context.Context, log shared.ApprovalLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newTestService(year int) (*Service, *memRepo, *memApprovals) {
	repo := newMemRepo()
	approvals := &memApprovals{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := authz.NewEvaluator(nil, stubSettings{year: year}, nil)
	return NewService(repo, stubSettings{year: year}, gate, approvals, logger), repo, approvals
}

func TestCreatePinsCurrentYearAndStartsPending(t *testing.T) {
	svc, _, _ := newTestService(2024)

	p, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Routing Lab", Description: "Campus network playground", Status: "Ongoing",
	})
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, content.StatusPending, p.Approval)
}

func TestAnonymousListSeesOnlyApproved(t *testing.T) {
	svc, repo, _ := newTestService(2024)
	repo.items[1] = Project{ID: 1, Year: 2024, Approval: content.StatusApproved}
	repo.items[2] = Project{ID: 2, Year: 2024, Approval: content.StatusPending}
	repo.items[3] = Project{ID: 3, Year: 2024, Approval: content.StatusRejected}

	visible, err := svc.List(context.Background(), nil, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, int64(1), visible[0].ID)

	all, err := svc.List(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestYearFilterAppliesToListOnly(t *testing.T) {
	svc, repo, _ := newTestService(2024)
	repo.items[1] = Project{ID: 1, Year: 2023, Approval: content.StatusApproved}
	repo.items[2] = Project{ID: 2, Year: 2024, Approval: content.StatusApproved}

	year := 2024
	listed, err := svc.List(context.Background(), &year, true)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(2), listed[0].ID)

	// By-id retrieval ignores the current year entirely.
	old, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2023, old.Year)
}

func TestUpdateRejectsPastYears(t *testing.T) {
	svc, repo, _ := newTestService(2024)
	repo.items[1] = Project{ID: 1, Year: 2023, Title: "Old", Approval: content.StatusApproved}

	_, err := svc.Update(context.Background(), 1, UpsertRequest{
		Title: "New Name", Description: "d", Status: "Completed",
	})
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
	assert.Equal(t, "Old", repo.items[1].Title)

	require.ErrorIs(t, svc.Delete(context.Background(), 1), shared.ErrPermissionDenied)
}

func TestUpdateKeepsYearAndStatus(t *testing.T) {
	svc, repo, _ := newTestService(2024)
	repo.items[1] = Project{ID: 1, Year: 2024, Approval: content.StatusApproved, Title: "Old"}

	p, err := svc.Update(context.Background(), 1, UpsertRequest{
		Title: "New", Description: "d", Status: "Completed",
	})
	require.NoError(t, err)
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, content.StatusApproved, p.Approval)
	assert.Equal(t, "New", p.Title)
}

func TestDecideApprovesOnceAndRecords(t *testing.T) {
	svc, repo, approvals := newTestService(2024)
	repo.items[1] = Project{ID: 1, Year: 2024, Approval: content.StatusPending}

	p, err := svc.Decide(context.Background(), 1, content.StatusApproved, "looks good")
	require.NoError(t, err)
	assert.Equal(t, content.StatusApproved, p.Approval)
	require.Len(t, approvals.logs, 1)
	assert.Equal(t, shared.ApprovalApprove, approvals.logs[0].Action)
	assert.Equal(t, "looks good", approvals.logs[0].Note)

	_, err = svc.Decide(context.Background(), 1, content.StatusRejected, "")
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Len(t, approvals.logs, 1)
}
