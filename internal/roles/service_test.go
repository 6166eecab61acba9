package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type memRepo struct {
	roles  map[string]Role
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{roles: map[string]Role{}, nextID: 1}
}

func (m *memRepo) List(ctx context.Context) ([]Role, error) {
	var out []Role
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRepo) Get(ctx context.Context, id int64) (Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return Role{}, shared.ErrNotFound
}

func (m *memRepo) FindPresident(ctx context.Context) (Role, error) {
	for _, r := range m.roles {
		if r.IsPresident {
			return r, nil
		}
	}
	return Role{}, shared.ErrNoPresidentRole
}

func (m *memRepo) OtherPresidentExists(ctx context.Context, name string) (bool, error) {
	for _, r := range m.roles {
		if r.IsPresident && r.Name != name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Upsert(ctx context.Context, name string, pageIDs []int64, isPresident bool) (Role, error) {
	r, ok := m.roles[name]
	if !ok {
		r = Role{ID: m.nextID, Name: name}
		m.nextID++
	}
	r.IsPresident = isPresident
	m.roles[name] = r
	return r, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	for name, r := range m.roles {
		if r.ID == id {
			delete(m.roles, name)
			return nil
		}
	}
	return shared.ErrNotFound
}

func TestCreateOrUpdateRejectsBlankName(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.CreateOrUpdate(context.Background(), UpsertRoleRequest{Name: "   "})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSecondPresidentRoleConflicts(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.CreateOrUpdate(context.Background(), UpsertRoleRequest{Name: "president", IsPresident: true})
	require.NoError(t, err)

	_, err = svc.CreateOrUpdate(context.Background(), UpsertRoleRequest{Name: "vice president", IsPresident: true})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestReflaggingSamePresidentRoleIsIdempotent(t *testing.T) {
	svc := NewService(newMemRepo())

	first, err := svc.CreateOrUpdate(context.Background(), UpsertRoleRequest{Name: "president", IsPresident: true})
	require.NoError(t, err)

	again, err := svc.CreateOrUpdate(context.Background(), UpsertRoleRequest{Name: "president", IsPresident: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestPresidentRoleResolution(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	_, err := svc.PresidentRole(context.Background())
	assert.ErrorIs(t, err, shared.ErrNoPresidentRole)

	_, err = svc.CreateOrUpdate(context.Background(), UpsertRoleRequest{Name: "president", IsPresident: true})
	require.NoError(t, err)

	role, err := svc.PresidentRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "president", role.Name)
}
