package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	memberships map[int64]*CurrentMembership
}

func (f fakeLedger) CurrentMembership(ctx context.Context, userID int64) (*CurrentMembership, error) {
	return f.memberships[userID], nil
}

type fakeYears struct{ year int }

func (f fakeYears) CurrentYear(ctx context.Context) (int, error) { return f.year, nil }

type fakeActors struct{ staff map[int64]bool }

func (f fakeActors) IsStaff(ctx context.Context, userID int64) (bool, error) {
	return f.staff[userID], nil
}

func newTestEvaluator() *Evaluator {
	ledger := fakeLedger{memberships: map[int64]*CurrentMembership{
		1: {RoleID: 1, RoleName: "president", IsPresident: true, Year: 2025},
		2: {RoleID: 2, RoleName: "webmaster", Pages: []string{"projects", "blogs"}, Year: 2025},
	}}
	actors := fakeActors{staff: map[int64]bool{9: true}}
	return NewEvaluator(ledger, fakeYears{year: 2025}, actors)
}

func TestPresidentPassesEveryPageCheck(t *testing.T) {
	e := newTestEvaluator()

	for _, page := range []string{"projects", "blogs", "alumni", "email"} {
		ok, err := e.HasPagePermission(context.Background(), 1, page)
		require.NoError(t, err)
		assert.True(t, ok, page)
	}
}

func TestMemberLimitedToGrantedPages(t *testing.T) {
	e := newTestEvaluator()

	ok, err := e.HasPagePermission(context.Background(), 2, "projects")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.HasPagePermission(context.Background(), 2, "alumni")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPageChecksAreCaseInsensitive(t *testing.T) {
	e := newTestEvaluator()

	ok, err := e.HasPagePermission(context.Background(), 2, "  Projects ")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEmptyPageNameIsAnOpenCheck(t *testing.T) {
	e := newTestEvaluator()

	// Users without any membership still pass an open check.
	ok, err := e.HasPagePermission(context.Background(), 42, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserWithoutMembershipHasNoPages(t *testing.T) {
	e := newTestEvaluator()

	ok, err := e.HasPagePermission(context.Background(), 42, "projects")
	require.NoError(t, err)
	assert.False(t, ok)

	perms, err := e.CurrentPermissions(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestStaffCountsAsAdmin(t *testing.T) {
	e := newTestEvaluator()

	ok, err := e.IsPresidentOrAdmin(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, ok)

	// Staff status does not make someone the president.
	president, err := e.IsCurrentPresident(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, president)
}

func TestCanModifyOnlyCurrentYear(t *testing.T) {
	e := newTestEvaluator()

	ok, err := e.CanModify(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.CanModify(context.Background(), 2024)
	require.NoError(t, err)
	assert.False(t, ok)
}
