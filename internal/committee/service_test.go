package committee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type stubSettings struct {
	year int
	err  error
}

func (s stubSettings) CurrentYear(ctx context.Context) (int, error) {
	return s.year, s.err
}

// fakeLedger backs both the repository and the handover transaction, so a
// test can assert the state left behind by a full transition.
type fakeLedger struct {
	currentYear   int
	presidentRole int64
	users         map[int64]string
	memberships   map[int]map[int64]int64 // year -> user -> role
	alumni        []Membership
	failArchive   bool
	lastHash      string

	committed bool
}

func newFakeLedger(year int) *fakeLedger {
	return &fakeLedger{
		currentYear:   year,
		presidentRole: 1,
		users:         map[int64]string{},
		memberships:   map[int]map[int64]int64{},
	}
}

func (f *fakeLedger) List(ctx context.Context, year *int) ([]Membership, error) { return nil, nil }

func (f *fakeLedger) MembershipFor(ctx context.Context, userID int64, year int) (*Membership, error) {
	roleID, ok := f.memberships[year][userID]
	if !ok {
		return nil, nil
	}
	return &Membership{UserID: userID, RoleID: roleID, Year: year}, nil
}

func (f *fakeLedger) Assign(ctx context.Context, userID, roleID int64, year int) (Membership, error) {
	if err := f.assign(userID, roleID, year); err != nil {
		return Membership{}, err
	}
	return Membership{UserID: userID, RoleID: roleID, Year: year}, nil
}

func (f *fakeLedger) CurrentRole(ctx context.Context, userID int64, year int) (*RoleGrant, error) {
	roleID, ok := f.memberships[year][userID]
	if !ok {
		return nil, nil
	}
	return &RoleGrant{RoleID: roleID, IsPresident: roleID == f.presidentRole, Year: year}, nil
}

func (f *fakeLedger) WithHandoverTx(ctx context.Context, fn func(HandoverTx) error) error {
	// Run against a copy and swap it in only on success, mimicking rollback.
	snapshot := *f
	snapMemberships := map[int]map[int64]int64{}
	for y, m := range f.memberships {
		inner := map[int64]int64{}
		for u, r := range m {
			inner[u] = r
		}
		snapMemberships[y] = inner
	}
	if err := fn(fakeHandoverTx{f}); err != nil {
		*f = snapshot
		f.memberships = snapMemberships
		return err
	}
	f.committed = true
	return nil
}

// fakeHandoverTx adapts *fakeLedger to HandoverTx, whose Assign returns only
// an error while the repository's Assign also returns the membership.
type fakeHandoverTx struct {
	*fakeLedger
}

func (t fakeHandoverTx) Assign(ctx context.Context, userID, roleID int64, year int) error {
	return t.fakeLedger.assign(userID, roleID, year)
}

func (f *fakeLedger) WithImportTx(ctx context.Context, fn func(ImportTx) error) error {
	return fn(&fakeImportTx{ledger: f})
}

func (f *fakeLedger) CurrentYear(ctx context.Context) (int, error) { return f.currentYear, nil }

func (f *fakeLedger) SetCurrentYear(ctx context.Context, year int) error {
	f.currentYear = year
	return nil
}

func (f *fakeLedger) ListByYear(ctx context.Context, year int) ([]Membership, error) {
	var out []Membership
	for userID, roleID := range f.memberships[year] {
		out = append(out, Membership{
			UserID:    userID,
			RoleID:    roleID,
			Year:      year,
			UserEmail: f.users[userID],
		})
	}
	return out, nil
}

func (f *fakeLedger) DeleteByYear(ctx context.Context, year int) (int, error) {
	n := len(f.memberships[year])
	delete(f.memberships, year)
	return n, nil
}

func (f *fakeLedger) ArchiveToAlumni(ctx context.Context, m Membership) error {
	if f.failArchive {
		return errors.New("alumni insert failed")
	}
	f.alumni = append(f.alumni, m)
	return nil
}

func (f *fakeLedger) PresidentRoleID(ctx context.Context) (int64, error) {
	if f.presidentRole == 0 {
		return 0, shared.ErrNoPresidentRole
	}
	return f.presidentRole, nil
}

func (f *fakeLedger) UserEmail(ctx context.Context, userID int64) (string, error) {
	email, ok := f.users[userID]
	if !ok {
		return "", fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
	}
	return email, nil
}

func (f *fakeLedger) assign(userID, roleID int64, year int) error {
	if f.memberships[year] == nil {
		f.memberships[year] = map[int64]int64{}
	}
	f.memberships[year][userID] = roleID
	return nil
}

type fakeImportTx struct {
	ledger *fakeLedger
}

func (t *fakeImportTx) UpsertUser(ctx context.Context, email, name, studentID, photo, passwordHash string) (int64, error) {
	if email == "broken@cseku.ac.bd" {
		return 0, errors.New("db down")
	}
	for id, existing := range t.ledger.users {
		if existing == email {
			return id, nil
		}
	}
	id := int64(len(t.ledger.users) + 100)
	t.ledger.users[id] = email
	t.ledger.lastHash = passwordHash
	return id, nil
}

func (t *fakeImportTx) UpsertRoleByName(ctx context.Context, name string) (int64, error) {
	return 7, nil
}

func (t *fakeImportTx) Assign(ctx context.Context, userID, roleID int64, year int) error {
	return t.ledger.assign(userID, roleID, year)
}

func (t *fakeImportTx) UpsertTeamMember(ctx context.Context, row RosterRow, year int) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandoverArchivesAndInstallsPresident(t *testing.T) {
	ledger := newFakeLedger(2023)
	ledger.users[10] = "old.president@cseku.ac.bd"
	ledger.users[20] = "new.president@cseku.ac.bd"
	require.NoError(t, ledger.assign(10, 1, 2023))
	require.NoError(t, ledger.assign(11, 2, 2023))
	ledger.users[11] = "member@cseku.ac.bd"

	svc := NewService(ledger, stubSettings{year: 2023}, nil, testLogger())

	result, err := svc.Handover(context.Background(), HandoverRequest{
		NewYear: 2024, NewPresidentID: 20, ArchiveOld: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2024, result.Year)
	assert.Equal(t, "new.president@cseku.ac.bd", result.PresidentEmail)
	assert.Equal(t, 2, result.Archived)
	assert.Equal(t, 2024, ledger.currentYear)
	assert.Empty(t, ledger.memberships[2023])
	assert.Equal(t, ledger.presidentRole, ledger.memberships[2024][20])
	assert.Len(t, ledger.alumni, 2)
	assert.True(t, ledger.committed)
}

func TestHandoverWithoutArchiveKeepsOldMemberships(t *testing.T) {
	ledger := newFakeLedger(2023)
	ledger.users[20] = "new.president@cseku.ac.bd"
	require.NoError(t, ledger.assign(11, 2, 2023))
	ledger.users[11] = "member@cseku.ac.bd"

	svc := NewService(ledger, stubSettings{year: 2023}, nil, testLogger())

	result, err := svc.Handover(context.Background(), HandoverRequest{
		NewYear: 2024, NewPresidentID: 20,
	})
	require.NoError(t, err)

	assert.Zero(t, result.Archived)
	assert.Len(t, ledger.memberships[2023], 1)
	assert.Empty(t, ledger.alumni)
}

func TestHandoverRejectsNonAdvancingYear(t *testing.T) {
	ledger := newFakeLedger(2024)
	ledger.users[20] = "p@cseku.ac.bd"
	svc := NewService(ledger, stubSettings{year: 2024}, nil, testLogger())

	_, err := svc.Handover(context.Background(), HandoverRequest{NewYear: 2024, NewPresidentID: 20})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.False(t, ledger.committed)
}

func TestHandoverFailsWithoutPresidentRole(t *testing.T) {
	ledger := newFakeLedger(2023)
	ledger.presidentRole = 0
	ledger.users[20] = "p@cseku.ac.bd"
	svc := NewService(ledger, stubSettings{year: 2023}, nil, testLogger())

	_, err := svc.Handover(context.Background(), HandoverRequest{NewYear: 2024, NewPresidentID: 20})
	require.ErrorIs(t, err, shared.ErrNoPresidentRole)
}

func TestHandoverFailsForUnknownPresident(t *testing.T) {
	ledger := newFakeLedger(2023)
	svc := NewService(ledger, stubSettings{year: 2023}, nil, testLogger())

	_, err := svc.Handover(context.Background(), HandoverRequest{NewYear: 2024, NewPresidentID: 99})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestHandoverRollsBackOnArchiveFailure(t *testing.T) {
	ledger := newFakeLedger(2023)
	ledger.users[20] = "p@cseku.ac.bd"
	ledger.users[11] = "member@cseku.ac.bd"
	require.NoError(t, ledger.assign(11, 2, 2023))
	ledger.failArchive = true

	svc := NewService(ledger, stubSettings{year: 2023}, nil, testLogger())

	_, err := svc.Handover(context.Background(), HandoverRequest{
		NewYear: 2024, NewPresidentID: 20, ArchiveOld: true,
	})
	require.Error(t, err)

	assert.Equal(t, 2023, ledger.currentYear)
	assert.Len(t, ledger.memberships[2023], 1)
	assert.False(t, ledger.committed)
}

func TestImportRosterSkipsIncompleteRows(t *testing.T) {
	ledger := newFakeLedger(2024)
	svc := NewService(ledger, stubSettings{year: 2024}, nil, testLogger())

	rows := []RosterRow{
		{Designation: "President", Name: "Ayesha Rahman", Email: "Ayesha@cseku.ac.bd"},
		{Designation: "", Name: "No Role", Email: "norole@cseku.ac.bd"},
		{Designation: "Member", Name: "", Email: "noname@cseku.ac.bd"},
		{Designation: "Member", Name: "No Email", Email: ""},
		{Designation: "Member", Name: "Tanvir Hasan", Email: "tanvir@cseku.ac.bd"},
	}
	result, err := svc.ImportRoster(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2024, result.Year)
	assert.Len(t, ledger.memberships[2024], 2)
}

func TestImportRosterContinuesPastFailingRow(t *testing.T) {
	ledger := newFakeLedger(2024)
	svc := NewService(ledger, stubSettings{year: 2024}, nil, testLogger())

	rows := []RosterRow{
		{Designation: "Member", Name: "Broken Row", Email: "broken@cseku.ac.bd"},
		{Designation: "Member", Name: "Tanvir Hasan", Email: "tanvir@cseku.ac.bd"},
	}
	result, err := svc.ImportRoster(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}

func TestImportRosterSetsInitialPassword(t *testing.T) {
	ledger := newFakeLedger(2025)
	svc := NewService(ledger, stubSettings{year: 2025}, nil, testLogger())

	_, err := svc.ImportRoster(context.Background(), []RosterRow{
		{Designation: "Member", Name: "Tanvir Hasan", Email: "tanvir@cseku.ac.bd"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, ledger.lastHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ledger.lastHash), []byte("committee2025!")))
}

func TestCurrentForReturnsNotFoundWithoutMembership(t *testing.T) {
	ledger := newFakeLedger(2024)
	svc := NewService(ledger, stubSettings{year: 2024}, nil, testLogger())

	_, err := svc.CurrentFor(context.Background(), 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCurrentMembershipResolvesCurrentYearOnly(t *testing.T) {
	ledger := newFakeLedger(2024)
	require.NoError(t, ledger.assign(42, 1, 2023))
	svc := NewService(ledger, stubSettings{year: 2024}, nil, testLogger())

	m, err := svc.CurrentMembership(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, m)

	require.NoError(t, ledger.assign(42, 1, 2024))
	m, err = svc.CurrentMembership(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.IsPresident)
	assert.Equal(t, 2024, m.Year)
}
