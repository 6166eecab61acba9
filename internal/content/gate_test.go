package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

func TestTransitionIsOneWay(t *testing.T) {
	p := Policy{RequiresApproval: true}

	assert.NoError(t, p.Transition(StatusPending, StatusApproved))
	assert.NoError(t, p.Transition(StatusPending, StatusRejected))

	err := p.Transition(StatusApproved, StatusRejected)
	require.ErrorIs(t, err, shared.ErrConflict)

	err = p.Transition(StatusRejected, StatusApproved)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestTransitionRejectsPendingTarget(t *testing.T) {
	p := Policy{RequiresApproval: true}
	err := p.Transition(StatusPending, StatusPending)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTransitionUnavailableWithoutApproval(t *testing.T) {
	p := Policy{RequiresApproval: false}
	err := p.Transition(StatusPending, StatusApproved)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestVisibleToAnonymous(t *testing.T) {
	gated := Policy{RequiresApproval: true}
	assert.True(t, gated.VisibleToAnonymous(StatusApproved))
	assert.False(t, gated.VisibleToAnonymous(StatusPending))
	assert.False(t, gated.VisibleToAnonymous(StatusRejected))

	open := Policy{RequiresApproval: false}
	assert.True(t, open.VisibleToAnonymous(StatusPending))
}

type stubGate struct {
	current int
	err     error
}

func (g stubGate) CanModify(ctx context.Context, entityYear int) (bool, error) {
	return entityYear == g.current, g.err
}

func TestEnsureMutableRejectsPastYears(t *testing.T) {
	p := Policy{YearScoped: true}
	gate := stubGate{current: 2025}

	assert.NoError(t, p.EnsureMutable(context.Background(), gate, 2025))

	err := p.EnsureMutable(context.Background(), gate, 2024)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
}

func TestEnsureMutableSkipsUnscopedTypes(t *testing.T) {
	p := Policy{YearScoped: false}
	assert.NoError(t, p.EnsureMutable(context.Background(), stubGate{current: 2025}, 1999))
}

func TestEnsureMutablePropagatesGateErrors(t *testing.T) {
	p := Policy{YearScoped: true}
	boom := errors.New("year lookup failed")
	err := p.EnsureMutable(context.Background(), stubGate{err: boom}, 2025)
	require.ErrorIs(t, err, boom)
}
