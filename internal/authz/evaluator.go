// Package authz derives effective capabilities for a user from their
// current-year committee membership. The evaluator keeps no state of its own:
// every call re-reads the ledger, registry and current-year setting, because
// any of them may change between requests.
package authz

import (
	"context"
	"strings"
)

// CurrentMembership is the evaluator's view of a user's membership for the
// active year.
type CurrentMembership struct {
	RoleID      int64
	RoleName    string
	IsPresident bool
	Pages       []string
	Year        int
}

// Ledger resolves the current-year membership for a user. A nil membership
// with nil error means the user holds no role this year.
type Ledger interface {
	CurrentMembership(ctx context.Context, userID int64) (*CurrentMembership, error)
}

// YearSource exposes the active committee year.
type YearSource interface {
	CurrentYear(ctx context.Context) (int, error)
}

// ActorSource answers staff-flag lookups for the president-or-admin checks.
type ActorSource interface {
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

// Evaluator is a pure function of its sources at call time.
type Evaluator struct {
	ledger Ledger
	years  YearSource
	actors ActorSource
}

// NewEvaluator builds an Evaluator.
func NewEvaluator(ledger Ledger, years YearSource, actors ActorSource) *Evaluator {
	return &Evaluator{ledger: ledger, years: years, actors: actors}
}

// IsCurrentPresident reports whether the user holds the president role for
// the active year.
func (e *Evaluator) IsCurrentPresident(ctx context.Context, userID int64) (bool, error) {
	m, err := e.ledger.CurrentMembership(ctx, userID)
	if err != nil {
		return false, err
	}
	return m != nil && m.IsPresident, nil
}

// IsPresidentOrAdmin extends the president check with the staff flag.
func (e *Evaluator) IsPresidentOrAdmin(ctx context.Context, userID int64) (bool, error) {
	president, err := e.IsCurrentPresident(ctx, userID)
	if err != nil || president {
		return president, err
	}
	if e.actors == nil {
		return false, nil
	}
	return e.actors.IsStaff(ctx, userID)
}

// CurrentPermissions returns the page names granted by the user's current
// role, empty when no current membership exists.
func (e *Evaluator) CurrentPermissions(ctx context.Context, userID int64) (map[string]struct{}, error) {
	m, err := e.ledger.CurrentMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms := make(map[string]struct{})
	if m == nil {
		return perms, nil
	}
	for _, p := range m.Pages {
		perms[strings.ToLower(p)] = struct{}{}
	}
	return perms, nil
}

// HasPagePermission reports whether the user's current role grants the page.
// An empty page name is an open check and always passes. Presidents pass
// every page check.
func (e *Evaluator) HasPagePermission(ctx context.Context, userID int64, page string) (bool, error) {
	page = strings.ToLower(strings.TrimSpace(page))
	if page == "" {
		return true, nil
	}
	m, err := e.ledger.CurrentMembership(ctx, userID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	if m.IsPresident {
		return true, nil
	}
	for _, p := range m.Pages {
		if strings.EqualFold(p, page) {
			return true, nil
		}
	}
	return false, nil
}

// CanModify reports whether mutating access to content of the given year is
// allowed. Content from past years is immutable; read paths never call this.
func (e *Evaluator) CanModify(ctx context.Context, entityYear int) (bool, error) {
	current, err := e.years.CurrentYear(ctx)
	if err != nil {
		return false, err
	}
	return entityYear == current, nil
}
