// Package content holds the policy shared by every public content type:
// whether entries pass through approval and whether they are pinned to a
// committee year.
package content

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// ApprovalStatus is the moderation state of an entry.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Policy describes how a content type is governed.
type Policy struct {
	RequiresApproval bool
	YearScoped       bool
}

// ModifyGate decides whether content pinned to a year is still writable.
// The authorization evaluator is the production implementation.
type ModifyGate interface {
	CanModify(ctx context.Context, entityYear int) (bool, error)
}

// EnsureMutable rejects writes to entries pinned to a past year. Types that
// are not year scoped skip the check.
func (p Policy) EnsureMutable(ctx context.Context, gate ModifyGate, entityYear int) error {
	if !p.YearScoped {
		return nil
	}
	ok, err := gate.CanModify(ctx, entityYear)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: content from %d is read only", shared.ErrPermissionDenied, entityYear)
	}
	return nil
}

// Transition validates a moderation decision. Decisions are final: only
// pending entries can move, and only to approved or rejected.
func (p Policy) Transition(from, to ApprovalStatus) error {
	if !p.RequiresApproval {
		return fmt.Errorf("%w: this content type has no approval workflow", shared.ErrValidation)
	}
	if to != StatusApproved && to != StatusRejected {
		return fmt.Errorf("%w: decision must be approved or rejected", shared.ErrValidation)
	}
	if from != StatusPending {
		return fmt.Errorf("%w: entry is already %s", shared.ErrConflict, from)
	}
	return nil
}

// VisibleToAnonymous reports whether an entry in the given state appears to
// unauthenticated callers.
func (p Policy) VisibleToAnonymous(s ApprovalStatus) bool {
	return !p.RequiresApproval || s == StatusApproved
}

// Decision carries an optional moderator note on approve/reject.
type Decision struct {
	Note string `json:"note" validate:"max=500"`
}

// YearFilter reads the optional ?year= list filter.
func YearFilter(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: year must be an integer", shared.ErrValidation)
	}
	return &year, nil
}

// IDParam parses the {id} route parameter.
func IDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	return id, nil
}
