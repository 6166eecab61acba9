package settings

import (
	"context"
)

// StorePort defines the persistence surface for system settings.
type StorePort interface {
	CurrentYear(ctx context.Context) (int, error)
	SetCurrentYear(ctx context.Context, year int) error
}

// Service exposes the current-year setting. No caching: the value is read
// from the store on every call because handover may change it between
// requests.
type Service struct {
	store StorePort
}

// NewService builds Service instance.
func NewService(store StorePort) *Service {
	return &Service{store: store}
}

// CurrentYear returns the active committee year, creating the default on
// first access.
func (s *Service) CurrentYear(ctx context.Context) (int, error) {
	return s.store.CurrentYear(ctx)
}

// SetCurrentYear overwrites the active committee year.
func (s *Service) SetCurrentYear(ctx context.Context, year int) error {
	return s.store.SetCurrentYear(ctx, year)
}
