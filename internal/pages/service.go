package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// RepositoryPort defines data access methods for pages.
type RepositoryPort interface {
	List(ctx context.Context) ([]Page, error)
	Get(ctx context.Context, id int64) (Page, error)
	Create(ctx context.Context, name, description string) (Page, error)
	UpdateDescription(ctx context.Context, id int64, description string) (Page, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles page business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all pages.
func (s *Service) List(ctx context.Context) ([]Page, error) {
	return s.repo.List(ctx)
}

// Get returns one page.
func (s *Service) Get(ctx context.Context, id int64) (Page, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new page. Names are normalized to lower case so
// permission checks stay case-insensitive.
func (s *Service) Create(ctx context.Context, req CreatePageRequest) (Page, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		return Page{}, fmt.Errorf("%w: page name required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, name, strings.TrimSpace(req.Description))
}

// Update edits the description.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePageRequest) (Page, error) {
	return s.repo.UpdateDescription(ctx, id, strings.TrimSpace(req.Description))
}

// Delete removes an unreferenced page.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
