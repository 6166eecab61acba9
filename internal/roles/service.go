package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id int64) (Role, error)
	FindPresident(ctx context.Context) (Role, error)
	OtherPresidentExists(ctx context.Context, name string) (bool, error)
	Upsert(ctx context.Context, name string, pageIDs []int64, isPresident bool) (Role, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get returns one role.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	return s.repo.Get(ctx, id)
}

// CreateOrUpdate upserts a role by name. Flagging a second role as president
// while a different one holds the flag is a conflict.
func (s *Service) CreateOrUpdate(ctx context.Context, req UpsertRoleRequest) (Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}
	if req.IsPresident {
		taken, err := s.repo.OtherPresidentExists(ctx, name)
		if err != nil {
			return Role{}, err
		}
		if taken {
			return Role{}, fmt.Errorf("%w: another role is already flagged president", shared.ErrConflict)
		}
	}
	return s.repo.Upsert(ctx, name, req.PageIDs, req.IsPresident)
}

// Delete removes a role that no membership references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// PresidentRole resolves the unique president role.
func (s *Service) PresidentRole(ctx context.Context) (Role, error) {
	return s.repo.FindPresident(ctx)
}
