package users

import (
	"context"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, p UpsertParams) (User, error)
	UpsertByEmail(ctx context.Context, p UpsertParams) (User, error)
	UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (User, error)
	IsStaff(ctx context.Context, id int64) (bool, error)
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// GetByEmail returns a user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Create inserts a new user.
func (s *Service) Create(ctx context.Context, p UpsertParams) (User, error) {
	return s.repo.Create(ctx, p)
}

// UpdateProfile applies partial profile edits.
func (s *Service) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (User, error) {
	return s.repo.UpdateProfile(ctx, id, req)
}

// IsStaff satisfies the authz actor source.
func (s *Service) IsStaff(ctx context.Context, id int64) (bool, error) {
	return s.repo.IsStaff(ctx, id)
}
