package team

import (
	"context"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

type RepositoryPort interface {
	List(ctx context.Context, year *int) ([]Member, error)
	Get(ctx context.Context, id int64) (Member, error)
	Create(ctx context.Context, m Member) (Member, error)
	Update(ctx context.Context, m Member) (Member, error)
	Delete(ctx context.Context, id int64) error
}

type SettingsPort interface {
	CurrentYear(ctx context.Context) (int, error)
}

type Service struct {
	repo     RepositoryPort
	settings SettingsPort
	gate     content.ModifyGate
}

func NewService(repo RepositoryPort, settings SettingsPort, gate content.ModifyGate) *Service {
	return &Service{repo: repo, settings: settings, gate: gate}
}

// List returns the directory; with no year filter the caller gets every
// committee, newest first.
func (s *Service) List(ctx context.Context, year *int) ([]Member, error) {
	return s.repo.List(ctx, year)
}

func (s *Service) Get(ctx context.Context, id int64) (Member, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Member, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Member{}, err
	}
	return s.repo.Create(ctx, Member{
		Designation: req.Designation,
		Name:        req.Name,
		StudentID:   req.StudentID,
		Email:       req.Email,
		ImageURL:    req.ImageURL,
		FacebookURL: req.FacebookURL,
		LinkedInURL: req.LinkedInURL,
		Quote:       req.Quote,
		Year:        year,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (Member, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Member{}, err
	}
	if err := Policy.EnsureMutable(ctx, s.gate, existing.Year); err != nil {
		return Member{}, err
	}
	existing.Designation = req.Designation
	existing.Name = req.Name
	existing.StudentID = req.StudentID
	existing.Email = req.Email
	existing.ImageURL = req.ImageURL
	existing.FacebookURL = req.FacebookURL
	existing.LinkedInURL = req.LinkedInURL
	existing.Quote = req.Quote
	return s.repo.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Policy.EnsureMutable(ctx, s.gate, existing.Year); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
