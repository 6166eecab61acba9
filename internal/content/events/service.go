package events

import (
	"context"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context, f ListFilter) ([]Event, error)
	Get(ctx context.Context, id int64) (Event, error)
	Create(ctx context.Context, e Event) (Event, error)
	Update(ctx context.Context, e Event) (Event, error)
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

func (s *Service) List(ctx context.Context, f ListFilter) ([]Event, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Event, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Event{}, err
	}
	actorID, _ := shared.CurrentUserID(ctx)
	return s.repo.Create(ctx, Event{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Venue:       req.Venue,
		Description: req.Description,
		Image:       req.Image,
		Tags:        req.Tags,
		Link:        req.Link,
		IsUpcoming:  req.IsUpcoming,
		Highlights:  req.Highlights,
		Links:       req.Links,
		Year:        year,
		CreatedBy:   actorID,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (Event, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if err := Policy.EnsureMutable(ctx, s.gate, existing.Year); err != nil {
		return Event{}, err
	}
	existing.Title = req.Title
	existing.Date = req.Date
	existing.Time = req.Time
	existing.Location = req.Location
	existing.Venue = req.Venue
	existing.Description = req.Description
	existing.Image = req.Image
	existing.Tags = req.Tags
	existing.Link = req.Link
	existing.IsUpcoming = req.IsUpcoming
	existing.Highlights = req.Highlights
	existing.Links = req.Links
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
