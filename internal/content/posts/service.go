package posts

import (
	"context"
	"fmt"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context, f ListFilter) ([]Post, error)
	Get(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, p Post) (Post, error)
	Update(ctx context.Context, p Post) (Post, error)
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
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

func (s *Service) List(ctx context.Context, year *int) ([]Post, error) {
	return s.repo.List(ctx, ListFilter{Year: year})
}

func (s *Service) Get(ctx context.Context, id int64) (Post, error) {
	return s.repo.Get(ctx, id)
}

// Create pins the post to the current year and derives its slug from the
// title, suffixing a counter until the slug is unique.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (Post, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Post{}, err
	}
	slug, err := s.uniqueSlug(ctx, Slugify(req.Title), 0)
	if err != nil {
		return Post{}, err
	}
	actorID, _ := shared.CurrentUserID(ctx)
	return s.repo.Create(ctx, Post{
		Title:     req.Title,
		Slug:      slug,
		Content:   req.Content,
		Images:    req.Images,
		Videos:    req.Videos,
		Year:      year,
		CreatedBy: actorID,
	})
}

// Update edits a post. The slug never changes once published, even when the
// title does.
func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (Post, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if err := Policy.EnsureMutable(ctx, s.gate, existing.Year); err != nil {
		return Post{}, err
	}
	existing.Title = req.Title
	existing.Content = req.Content
	existing.Images = req.Images
	existing.Videos = req.Videos
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

func (s *Service) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 1; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
