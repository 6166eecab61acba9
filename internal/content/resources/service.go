package resources

import (
	"context"
	"log/slog"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context, f ListFilter) ([]Resource, error)
	Get(ctx context.Context, id int64) (Resource, error)
	Create(ctx context.Context, res Resource) (Resource, error)
	Update(ctx context.Context, res Resource) (Resource, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error
}

type SettingsPort interface {
	CurrentYear(ctx context.Context) (int, error)
}

type ApprovalSink interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
}

type Service struct {
	repo      RepositoryPort
	settings  SettingsPort
	gate      content.ModifyGate
	approvals ApprovalSink
	logger    *slog.Logger
}

func NewService(repo RepositoryPort, settings SettingsPort, gate content.ModifyGate, approvals ApprovalSink, logger *slog.Logger) *Service {
	return &Service{repo: repo, settings: settings, gate: gate, approvals: approvals, logger: logger}
}

func (s *Service) List(ctx context.Context, year *int, authenticated bool) ([]Resource, error) {
	f := ListFilter{Year: year}
	if !authenticated {
		f.Statuses = []content.ApprovalStatus{content.StatusApproved}
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Resource, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Resource, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Resource{}, err
	}
	actorID, _ := shared.CurrentUserID(ctx)
	return s.repo.Create(ctx, Resource{
		Title:       req.Title,
		Category:    req.Category,
		Format:      req.Format,
		Difficulty:  req.Difficulty,
		Link:        req.Link,
		Restricted:  req.Restricted,
		Description: req.Description,
		Year:        year,
		Approval:    content.StatusPending,
		CreatedBy:   actorID,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (Resource, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if err := Policy.EnsureMutable(ctx, s.gate, existing.Year); err != nil {
		return Resource{}, err
	}
	existing.Title = req.Title
	existing.Category = req.Category
	existing.Format = req.Format
	existing.Difficulty = req.Difficulty
	existing.Link = req.Link
	existing.Restricted = req.Restricted
	existing.Description = req.Description
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

func (s *Service) Decide(ctx context.Context, id int64, to content.ApprovalStatus, note string) (Resource, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if err := Policy.Transition(existing.Approval, to); err != nil {
		return Resource{}, err
	}
	if err := s.repo.SetStatus(ctx, id, to); err != nil {
		return Resource{}, err
	}

	action := shared.ApprovalApprove
	if to == content.StatusRejected {
		action = shared.ApprovalReject
	}
	actorID, _ := shared.CurrentUserID(ctx)
	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Entity: "resource", RefID: id, ActorID: actorID, Action: action, Note: note,
	}); err != nil {
		s.logger.Warn("record resource approval", slog.Int64("id", id), slog.Any("error", err))
	}

	existing.Approval = to
	return existing, nil
}
