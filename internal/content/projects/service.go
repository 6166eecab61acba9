package projects

import (
	"context"
	"log/slog"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context, f ListFilter) ([]Project, error)
	Get(ctx context.Context, id int64) (Project, error)
	Create(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, p Project) (Project, error)
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status content.ApprovalStatus) error
}

type SettingsPort interface {
	CurrentYear(ctx context.Context) (int, error)
}

// ApprovalSink records moderation history.
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

// List returns projects, optionally narrowed to one year. Anonymous callers
// only see approved entries.
func (s *Service) List(ctx context.Context, year *int, authenticated bool) ([]Project, error) {
	f := ListFilter{Year: year}
	if !authenticated {
		f.Statuses = []content.ApprovalStatus{content.StatusApproved}
	}
	return s.repo.List(ctx, f)
}

// Get fetches by id regardless of year; the year filter is a list concern.
func (s *Service) Get(ctx context.Context, id int64) (Project, error) {
	return s.repo.Get(ctx, id)
}

// Create pins the entry to the current year and starts it pending.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (Project, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Project{}, err
	}
	actorID, _ := shared.CurrentUserID(ctx)
	return s.repo.Create(ctx, Project{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		Status:      req.Status,
		Team:        req.Team,
		Github:      req.Github,
		Demo:        req.Demo,
		Domain:      req.Domain,
		Image:       req.Image,
		StudentID:   req.StudentID,
		Year:        year,
		Approval:    content.StatusPending,
		CreatedBy:   actorID,
	})
}

// Update edits an entry. Entries from past years are read only; the year
// itself never changes.
func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (Project, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if err := Policy.EnsureMutable(ctx, s.gate, existing.Year); err != nil {
		return Project{}, err
	}
	existing.Title = req.Title
	existing.Description = req.Description
	existing.TechStack = req.TechStack
	existing.Status = req.Status
	existing.Team = req.Team
	existing.Github = req.Github
	existing.Demo = req.Demo
	existing.Domain = req.Domain
	existing.Image = req.Image
	existing.StudentID = req.StudentID
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

// Decide applies an approve or reject and records it. Decisions are final.
func (s *Service) Decide(ctx context.Context, id int64, to content.ApprovalStatus, note string) (Project, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if err := Policy.Transition(existing.Approval, to); err != nil {
		return Project{}, err
	}
	if err := s.repo.SetStatus(ctx, id, to); err != nil {
		return Project{}, err
	}

	action := shared.ApprovalApprove
	if to == content.StatusRejected {
		action = shared.ApprovalReject
	}
	actorID, _ := shared.CurrentUserID(ctx)
	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Entity: "project", RefID: id, ActorID: actorID, Action: action, Note: note,
	}); err != nil {
		s.logger.Warn("record project approval", slog.Int64("id", id), slog.Any("error", err))
	}

	existing.Approval = to
	return existing, nil
}
