package alumni

import (
	"context"
	"log/slog"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context, f ListFilter) ([]Alumnus, error)
	Count(ctx context.Context, f ListFilter) (int, error)
	Get(ctx context.Context, id int64) (Alumnus, error)
	Create(ctx context.Context, a Alumnus) (Alumnus, error)
	Update(ctx context.Context, a Alumnus) (Alumnus, error)
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
	approvals ApprovalSink
	logger    *slog.Logger
}

func NewService(repo RepositoryPort, settings SettingsPort, approvals ApprovalSink, logger *slog.Logger) *Service {
	return &Service{repo: repo, settings: settings, approvals: approvals, logger: logger}
}

func (s *Service) List(ctx context.Context, f ListFilter, authenticated bool) (Listing, error) {
	if !authenticated {
		f.Statuses = []content.ApprovalStatus{content.StatusApproved}
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return Listing{}, err
	}
	p := shared.NewPagination(f.Page, f.PerPage, total)
	f.Page, f.PerPage = p.Page, p.PerPage
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return Listing{}, err
	}
	if items == nil {
		items = []Alumnus{}
	}
	return Listing{Data: items, Pagination: p}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Alumnus, error) {
	return s.repo.Get(ctx, id)
}

// Submit takes a public submission. Entries start pending; the moderators
// decide what shows up in the directory. Alumni entries are not bound to the
// current committee year, the year only records when the entry arrived.
func (s *Service) Submit(ctx context.Context, req UpsertRequest) (Alumnus, error) {
	year, err := s.settings.CurrentYear(ctx)
	if err != nil {
		return Alumnus{}, err
	}
	actorID, _ := shared.CurrentUserID(ctx)
	return s.repo.Create(ctx, Alumnus{
		Name:        req.Name,
		Email:       req.Email,
		Batch:       req.Batch,
		Session:     req.Session,
		Designation: req.Designation,
		Company:     req.Company,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		Year:        year,
		Approval:    content.StatusPending,
		CreatedBy:   actorID,
	})
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) (Alumnus, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Alumnus{}, err
	}
	existing.Name = req.Name
	existing.Email = req.Email
	existing.Batch = req.Batch
	existing.Session = req.Session
	existing.Designation = req.Designation
	existing.Company = req.Company
	existing.Location = req.Location
	existing.ImageURL = req.ImageURL
	return s.repo.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Decide(ctx context.Context, id int64, to content.ApprovalStatus, note string) (Alumnus, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Alumnus{}, err
	}
	if err := Policy.Transition(existing.Approval, to); err != nil {
		return Alumnus{}, err
	}
	if err := s.repo.SetStatus(ctx, id, to); err != nil {
		return Alumnus{}, err
	}

	action := shared.ApprovalApprove
	if to == content.StatusRejected {
		action = shared.ApprovalReject
	}
	actorID, _ := shared.CurrentUserID(ctx)
	if err := s.approvals.Record(ctx, shared.ApprovalLog{
		Entity: "alumnus", RefID: id, ActorID: actorID, Action: action, Note: note,
	}); err != nil {
		s.logger.Warn("record alumnus approval", slog.Int64("id", id), slog.Any("error", err))
	}

	existing.Approval = to
	return existing, nil
}
