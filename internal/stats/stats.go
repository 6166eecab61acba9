// Package stats serves the aggregate counters shown on the landing page.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

const queryTimeout = 2 * time.Second

// Summary is the public snapshot of published content.
type Summary struct {
	Projects  int `json:"projects"`
	Blogs     int `json:"blogs"`
	Resources int `json:"resources"`
	Events    int `json:"events"`
	Alumni    int `json:"alumni"`
	Stories   int `json:"success_stories"`
}

// RepositoryPort counts published rows per content type.
type RepositoryPort interface {
	CountApproved(ctx context.Context, table string) (int, error)
	CountAll(ctx context.Context, table string) (int, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountApproved(ctx context.Context, table string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM `+table+` WHERE approval_status = 'approved'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *Repository) CountAll(ctx context.Context, table string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Summary fans the per-table counts out in parallel. Only published content
// counts toward the public numbers.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out Summary
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int, table string, approvedOnly bool) {
		g.Go(func() error {
			var n int
			var err error
			if approvedOnly {
				n, err = s.repo.CountApproved(ctx, table)
			} else {
				n, err = s.repo.CountAll(ctx, table)
			}
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&out.Projects, "projects", true)
	count(&out.Blogs, "blogs", true)
	count(&out.Resources, "resources", true)
	count(&out.Events, "events", false)
	count(&out.Alumni, "alumni", true)
	count(&out.Stories, "success_stories", false)

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return out, nil
}

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("stats summary", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
