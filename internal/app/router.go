package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cseku-cluster/cluster-backend/internal/auth"
	"github.com/cseku-cluster/cluster-backend/internal/committee"
	"github.com/cseku-cluster/cluster-backend/internal/content/alumni"
	"github.com/cseku-cluster/cluster-backend/internal/content/blogs"
	"github.com/cseku-cluster/cluster-backend/internal/content/events"
	"github.com/cseku-cluster/cluster-backend/internal/content/faqs"
	"github.com/cseku-cluster/cluster-backend/internal/content/posts"
	"github.com/cseku-cluster/cluster-backend/internal/content/projects"
	"github.com/cseku-cluster/cluster-backend/internal/content/resources"
	"github.com/cseku-cluster/cluster-backend/internal/content/stories"
	"github.com/cseku-cluster/cluster-backend/internal/content/team"
	"github.com/cseku-cluster/cluster-backend/internal/observability"
	"github.com/cseku-cluster/cluster-backend/internal/pages"
	"github.com/cseku-cluster/cluster-backend/internal/roles"
	"github.com/cseku-cluster/cluster-backend/internal/settings"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
	"github.com/cseku-cluster/cluster-backend/internal/stats"
	"github.com/cseku-cluster/cluster-backend/internal/users"
	"github.com/cseku-cluster/cluster-backend/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	SettingsHandler  *settings.Handler
	PagesHandler     *pages.Handler
	RolesHandler     *roles.Handler
	UsersHandler     *users.Handler
	CommitteeHandler *committee.Handler
	ProjectsHandler  *projects.Handler
	BlogsHandler     *blogs.Handler
	ResourcesHandler *resources.Handler
	EventsHandler    *events.Handler
	AlumniHandler    *alumni.Handler
	PostsHandler     *posts.Handler
	TeamHandler      *team.Handler
	StoriesHandler   *stories.Handler
	FAQsHandler      *faqs.Handler
	JobsHandler      *jobs.Handler
	StatsHandler     *stats.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router serving the JSON API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Hands the session CSRF token to browser clients before any mutation.
	r.Get("/api/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("issue csrf token", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrf_token":"` + token + `"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/settings", params.SettingsHandler.MountRoutes)
		r.Route("/pages", params.PagesHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/committee", params.CommitteeHandler.MountRoutes)
		r.Route("/projects", params.ProjectsHandler.MountRoutes)
		r.Route("/blogs", params.BlogsHandler.MountRoutes)
		r.Route("/resources", params.ResourcesHandler.MountRoutes)
		r.Route("/events", params.EventsHandler.MountRoutes)
		r.Route("/alumni", params.AlumniHandler.MountRoutes)
		r.Route("/posts", params.PostsHandler.MountRoutes)
		r.Route("/team-members", params.TeamHandler.MountRoutes)
		r.Route("/success-stories", params.StoriesHandler.MountRoutes)
		r.Route("/faqs", params.FAQsHandler.MountRoutes)
		r.Route("/stats", params.StatsHandler.MountRoutes)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
