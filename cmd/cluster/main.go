package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cseku-cluster/cluster-backend/internal/app"
	"github.com/cseku-cluster/cluster-backend/internal/auth"
	"github.com/cseku-cluster/cluster-backend/internal/authz"
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
	"github.com/cseku-cluster/cluster-backend/internal/platform/cache"
	"github.com/cseku-cluster/cluster-backend/internal/platform/db"
	"github.com/cseku-cluster/cluster-backend/internal/roles"
	"github.com/cseku-cluster/cluster-backend/internal/settings"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
	"github.com/cseku-cluster/cluster-backend/internal/stats"
	"github.com/cseku-cluster/cluster-backend/internal/users"
	"github.com/cseku-cluster/cluster-backend/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "cluster_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	auditLogger := shared.NewAuditLogger(dbpool)
	approvalRecorder := shared.NewApprovalRecorder(dbpool, logger)
	metrics := observability.NewMetrics()

	settingsStore := settings.NewStore(dbpool)
	settingsService := settings.NewService(settingsStore)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)

	committeeRepo := committee.NewRepository(dbpool)
	committeeService := committee.NewService(committeeRepo, settingsService, auditLogger, logger)

	evaluator := authz.NewEvaluator(committeeService, settingsService, usersService)
	guard := authz.Middleware{Evaluator: evaluator, Logger: logger}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	mailClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init mail queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mailClient.Close(); err != nil {
			logger.Warn("mail queue close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, usersService, mailClient, redisClient, cfg.AllowedEmailDomain, logger)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	settingsHandler := settings.NewHandler(logger, settingsService)
	pagesService := pages.NewService(pages.NewRepository(dbpool))
	pagesHandler := pages.NewHandler(logger, pagesService, guard)
	rolesService := roles.NewService(roles.NewRepository(dbpool))
	rolesHandler := roles.NewHandler(logger, rolesService, guard, auditLogger)
	usersHandler := users.NewHandler(logger, usersService, guard)
	committeeHandler := committee.NewHandler(logger, committeeService, guard)

	projectsService := projects.NewService(projects.NewRepository(dbpool), settingsService, evaluator, approvalRecorder, logger)
	projectsHandler := projects.NewHandler(logger, projectsService, guard)
	blogsService := blogs.NewService(blogs.NewRepository(dbpool), settingsService, evaluator, approvalRecorder, logger)
	blogsHandler := blogs.NewHandler(logger, blogsService, guard)
	resourcesService := resources.NewService(resources.NewRepository(dbpool), settingsService, evaluator, approvalRecorder, logger)
	resourcesHandler := resources.NewHandler(logger, resourcesService, guard)
	eventsService := events.NewService(events.NewRepository(dbpool), settingsService, evaluator)
	eventsHandler := events.NewHandler(logger, eventsService, guard)
	alumniService := alumni.NewService(alumni.NewRepository(dbpool), settingsService, approvalRecorder, logger)
	alumniHandler := alumni.NewHandler(logger, alumniService, guard)
	postsService := posts.NewService(posts.NewRepository(dbpool), settingsService, evaluator)
	postsHandler := posts.NewHandler(logger, postsService, guard)
	teamService := team.NewService(team.NewRepository(dbpool), settingsService, evaluator)
	teamHandler := team.NewHandler(logger, teamService, guard)
	storiesHandler := stories.NewHandler(logger, stories.NewRepository(dbpool), guard)
	faqsHandler := faqs.NewHandler(logger, faqs.NewRepository(dbpool), guard)
	statsHandler := stats.NewHandler(logger, stats.NewService(stats.NewRepository(dbpool)))

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,

		AuthHandler:      authHandler,
		SettingsHandler:  settingsHandler,
		PagesHandler:     pagesHandler,
		RolesHandler:     rolesHandler,
		UsersHandler:     usersHandler,
		CommitteeHandler: committeeHandler,
		ProjectsHandler:  projectsHandler,
		BlogsHandler:     blogsHandler,
		ResourcesHandler: resourcesHandler,
		EventsHandler:    eventsHandler,
		AlumniHandler:    alumniHandler,
		PostsHandler:     postsHandler,
		TeamHandler:      teamHandler,
		StoriesHandler:   storiesHandler,
		FAQsHandler:      faqsHandler,
		JobsHandler:      jobsHandler,
		StatsHandler:     statsHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
