package faqs

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cseku-cluster/cluster-backend/internal/authz"
	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type RepositoryPort interface {
	List(ctx context.Context) ([]FAQ, error)
	Get(ctx context.Context, id int64) (FAQ, error)
	Create(ctx context.Context, f FAQ) (FAQ, error)
	Update(ctx context.Context, f FAQ) (FAQ, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	logger   *slog.Logger
	repo     RepositoryPort
	validate *validator.Validate
	authz    authz.Middleware
}

func NewHandler(logger *slog.Logger, repo RepositoryPort, authz authz.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, validate: validator.New(), authz: authz}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePage(shared.PageHome))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list faqs", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := content.IDParam(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	item, err := h.repo.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actorID, _ := shared.CurrentUserID(r.Context())
	item, err := h.repo.Create(r.Context(), FAQ{
		Question:  req.Question,
		Answer:    req.Answer,
		CreatedBy: actorID,
	})
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := content.IDParam(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	var req UpsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	existing, err := h.repo.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	existing.Question = req.Question
	existing.Answer = req.Answer
	item, err := h.repo.Update(r.Context(), existing)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := content.IDParam(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
