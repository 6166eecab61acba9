package alumni

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cseku-cluster/cluster-backend/internal/authz"
	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, authz authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), authz: authz}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	// Alumni submit themselves; the entry waits in moderation.
	r.Post("/", h.submit)
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePage(shared.PageAlumni))
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePresidentOrAdmin)
		r.Post("/{id}/approve", h.decide(content.StatusApproved))
		r.Post("/{id}/reject", h.decide(content.StatusRejected))
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	year, err := content.YearFilter(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	f := ListFilter{Year: year, Batch: q.Get("batch"), Page: page, PerPage: perPage}
	listing, err := h.service.List(r.Context(), f, shared.IsAuthenticated(r.Context()))
	if err != nil {
		h.logger.Error("list alumni", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listing)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := content.IDParam(r)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item, err := h.service.Submit(r.Context(), req)
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
	item, err := h.service.Update(r.Context(), id, req)
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
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decide(to content.ApprovalStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := content.IDParam(r)
		if err != nil {
			shared.RespondError(w, err)
			return
		}
		var d content.Decision
		if r.ContentLength > 0 {
			if err := httpx.DecodeJSON(r, &d); err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
				return
			}
		}
		item, err := h.service.Decide(r.Context(), id, to, d.Note)
		if err != nil {
			shared.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, item)
	}
}
