package committee

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cseku-cluster/cluster-backend/internal/authz"
	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// maxRosterSize caps uploaded roster files at 2 MiB.
const maxRosterSize = 2 << 20

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
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAuthenticated)
		r.Get("/memberships", h.list)
		r.Get("/memberships/me", h.myMembership)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePresident)
		r.Post("/memberships", h.assign)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePresidentOrAdmin)
		r.Post("/handover", h.handover)
		r.Post("/team-members/import", h.importRoster)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "year must be an integer")
			return
		}
		year = &y
	}
	memberships, err := h.service.List(r.Context(), year)
	if err != nil {
		h.logger.Error("list memberships", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, memberships)
}

func (h *Handler) myMembership(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.CurrentUserID(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	m, err := h.service.CurrentFor(r.Context(), userID)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	m, err := h.service.Assign(r.Context(), req)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) handover(w http.ResponseWriter, r *http.Request) {
	var req HandoverRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Handover(r.Context(), req)
	if err != nil {
		h.logger.Error("handover failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) importRoster(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRosterSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "expected multipart form with a file field")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "missing roster file")
		return
	}
	defer file.Close()

	rows, err := ParseRoster(file)
	if err != nil {
		shared.RespondError(w, err)
		return
	}
	result, err := h.service.ImportRoster(r.Context(), rows)
	if err != nil {
		h.logger.Error("roster import failed", slog.Any("error", err))
		shared.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
