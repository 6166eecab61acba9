package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
)

// Handler serves the public current-year endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/current-year", h.currentYear)
}

func (h *Handler) currentYear(w http.ResponseWriter, r *http.Request) {
	year, err := h.service.CurrentYear(r.Context())
	if err != nil {
		h.logger.Error("read current year", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"current_year": year})
}
