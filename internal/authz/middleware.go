package authz

import (
	"log/slog"
	"net/http"

	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// Middleware wires permission checks for HTTP handlers.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
}

// RequireAuthenticated rejects anonymous callers.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.CurrentUserID(r.Context()); !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePresident allows only the current-year president.
func (m Middleware) RequirePresident(next http.Handler) http.Handler {
	return m.require(next, func(r *http.Request, userID int64) (bool, error) {
		return m.Evaluator.IsCurrentPresident(r.Context(), userID)
	})
}

// RequirePresidentOrAdmin allows the current president or a staff admin.
func (m Middleware) RequirePresidentOrAdmin(next http.Handler) http.Handler {
	return m.require(next, func(r *http.Request, userID int64) (bool, error) {
		return m.Evaluator.IsPresidentOrAdmin(r.Context(), userID)
	})
}

// RequirePage ensures the caller's current role grants the named page.
func (m Middleware) RequirePage(page string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.require(next, func(r *http.Request, userID int64) (bool, error) {
			return m.Evaluator.HasPagePermission(r.Context(), userID, page)
		})
	}
}

func (m Middleware) require(next http.Handler, check func(*http.Request, int64) (bool, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.CurrentUserID(r.Context())
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		allowed, err := check(r, userID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("authz check", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if !allowed {
			httpx.Problem(w, http.StatusForbidden, "Permission Denied", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
