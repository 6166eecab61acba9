package shared

import (
	"errors"
	"net/http"

	"github.com/cseku-cluster/cluster-backend/internal/platform/httpx"
)

var (
	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrPermissionDenied indicates the actor lacks the required capability.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or reference constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrNoPresidentRole indicates handover cannot proceed because no role
	// carries the president flag.
	ErrNoPresidentRole = errors.New("no president role defined")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// RespondError maps domain errors onto RFC7807 problem responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", UserSafeMessage(err))
	case errors.Is(err, ErrPermissionDenied):
		httpx.Problem(w, http.StatusForbidden, "Permission Denied", UserSafeMessage(err))
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", UserSafeMessage(err))
	case errors.Is(err, ErrNoPresidentRole):
		httpx.Problem(w, http.StatusConflict, "No President Role", UserSafeMessage(err))
	case errors.Is(err, ErrConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", UserSafeMessage(err))
	case errors.Is(err, ErrInvalidCredentials):
		httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", "")
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// UserSafeMessage returns a message suitable for API consumers. Known domain
// errors carry their own wording; everything else is masked.
func UserSafeMessage(err error) string {
	for _, known := range []error{ErrValidation, ErrPermissionDenied, ErrNotFound, ErrNoPresidentRole, ErrConflict, ErrInvalidCredentials} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "something went wrong"
}
