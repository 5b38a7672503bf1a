package api

import (
	"errors"
	"net/http"

	"github.com/mkabbani/evround/internal/adapters/repository"
	service "github.com/mkabbani/evround/internal/app"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/session"
	"github.com/mkabbani/evround/internal/domain/stats"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor translates domain errors into HTTP status codes and stable
// machine-readable codes.
func statusFor(err error) (int, string) {
	var incomplete *session.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		return http.StatusConflict, "incomplete"

	case errors.Is(err, model.ErrImport):
		return http.StatusBadRequest, "import_rejected"
	case errors.Is(err, model.ErrInvalidCatalog):
		return http.StatusBadRequest, "invalid_catalog"

	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, session.ErrUnknownInspector),
		errors.Is(err, session.ErrUnknownZone),
		errors.Is(err, session.ErrUnknownItem):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, session.ErrNotReady),
		errors.Is(err, session.ErrNotFilling):
		return http.StatusConflict, "conflict"

	case errors.Is(err, session.ErrInactiveInspector),
		errors.Is(err, session.ErrUnknownCategory),
		errors.Is(err, session.ErrNoCategory),
		errors.Is(err, session.ErrZoneCategoryMismatch),
		errors.Is(err, session.ErrScoreOutOfRange),
		errors.Is(err, session.ErrUnknownObservation),
		errors.Is(err, stats.ErrUnknownWindow),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"

	case errors.Is(err, service.ErrExportQueueFull):
		return http.StatusTooManyRequests, "backpressure"

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
