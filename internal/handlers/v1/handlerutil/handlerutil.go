// Package handlerutil holds the parsing and error mapping shared by the v1
// huma handlers.
package handlerutil

import (
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator"
	"github.com/carson-networks/budget-engine/internal/service"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// Clock returns the current time in the engine's configured location.
type Clock func() time.Time

// SystemClock returns a Clock pinned to loc.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// ServiceError maps a service error to a huma status error. Validation
// failures are 400, unknown ids are 404, writes arriving during shutdown are
// 503 and everything else is 500.
func ServiceError(err error, message string) error {
	switch {
	case ledger.IsValidation(err), errors.Is(err, service.ErrInvalidWindow):
		return huma.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return huma.NewError(http.StatusNotFound, message, err)
	case errors.Is(err, operator.ErrStopped):
		return huma.NewError(http.StatusServiceUnavailable, message, err)
	default:
		return huma.NewError(http.StatusInternalServerError, message, err)
	}
}

// ParseDate parses a YYYY-MM-DD value as midnight in loc.
func ParseDate(field, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate for optional fields; empty yields nil.
func ParseOptionalDate(field, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOptionalID parses a UUID field where empty means absent.
func ParseOptionalID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

// FormatID renders uuid.Nil as an empty string.
func FormatID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatOptionalDate renders nil as an empty string.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}
