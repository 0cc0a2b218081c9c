package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Callers branch with errors.Is; messages carry the detail.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	// ErrStaleCart marks a cart replacement whose revision stamp was
	// outdated. Retryable by re-reading the session.
	ErrStaleCart = fmt.Errorf("stale cart revision: %w", ErrConflict)
)

func Conflictf(format string, args ...interface{}) error {
	return wrapf(ErrConflict, format, args...)
}

func NotFoundf(format string, args ...interface{}) error {
	return wrapf(ErrNotFound, format, args...)
}

func InvalidStatef(format string, args ...interface{}) error {
	return wrapf(ErrInvalidState, format, args...)
}

func Validationf(format string, args ...interface{}) error {
	return wrapf(ErrValidation, format, args...)
}

func wrapf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}

// HTTPStatus maps an error to the response code handlers should emit.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
