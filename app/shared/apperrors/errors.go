// Package apperrors holds the error categories shared by every module.
// Module errors wrap one of these so callers can branch with errors.Is.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates an identifier did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates the operation is not allowed in the entity's current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrForbidden indicates cross-job or cross-tenant usage.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err carries one of the categories above, as
// opposed to an infrastructure failure.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidInput)
}
