// Package httpapi holds the JSON plumbing and middleware shared by every
// module's HTTP handlers.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/talent-pipeline/app/shared/apperrors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ActorHeader carries the id of the acting user. Authentication happens upstream.
const ActorHeader = "X-Actor-ID"

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status code and writes it as {"error": "..."}.
// Unexpected errors are logged and hidden from the client.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		msg = http.StatusText(status)
	}
	WriteJSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON reads the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

// UUIDParam parses a chi URL parameter as a uuid.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a uuid", apperrors.ErrInvalidInput, name)
	}
	return id, nil
}

// ActorID reads the acting user from ActorHeader.
func ActorID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(ActorHeader)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing %s header", apperrors.ErrInvalidInput, ActorHeader)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s header: %v", apperrors.ErrInvalidInput, ActorHeader, err)
	}
	return id, nil
}
