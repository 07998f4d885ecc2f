package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/johnwards/backoffice/internal/query"
	"github.com/johnwards/backoffice/internal/store"
)

// Error categories.
const (
	CategoryValidationError = "VALIDATION_ERROR"
	CategoryObjectNotFound  = "OBJECT_NOT_FOUND"
	CategoryInternalError   = "INTERNAL_ERROR"
)

// Error is the response body of every failed request.
type Error struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	CorrelationID string        `json:"correlationId"`
	Category      string        `json:"category"`
	Errors        []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single error within an Error.
type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// NewNotFoundError creates a 404 error with the OBJECT_NOT_FOUND category.
func NewNotFoundError(message, correlationID string) *Error {
	return &Error{
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryObjectNotFound,
	}
}

// NewValidationError creates a 400 error with the VALIDATION_ERROR category.
func NewValidationError(message, correlationID string, details []ErrorDetail) *Error {
	return &Error{
		Message:       message,
		CorrelationID: correlationID,
		Category:      CategoryValidationError,
		Errors:        details,
	}
}

// NewInternalError creates a 500 error. The message is always generic.
func NewInternalError(correlationID string) *Error {
	return &Error{
		Message:       "Internal Server Error",
		CorrelationID: correlationID,
		Category:      CategoryInternalError,
	}
}

// WriteError writes an Error as a JSON response with the given HTTP status code.
func WriteError(w http.ResponseWriter, statusCode int, apiErr *Error) {
	WriteJSON(w, statusCode, apiErr)
}

// WriteStoreError maps an error returned by the store to a response. Bad
// input becomes a 400 naming the field, unknown entities a 404; anything else
// is logged and answered with a generic 500.
func WriteStoreError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	corrID := CorrelationID(ctx)

	var invalid *query.InvalidFilterValue
	var validation *store.ValidationError
	switch {
	case errors.As(err, &invalid):
		WriteError(w, http.StatusBadRequest, NewValidationError("Invalid filter value", corrID, []ErrorDetail{
			{Message: invalid.Error(), Field: invalid.Field},
		}))
	case errors.As(err, &validation):
		WriteError(w, http.StatusBadRequest, NewValidationError("Invalid parameter", corrID, []ErrorDetail{
			{Message: validation.Message, Field: validation.Field},
		}))
	case errors.Is(err, store.ErrNoReport):
		WriteError(w, http.StatusNotFound, NewNotFoundError("Entity has no report", corrID))
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, NewNotFoundError("Entity not found", corrID))
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// Client went away; nobody is left to read a response.
		slog.DebugContext(ctx, "request canceled", "path", r.URL.Path, "correlationId", corrID)
	default:
		slog.ErrorContext(ctx, "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"correlationId", corrID,
			"error", err,
		)
		WriteError(w, http.StatusInternalServerError, NewInternalError(corrID))
	}
}
