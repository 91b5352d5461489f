package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
	Fields    []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields ...fieldError) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   message,
		RequestID: ctxutil.RequestIDFromCtx(r.Context()),
		Fields:    fields,
	}})
}

// writeDomainError maps a service error to its HTTP status. Unexpected
// errors are logged and hidden behind a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]fieldError, len(verr.Errors))
		for i, fe := range verr.Errors {
			fields[i] = fieldError{Field: fe.Field, Message: fe.Message}
		}
		writeError(w, r, http.StatusBadRequest, "validation_failed", "request validation failed", fields...)
	case errors.Is(err, domain.ErrInvalidMode):
		writeError(w, r, http.StatusBadRequest, "invalid_mode", err.Error())
	case errors.Is(err, domain.ErrEmptyDeck):
		writeError(w, r, http.StatusBadRequest, "empty_deck", err.Error())
	case errors.Is(err, domain.ErrNoCurrentCard):
		writeError(w, r, http.StatusBadRequest, "no_current_card", err.Error())
	case errors.Is(err, domain.ErrSessionPaused):
		writeError(w, r, http.StatusConflict, "session_paused", err.Error())
	case errors.Is(err, domain.ErrSessionFinished):
		writeError(w, r, http.StatusConflict, "session_finished", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, r, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, r, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, context.Canceled):
		log.DebugContext(r.Context(), "request canceled", slog.String("error", err.Error()))
	default:
		log.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		writeError(w, r, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && optional {
			return nil
		}
		return domain.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}
