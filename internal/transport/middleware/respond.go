package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes the JSON error envelope shared with the REST handlers.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: errorDetail{ //nolint:errcheck
		Code:      code,
		Message:   message,
		RequestID: ctxutil.RequestIDFromCtx(r.Context()),
	}})
}
