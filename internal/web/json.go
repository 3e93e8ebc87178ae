package web

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/justestif/go-moodlist/internal/apperr"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing left to do but note it.
		http.Error(w, "encoding response", http.StatusInternalServerError)
	}
}

// statusFor maps taxonomy kinds to HTTP statuses. Unclassified errors are
// internal faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthExchange):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthExpired):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrUpstreamAnalysis):
		return http.StatusBadGateway
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// writeError reports err with its taxonomy-mapped status and a short,
// non-technical message.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{Error: apperr.Message(err)})
}
