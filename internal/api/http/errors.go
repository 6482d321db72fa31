package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/logger"
)

// errorResponse is the JSON error envelope returned for every failure.
type errorResponse struct {
	Error     string            `json:"error"`
	Reason    string            `json:"reason,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Status    string            `json:"status,omitempty"`
	Action    string            `json:"action,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP status codes. Infrastructure
// failures become a bare 500 with no internal detail leaked.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *domain.ValidationError
		te *domain.TransitionError
		ue *domain.UnavailableError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation_failed",
			Fields: ve.Fields,
		})
	case errors.As(err, &te):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "invalid_transition",
			Status: string(te.Current),
			Action: string(te.Action),
		})
	case errors.As(err, &ue):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:  "unavailable",
			Reason: ue.Reason,
		})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     "conflict",
			Retryable: true,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: "not_found",
		})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal_error",
		})
	}
}
