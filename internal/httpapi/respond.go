package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dshills/skillspace-mcp/internal/embedding"
	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a machine-readable error
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondData(w http.ResponseWriter, data interface{}, elapsed time.Duration) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   data,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, apiErr *APIError) {
	respondJSON(w, status, &APIResponse{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, &APIError{
			Code:    "INVALID_BODY",
			Message: "request body is not valid JSON for this endpoint",
			Details: map[string]interface{}{"error": err.Error()},
		})
		return false
	}
	return true
}

// respondServiceError maps domain errors onto HTTP statuses
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var missing *types.MissingTokenError
	switch {
	case errors.As(err, &missing):
		respondError(w, http.StatusUnprocessableEntity, &APIError{
			Code:    "MISSING_TOKEN",
			Message: missing.Error(),
			Details: map[string]interface{}{"token": missing.Token},
		})
	case errors.Is(err, types.ErrNoLanguage),
		errors.Is(err, types.ErrUnknownLanguage),
		errors.Is(err, types.ErrSameLanguage),
		errors.Is(err, types.ErrInvalidMetric),
		errors.Is(err, types.ErrInvalidLocality),
		errors.Is(err, types.ErrInvalidResultCount),
		errors.Is(err, types.ErrInvalidPercentage):
		respondError(w, http.StatusBadRequest, &APIError{Code: "VALIDATION_ERROR", Message: err.Error()})
	case errors.Is(err, embedding.ErrEmptySpace):
		respondError(w, http.StatusServiceUnavailable, &APIError{Code: "SNAPSHOT_NOT_READY", Message: "snapshot not imported"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, &APIError{Code: "INTERNAL_ERROR", Message: "recommendation failed"})
	}
}
