package httpapi

import (
	"net/http"
	"time"

	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
	"github.com/dshills/skillspace-mcp/internal/storage"
)

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.storage.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, &APIError{Code: "DATABASE_ERROR", Message: "database not accessible"})
		return
	}
	respondData(w, map[string]interface{}{
		"database_accessible": status.Health.DatabaseAccessible,
		"embeddings_loaded":   status.Health.EmbeddingsLoaded,
		"projects_loaded":     status.Health.ProjectsLoaded,
	}, 0)
}

// statusResponse extends the stored counts with the in-memory snapshot state
type statusResponse struct {
	*storage.SnapshotStatus
	Loaded        bool                 `json:"loaded"`
	NeighborCache *snapshot.CacheStats `json:"neighbor_cache,omitempty"`
}

// Status handles GET /api/v1/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status, err := h.storage.GetStatus(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	resp := statusResponse{SnapshotStatus: status, Loaded: h.snapshots.Loaded()}
	if cache, ok := h.snapshots.CacheStats(); ok {
		resp.NeighborCache = &cache
	}
	respondData(w, resp, time.Since(start))
}

// ReloadSnapshot handles POST /api/v1/snapshot/reload. It picks up an import
// written to the database while the server is running.
func (h *Handler) ReloadSnapshot(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, err := h.snapshots.Reload(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.log.Info().Int("projects", len(snap.Projects)).Msg("snapshot reloaded")
	respondData(w, map[string]interface{}{
		"projects":  len(snap.Projects),
		"languages": len(snap.Languages),
		"timezones": len(snap.Activity),
		"loaded_at": snap.LoadedAt,
	}, time.Since(start))
}

// Languages handles GET /api/v1/languages
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"languages": h.service.Languages()}
	if tags, err := h.service.ProjectLanguages(r.Context()); err == nil {
		data["project_languages"] = tags
	}
	respondData(w, data, 0)
}

// Timezones handles GET /api/v1/timezones
func (h *Handler) Timezones(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	zones, err := h.service.Timezones(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondData(w, map[string]interface{}{"timezones": zones}, time.Since(start))
}

// RecommendByExpertise handles POST /api/v1/recommend/expertise
func (h *Handler) RecommendByExpertise(w http.ResponseWriter, r *http.Request) {
	req := recommender.ExpertiseRequest{MinFemalePct: recommender.DefaultMinFemalePct}
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RecommendByExpertise(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondData(w, resp, resp.Duration)
}

// RecommendByTransfer handles POST /api/v1/recommend/transfer
func (h *Handler) RecommendByTransfer(w http.ResponseWriter, r *http.Request) {
	req := recommender.TransferRequest{MinFemalePct: recommender.DefaultMinFemalePct}
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RecommendByTransfer(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondData(w, resp, resp.Duration)
}

// RecommendByPopularity handles POST /api/v1/recommend/popularity
func (h *Handler) RecommendByPopularity(w http.ResponseWriter, r *http.Request) {
	req := recommender.PopularityRequest{MinFemalePct: recommender.DefaultMinFemalePct}
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RecommendByPopularity(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondData(w, resp, resp.Duration)
}

// RecommendByLocality handles POST /api/v1/recommend/locality
func (h *Handler) RecommendByLocality(w http.ResponseWriter, r *http.Request) {
	req := recommender.LocalityRequest{MinFemalePct: recommender.DefaultMinFemalePct}
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RecommendByLocality(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondData(w, resp, resp.Duration)
}
