package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
	"github.com/dshills/skillspace-mcp/internal/storage"
)

// Handler serves the REST API
type Handler struct {
	service   *recommender.Service
	storage   storage.Storage
	snapshots *snapshot.Provider
	log       zerolog.Logger
}

// NewHandler creates the API handler
func NewHandler(svc *recommender.Service, st storage.Storage, snapshots *snapshot.Provider) *Handler {
	return &Handler{
		service:   svc,
		storage:   st,
		snapshots: snapshots,
		log:     logging.Component("http"),
	}
}

// Routes configures all HTTP routes
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(prometheusMetrics)

		r.Get("/languages", h.Languages)
		r.Get("/timezones", h.Timezones)
		r.Get("/status", h.Status)
		r.Post("/snapshot/reload", h.ReloadSnapshot)

		r.Route("/recommend", func(r chi.Router) {
			r.Post("/expertise", h.RecommendByExpertise)
			r.Post("/transfer", h.RecommendByTransfer)
			r.Post("/popularity", h.RecommendByPopularity)
			r.Post("/locality", h.RecommendByLocality)
		})
	})

	return r
}
