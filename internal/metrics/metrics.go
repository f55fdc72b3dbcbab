package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillspace_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"}, // expertise, transfer, popularity, locality
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillspace_recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"mode", "status"}, // status: ok, invalid, error
	)

	CandidatesInspected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillspace_candidates_inspected",
			Help:    "Number of candidates examined before a response was complete",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"mode"},
	)

	CandidatesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillspace_candidates_rejected_total",
			Help: "Candidates dropped by the filter pipeline",
		},
		[]string{"reason"}, // not_project, excluded, unknown, language, diversity, unresolved
	)

	// URL resolver metrics
	ResolverRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillspace_resolver_requests_total",
			Help: "URL existence probes by outcome",
		},
		[]string{"outcome"}, // resolved, unresolved, error, cached
	)

	ResolverDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillspace_resolver_duration_seconds",
			Help:    "Duration of URL existence probes including retries",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skillspace_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillspace_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Neighbour cache metrics
	NeighborCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillspace_neighbor_cache_hits_total",
			Help: "Nearest-neighbour queries answered from cache",
		},
	)

	NeighborCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skillspace_neighbor_cache_misses_total",
			Help: "Nearest-neighbour queries computed against the skill space",
		},
	)

	// Snapshot metrics
	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skillspace_snapshot_load_duration_seconds",
			Help:    "Time spent loading the snapshot from storage",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SnapshotEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skillspace_snapshot_entries",
			Help: "Entries in the loaded snapshot",
		},
		[]string{"kind"}, // anchors, tokens, projects, timezones
	)

	// HTTP API metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillspace_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordRecommendation records the outcome of one recommendation request
func RecordRecommendation(mode, status string, inspected int, duration time.Duration) {
	RecommendationRequests.WithLabelValues(mode, status).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if status == "ok" {
		CandidatesInspected.WithLabelValues(mode).Observe(float64(inspected))
	}
}

// RecordRejection counts one candidate dropped for reason
func RecordRejection(reason string) {
	CandidatesRejected.WithLabelValues(reason).Inc()
}

// RecordResolve records one resolver outcome and its latency
func RecordResolve(outcome string, duration time.Duration) {
	ResolverRequests.WithLabelValues(outcome).Inc()
	if outcome != "cached" {
		ResolverDuration.Observe(duration.Seconds())
	}
}

// RecordSnapshot records the loaded snapshot size
func RecordSnapshot(anchors, tokens, projects, timezones int, duration time.Duration) {
	SnapshotEntries.WithLabelValues("anchors").Set(float64(anchors))
	SnapshotEntries.WithLabelValues("tokens").Set(float64(tokens))
	SnapshotEntries.WithLabelValues("projects").Set(float64(projects))
	SnapshotEntries.WithLabelValues("timezones").Set(float64(timezones))
	SnapshotLoadDuration.Observe(duration.Seconds())
}
