package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/metrics"
)

// Resolver verifies that a project identifier maps to a reachable URL
type Resolver interface {
	// Resolve returns the canonical URL and true when the project exists.
	// Failures of any kind are reported as unresolved, never as errors.
	Resolve(ctx context.Context, id string) (string, bool)
}

// OfflineResolver derives URLs without probing the network
type OfflineResolver struct{}

// Resolve always succeeds with the canonical URL
func (OfflineResolver) Resolve(_ context.Context, id string) (string, bool) {
	return CanonicalURL(id), true
}

// Config configures an HTTPResolver
type Config struct {
	// Timeout bounds a single probe
	Timeout time.Duration

	// Retry controls retries on 429/502/504 and transport errors
	Retry RetryConfig

	// RequestsPerSecond limits outgoing probes; zero disables limiting
	RequestsPerSecond float64
	Burst             int

	// CacheSize and CacheTTL bound the outcome cache; zero size disables it
	CacheSize int
	CacheTTL  time.Duration

	// UserAgent is sent with every probe
	UserAgent string
}

// DefaultConfig returns the production settings
func DefaultConfig() Config {
	return Config{
		Timeout:           10 * time.Second,
		Retry:             DefaultRetryConfig(),
		RequestsPerSecond: 10,
		Burst:             5,
		CacheSize:         10000,
		CacheTTL:          6 * time.Hour,
		UserAgent:         "skillspace-mcp",
	}
}

// statusError is a transient HTTP status worth retrying
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("transient status %d", e.code)
}

// transientStatuses are retried with backoff
var transientStatuses = map[int]bool{
	http.StatusTooManyRequests: true,
	http.StatusBadGateway:      true,
	http.StatusGatewayTimeout:  true,
}

// HTTPResolver probes canonical URLs with GET requests. A 200 response means
// the project exists; every other final status means it does not.
type HTTPResolver struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[int]
	cache   *expirable.LRU[string, bool]
	log     zerolog.Logger
}

// Option customizes an HTTPResolver
type Option func(*HTTPResolver)

// WithHTTPClient replaces the HTTP client, e.g. to point probes at a test server
func WithHTTPClient(c *http.Client) Option {
	return func(r *HTTPResolver) {
		r.client = c
	}
}

// NewHTTPResolver creates a resolver guarded by a circuit breaker, a rate
// limiter and an outcome cache
func NewHTTPResolver(cfg Config, opts ...Option) *HTTPResolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Retry.Multiplier <= 0 {
		cfg.Retry.Multiplier = 2
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	r := &HTTPResolver{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		log:     logging.Component("resolver"),
	}
	if cfg.CacheSize > 0 {
		r.cache = expirable.NewLRU[string, bool](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	r.breaker = newBreaker("url-resolver", r.log)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker[int] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // Probes allowed in half-open state
		Interval:    time.Minute,      // Reset counts after 1 minute in closed state
		Timeout:     30 * time.Second, // Wait before transitioning from open to half-open

		// A rate-limited or overloaded host answered, so only transport
		// errors count against the circuit. Transient statuses are left to
		// the per-candidate retry policy.
		IsSuccessful: func(err error) bool {
			var se *statusError
			return err == nil || errors.As(err, &se)
		},

		// Opens when failure rate >= 60% with minimum 10 requests
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= 0.6 {
				log.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Resolve probes the canonical URL of id. Results are cached by URL; probes
// that end in a transient failure are not cached.
func (r *HTTPResolver) Resolve(ctx context.Context, id string) (string, bool) {
	url := CanonicalURL(id)

	if r.cache != nil {
		if ok, hit := r.cache.Get(url); hit {
			metrics.RecordResolve("cached", 0)
			if ok {
				return url, true
			}
			return "", false
		}
	}

	start := time.Now()
	ok, err := retryWithBackoff(ctx, r.cfg.Retry, isRetryable, func() (bool, error) {
		return r.probe(ctx, url)
	})
	elapsed := time.Since(start)

	if err != nil {
		r.log.Debug().Err(err).Str("url", url).Dur("elapsed", elapsed).Msg("probe failed")
		metrics.RecordResolve("error", elapsed)
		return "", false
	}

	if r.cache != nil {
		r.cache.Add(url, ok)
	}
	if !ok {
		metrics.RecordResolve("unresolved", elapsed)
		return "", false
	}
	metrics.RecordResolve("resolved", elapsed)
	return url, true
}

// probe performs one rate-limited GET through the circuit breaker
func (r *HTTPResolver) probe(ctx context.Context, url string) (bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return false, err
	}

	status, err := r.breaker.Execute(func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}
		if r.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", r.cfg.UserAgent)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return 0, err
		}
		defer func() { _ = resp.Body.Close() }()
		// Drain a bounded amount so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

		if transientStatuses[resp.StatusCode] {
			return resp.StatusCode, &statusError{code: resp.StatusCode}
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		return false, err
	}
	return status == http.StatusOK, nil
}

// isRetryable reports whether a probe error deserves another attempt.
// Transient statuses and transport errors are retried; an open circuit is
// final for this request.
func isRetryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}
