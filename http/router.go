package http

import (
	"net/http"

	"payment-engine/metrics"
)

type Handlers struct {
	Recommendation *RecommendationHandler
	Payoff         *PayoffHandler
	HealthScore    *HealthScoreHandler
}

type RouterOptions struct {
	Limiter *RateLimiter // nil disables rate limiting
	Metrics *metrics.Registry
	APIKey  string
}

// NewRouter mounts the API routes. Liveness and metrics skip the API key
// and the rate limiter.
func NewRouter(h Handlers, opts RouterOptions) http.Handler {
	wrap := func(route string, fn http.HandlerFunc) http.Handler {
		var handler http.Handler = fn
		handler = APIKeyMiddleware(opts.APIKey, handler)
		if opts.Limiter != nil {
			handler = RateLimitMiddleware(opts.Limiter, opts.Metrics, handler)
		}
		return MetricsMiddleware(opts.Metrics, route, handler)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/recommendations", wrap("recommendations", h.Recommendation.Recommend))
	mux.Handle("/api/v1/simulate-payoff", wrap("simulate_payoff", h.Payoff.SimulatePayoff))
	mux.Handle("/api/v1/health-score", wrap("health_score", h.HealthScore.Score))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", opts.Metrics.Handler())

	return RequestIDMiddleware(mux)
}
