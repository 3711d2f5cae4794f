package http

import (
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"payment-engine/metrics"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	m *metrics.Registry,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !limiter.Allow(ip) {
			m.RateLimitRejected()
			zerolog.Ctx(r.Context()).Warn().Str("client", ip).Msg("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
