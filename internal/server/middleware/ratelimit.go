package middleware

import (
	"net/http"
	"time"

	"randarb/internal/domain"
)

// RateLimit throttles each client address to limit requests per window. The
// counter lives behind domain.RateLimiter, which already namespaces its keys,
// so the middleware only scopes by surface and address. Limiter failures fail
// open: a Redis hiccup must not take the market API down with it.
func RateLimit(limiter domain.RateLimiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "api:" + clientIP(r)

			allowed, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				deny(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
