package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cerebero/cerebero-server/internal/ratelimit"
)

// rateLimitMiddleware limits requests to paths under prefix by client IP.
// Exceeding the limit returns 429 in the standard envelope.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, prefix string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if !limiter.Allow(key) {
				if logger != nil {
					logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
				}

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.MarshalWrite(w, Envelope{
					Success: false,
					Error: &ErrorBody{
						Code:    "RATE_LIMITED",
						Message: "Too many requests. Please try again later.",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP, preferring proxy headers over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
