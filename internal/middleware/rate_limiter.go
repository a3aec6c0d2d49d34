package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// strictPerMinute bounds login requests per IP, on top of the per-client
// attempt budget enforced by the login throttle.
const strictPerMinute = 10

// RateLimiter creates a middleware that limits requests based on IP address.
// It allows perMinute requests per minute per IP address for regular endpoints
func RateLimiter(perMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(perMinute, time.Minute)
}

// StrictRateLimiter creates a more restrictive rate limiter for sensitive endpoints
// like login (10 requests per minute per IP)
func StrictRateLimiter() func(http.Handler) http.Handler {
	return httprate.LimitByIP(strictPerMinute, time.Minute)
}
