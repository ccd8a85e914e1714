package middleware

import (
	"net/http"
	"time"
)

// Stack returns the middleware applied to every route.
// Order: CORS → RequestID → Logging → Metrics → APIKey → MaxBytes
func Stack(origins []string, apiKey string, maxBytes int64) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		CORS(origins),
		RequestID,
		Logging,
		Metrics,
		APIKey(apiKey),
		MaxBytes(maxBytes),
	}
}

// Timeout bounds a command handler. Streaming routes must not use it:
// http.TimeoutHandler's writer does not implement http.Flusher.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":"request timeout"}`)
	}
}
