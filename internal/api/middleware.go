package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"queryadmin/internal/logger"
	"queryadmin/internal/service"
)

const requestIDHeader = "X-Request-ID"

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		// Wrap ResponseWriter to capture status code
		rw := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), RequestIDKey, reqID)))

		logger.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Context keys
type key int

const (
	RequestIDKey key = iota
	ConsoleKey
)

// ConsoleFrom returns the console attached by the admin middleware.
func ConsoleFrom(ctx context.Context) *service.Console {
	c, _ := ctx.Value(ConsoleKey).(*service.Console)
	return c
}
