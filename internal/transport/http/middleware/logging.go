package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"worklog/internal/platform/requestctx"
)

// responseCapture remembers what the handler sent.
type responseCapture struct {
	http.ResponseWriter
	status  int
	written int64
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	n, err := c.ResponseWriter.Write(b)
	c.written += int64(n)
	return n, err
}

func (c *responseCapture) Unwrap() http.ResponseWriter { return c.ResponseWriter }

// Logger writes one structured line per request. Server errors log at error
// level, rejected rate limits at warn.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			rw := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rw, r)
			if rw.status == 0 {
				rw.status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case rw.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case rw.status == http.StatusTooManyRequests:
				level = slog.LevelWarn
			}
			requestctx.Logger(r.Context(), logger).Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"bytes", rw.written,
				"durationMs", time.Since(began).Milliseconds(),
			)
		})
	}
}
