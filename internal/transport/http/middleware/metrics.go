package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"worklog/internal/platform/metrics"
)

// Metrics records every request under its chi route pattern so path
// parameters do not blow up label cardinality.
func Metrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			collector.RequestStarted()
			rw := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rw, r)
			if rw.status == 0 {
				rw.status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			collector.Record(r.Method, route, rw.status, time.Since(start))
		})
	}
}
