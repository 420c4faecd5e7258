package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"worklog/internal/platform/requestctx"
	"worklog/internal/transport/http/api"
)

func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				requestctx.Logger(r.Context(), logger).Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", GetRequestID(r.Context()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
