package middleware

import (
	"net/http"

	"worklog/internal/transport/http/api"
)

// BodyLimit caps request bodies of writes. A declared length over the cap is
// refused up front; anything else is cut off while the handler reads it.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				api.FailWithDetails(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large",
					map[string]int64{"maxBytes": maxBytes}, GetRequestID(r.Context()))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
