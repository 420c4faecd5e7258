package middleware

import (
	"net/http"
	"slices"

	"worklog/internal/transport/http/api"
)

// RequireRole lets a request through only when the signed-in user holds one
// of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			switch user, ok := GetUser(ctx); {
			case !ok:
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(ctx))
			case !slices.Contains(roles, user.Role):
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(ctx))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
