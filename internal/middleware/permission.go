package middleware

import (
	"net/http"

	"infinite-experiment/pilotlog/internal/auth"
)

// RequirePermission rejects callers whose claims do not grant action. It must
// run after AuthMiddleware.
func RequirePermission(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFrom(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !claims.HasPermission(action) {
				http.Error(w, "Forbidden. Need "+action+" permission", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
