package middleware

import (
	"net/http"

	"infinite-experiment/pilotlog/internal/auth"
	"infinite-experiment/pilotlog/internal/logging"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*auth.JWTClaims, error)
}

// AuthMiddleware requires a valid bearer token and stores its claims on the
// request context.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				logging.Warn("Rejected token", "request_id", RequestID(r.Context()), "error", err)
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
