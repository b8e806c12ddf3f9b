package auth

import "context"

type claimsKey struct{}

// WithClaims attaches the caller's verified claims to ctx.
func WithClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the claims stored by WithClaims.
func ClaimsFrom(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(UserClaims)
	return claims, ok && claims != nil
}

// Subject names the authenticated caller for audit logs, or "anonymous".
func Subject(ctx context.Context) string {
	if claims, ok := ClaimsFrom(ctx); ok && claims.UserID() != "" {
		return claims.UserID()
	}
	return "anonymous"
}
