package http

import (
	"context"

	"pamigay-backend/internal/security"
)

type contextKey struct{}

var claimsKey = contextKey{}

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetUserFromContext returns the claims of the authenticated caller.
// The auth middleware puts them there for every non-public route.
func GetUserFromContext(ctx context.Context) (*security.UserClaims, error) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	if !ok || claims == nil {
		return nil, errUnauthenticated("authentication required", nil)
	}
	return claims, nil
}
