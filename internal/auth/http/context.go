// Package http provides the authentication HTTP surface: login handlers and
// the middleware gates protecting the API.
package http

import (
	"context"

	authDomain "github.com/teranga/caisse/internal/auth/domain"
)

// claimsKey is a context key type for storing verified token claims.
type claimsKey struct{}

// WithClaims stores verified token claims in the context. Called by the
// authentication middleware after successful token verification.
func WithClaims(ctx context.Context, claims *authDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves verified token claims from the context. Returns
// (claims, true) if present, or (nil, false) if the request was not
// authenticated.
func GetClaims(ctx context.Context) (*authDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authDomain.Claims)
	return claims, ok
}
