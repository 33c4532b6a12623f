package domain

import (
	"github.com/teranga/caisse/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials is returned for any login failure caused by the
	// submitted credentials. It never reveals which field was wrong.
	ErrInvalidCredentials = errors.NewKind(errors.ErrUnauthorized, "invalid_credentials", "invalid credentials")

	// ErrInvalidToken indicates the token failed signature, expiry or claim
	// validation.
	ErrInvalidToken = errors.NewKind(errors.ErrUnauthorized, "invalid_token", "invalid token")

	// ErrInsufficientPermission indicates the authenticated identity lacks
	// the role required by the endpoint.
	ErrInsufficientPermission = errors.NewKind(errors.ErrForbidden, "insufficient_permission", "insufficient permission")
)
