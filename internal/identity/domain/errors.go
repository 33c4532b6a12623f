package domain

import (
	"github.com/teranga/caisse/internal/errors"
)

// Domain-specific errors for identity operations.
var (
	// ErrIdentityNotFound indicates the requested identity does not exist.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity not found")

	// ErrEmailAlreadyExists indicates an identity with the same email already exists.
	ErrEmailAlreadyExists = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrDuplicateCode indicates a minted code collided with an existing one
	// in the same scope.
	ErrDuplicateCode = errors.NewKind(errors.ErrConflict, "duplicate_code", "code already exists in scope")

	// ErrIdentitySuspended indicates the identity is suspended and may not
	// authenticate.
	ErrIdentitySuspended = errors.NewKind(errors.ErrForbidden, "identity_suspended", "identity is suspended")

	// ErrIdentityInactive indicates the identity is inactive and may not
	// authenticate.
	ErrIdentityInactive = errors.NewKind(errors.ErrForbidden, "identity_inactive", "identity is inactive")
)
