package domain

import (
	"github.com/teranga/caisse/internal/errors"
)

// Caisse domain errors.
var (
	// ErrCaisseNotFound is returned when a caisse does not exist.
	ErrCaisseNotFound = errors.Wrap(errors.ErrNotFound, "caisse not found")

	// ErrDuplicateCode is returned when a minted code collides with an
	// existing caisse. Possible under concurrent creation in the same scope.
	ErrDuplicateCode = errors.NewKind(errors.ErrConflict, "duplicate_code", "caisse code already exists")
)
