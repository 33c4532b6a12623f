package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an identity.
type Status string

// Identity lifecycle states.
const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// Identity represents a member, agent or staff account. Code is the
// human-readable geographic code minted at creation. Version backs optimistic
// locking: every update carries the version it read, and a stale version is
// rejected instead of overwriting a concurrent change.
type Identity struct {
	ID               uuid.UUID
	Code             string
	Name             string
	Email            string
	Password         string
	PrincipalRole    Role
	Roles            RoleSet
	Status           Status
	FailedLoginCount int
	Region           string
	Department       string
	Commune          string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate runs the role model invariants against the identity's principal
// role and role set.
func (i *Identity) Validate() error {
	return i.Roles.Validate(i.PrincipalRole)
}

// RegisterLoginFailure increments the failure counter and suspends the
// identity once the counter reaches maxFailures. It reports whether the
// identity was suspended by this failure.
func (i *Identity) RegisterLoginFailure(maxFailures int) bool {
	i.FailedLoginCount++
	if i.Status == StatusActive && i.FailedLoginCount >= maxFailures {
		i.Status = StatusSuspended
		return true
	}
	return false
}

// ResetLoginFailures clears the failure counter after a successful login.
func (i *Identity) ResetLoginFailures() {
	i.FailedLoginCount = 0
}
