// Package domain defines the core identity domain entities and the role
// model invariants enforced on every identity mutation.
package domain

import (
	"fmt"
	"time"

	"github.com/teranga/caisse/internal/errors"
)

// Role is the closed set of roles an identity can hold. Roles are never
// compared as open strings at the type level.
type Role string

// Supported roles.
const (
	RoleAdmin      Role = "ADMIN"
	RoleAgent      Role = "AGENT"
	RoleSupervisor Role = "SUPERVISOR"
	RoleMaker      Role = "MAKER"
	RoleMember     Role = "MEMBER"
)

// allRoles lists every valid role for parsing and validation.
var allRoles = []Role{RoleAdmin, RoleAgent, RoleSupervisor, RoleMaker, RoleMember}

// IsValid reports whether the role is one of the supported roles.
func (r Role) IsValid() bool {
	for _, role := range allRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole converts a string to a Role, rejecting anything outside the
// closed set.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", errors.Wrapf(errors.ErrInvalidInput, "unknown role: %s", s)
	}
	return role, nil
}

// RoleGrant is one entry in an identity's RoleSet. Scope identifies the
// savings-group a MAKER grant makes for; it is empty for roles that are not
// scoped.
type RoleGrant struct {
	Role      Role      `json:"role"`
	Scope     string    `json:"scope,omitempty"`
	Active    bool      `json:"active"`
	GrantedAt time.Time `json:"granted_at"`
}

// RoleSet is the ordered collection of grants held by an identity. Order is
// preserved across mutations so revocation history stays readable.
type RoleSet []RoleGrant

// Violation kinds reported by RoleSet validation. Clients branch on these
// values, so they are part of the API contract.
const (
	ViolationPrincipalRoleMissing   = "principal_role_missing"
	ViolationTooManyActiveMakers    = "too_many_active_maker_grants"
	ViolationMakerGrantMissingScope = "maker_grant_missing_scope"
	ViolationAgentMakerConflict     = "agent_maker_conflict"
)

// ViolationError reports a role model invariant violation with a
// machine-readable kind.
type ViolationError struct {
	ViolationKind string
	Message       string
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return e.Message
}

// Unwrap makes ViolationError match errors.ErrInvariantViolation.
func (e *ViolationError) Unwrap() error {
	return errors.ErrInvariantViolation
}

// Kind returns the machine-readable violation kind.
func (e *ViolationError) Kind() string {
	return e.ViolationKind
}

func newViolation(kind, format string, args ...any) *ViolationError {
	return &ViolationError{
		ViolationKind: kind,
		Message:       fmt.Sprintf(format, args...),
	}
}

// Grant appends a new active grant to the set. It does not validate; callers
// run Validate on the whole set before persisting.
func (s RoleSet) Grant(role Role, scope string) RoleSet {
	return append(s, RoleGrant{
		Role:      role,
		Scope:     scope,
		Active:    true,
		GrantedAt: time.Now().UTC(),
	})
}

// Revoke deactivates every active grant with the given role. The grants stay
// in the set as an inactive history entry.
func (s RoleSet) Revoke(role Role) RoleSet {
	result := make(RoleSet, len(s))
	copy(result, s)
	for i := range result {
		if result[i].Role == role {
			result[i].Active = false
		}
	}
	return result
}

// HasActiveRole reports whether the set contains an active grant for the role.
func (s RoleSet) HasActiveRole(role Role) bool {
	for _, grant := range s {
		if grant.Role == role && grant.Active {
			return true
		}
	}
	return false
}

// ActiveScopesFor returns the distinct scopes of active grants for the role,
// in grant order.
func (s RoleSet) ActiveScopesFor(role Role) []string {
	seen := make(map[string]bool)
	var scopes []string
	for _, grant := range s {
		if grant.Role != role || !grant.Active || grant.Scope == "" {
			continue
		}
		if seen[grant.Scope] {
			continue
		}
		seen[grant.Scope] = true
		scopes = append(scopes, grant.Scope)
	}
	return scopes
}

// Validate checks the role model invariants against the principal role:
//
//   - the principal role must appear in the set
//   - every active MAKER grant must carry a non-empty scope
//   - at most one MAKER grant may be active
//
// When an identity holds an active AGENT grant alongside multiple active
// MAKER grants, the violation is reported as an agent/maker conflict. That is
// the same underlying constraint as the MAKER limit, but the two diagnostics
// are kept distinct because clients branch on them separately.
func (s RoleSet) Validate(principal Role) error {
	principalPresent := false
	activeMakers := 0
	activeAgent := false

	for _, grant := range s {
		if grant.Role == principal {
			principalPresent = true
		}
		if !grant.Active {
			continue
		}
		switch grant.Role {
		case RoleMaker:
			if grant.Scope == "" {
				return newViolation(ViolationMakerGrantMissingScope,
					"active maker grant must reference a savings group")
			}
			activeMakers++
		case RoleAgent:
			activeAgent = true
		}
	}

	if !principalPresent {
		return newViolation(ViolationPrincipalRoleMissing,
			"principal role %s is not present in the role set", principal)
	}

	if activeMakers > 1 {
		if activeAgent {
			return newViolation(ViolationAgentMakerConflict,
				"an agent may not hold more than one active maker grant")
		}
		return newViolation(ViolationTooManyActiveMakers,
			"at most one maker grant may be active")
	}

	return nil
}
