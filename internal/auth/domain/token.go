// Package domain defines authentication domain types: token kinds, claims
// and the errors surfaced by login and authorization.
package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	identityDomain "github.com/teranga/caisse/internal/identity/domain"
)

// TokenKind distinguishes the two bearer token flavors. Each kind is signed
// with its own secret, so an access token can never pass refresh
// verification and vice versa.
type TokenKind string

// Supported token kinds.
const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims is the JWT payload carried by both token kinds. The principal role
// and role set are a snapshot taken at issuance: verification never re-reads
// the identity, so role changes only take effect when the token expires or is
// refreshed.
type Claims struct {
	PrincipalRole identityDomain.Role    `json:"principal_role"`
	Roles         identityDomain.RoleSet `json:"roles"`
	Kind          TokenKind              `json:"kind"`
	jwt.RegisteredClaims
}

// IdentityID returns the identity the token was issued for.
func (c *Claims) IdentityID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// HasActiveRole reports whether the snapshot contains an active grant for
// the role.
func (c *Claims) HasActiveRole(role identityDomain.Role) bool {
	return c.Roles.HasActiveRole(role)
}

// TokenPair bundles the access and refresh tokens returned by login and
// refresh operations.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
