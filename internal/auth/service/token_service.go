// Package service provides authentication services: JWT issuance and
// verification, and Argon2id password hashing.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/auth/domain"
	identityDomain "github.com/teranga/caisse/internal/identity/domain"

	apperrors "github.com/teranga/caisse/internal/errors"
)

const issuer = "caisse"

// TokenService issues and verifies the bearer tokens used by the API.
type TokenService interface {
	Issue(identity *identityDomain.Identity, kind domain.TokenKind) (string, error)
	Verify(token string, kind domain.TokenKind) (*domain.Claims, error)
}

// JWTTokenService implements TokenService with HS256-signed JWTs. Access and
// refresh tokens are signed with distinct secrets.
type JWTTokenService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
}

// NewJWTTokenService creates a new JWTTokenService.
func NewJWTTokenService(
	accessSecret, refreshSecret string,
	accessExpiration, refreshExpiration time.Duration,
) (*JWTTokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, apperrors.New("token signing secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, apperrors.New("access and refresh secrets must differ")
	}

	return &JWTTokenService{
		accessSecret:      []byte(accessSecret),
		refreshSecret:     []byte(refreshSecret),
		accessExpiration:  accessExpiration,
		refreshExpiration: refreshExpiration,
	}, nil
}

// Issue signs a token of the given kind carrying a snapshot of the
// identity's principal role and role set. The snapshot is what later
// authorizes requests; it is never refreshed before expiry.
func (s *JWTTokenService) Issue(identity *identityDomain.Identity, kind domain.TokenKind) (string, error) {
	secret, expiration, err := s.kindParams(kind)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := domain.Claims{
		PrincipalRole: identity.PrincipalRole,
		Roles:         identity.Roles,
		Kind:          kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Verify checks the token signature, expiry, issuer and kind, and returns
// the embedded claims. It performs no store lookup: the claims are trusted
// as issued.
func (s *JWTTokenService) Verify(token string, kind domain.TokenKind) (*domain.Claims, error) {
	secret, _, err := s.kindParams(kind)
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(token, &domain.Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*domain.Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Kind != kind {
		return nil, domain.ErrInvalidToken
	}
	if _, err := claims.IdentityID(); err != nil {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// kindParams returns the secret and expiration for a token kind.
func (s *JWTTokenService) kindParams(kind domain.TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case domain.AccessToken:
		return s.accessSecret, s.accessExpiration, nil
	case domain.RefreshToken:
		return s.refreshSecret, s.refreshExpiration, nil
	default:
		return nil, 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown token kind: %s", kind)
	}
}
