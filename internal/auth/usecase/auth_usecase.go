// Package usecase implements the authentication business logic: credential
// verification, failure lockout and token issuance.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/auth/domain"
	"github.com/teranga/caisse/internal/auth/service"
	identityDomain "github.com/teranga/caisse/internal/identity/domain"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// LoginOutput bundles the authenticated identity with its token pair.
type LoginOutput struct {
	Identity *identityDomain.Identity
	Tokens   domain.TokenPair
}

// UseCase defines the interface for authentication operations.
type UseCase interface {
	Login(ctx context.Context, email, password string) (*LoginOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error)
}

// IdentityRepository defines the identity persistence operations needed for
// authentication.
type IdentityRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identityDomain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*identityDomain.Identity, error)
	UpdateLoginState(ctx context.Context, identity *identityDomain.Identity) error
}

// AuthUseCase handles login and token refresh.
type AuthUseCase struct {
	identityRepo IdentityRepository
	tokenSvc     service.TokenService
	passwordSvc  service.PasswordService
	maxFailures  int
	logger       *slog.Logger
}

// NewAuthUseCase creates a new AuthUseCase. maxFailures is the number of
// consecutive failed logins that suspends an identity.
func NewAuthUseCase(
	identityRepo IdentityRepository,
	tokenSvc service.TokenService,
	passwordSvc service.PasswordService,
	maxFailures int,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		identityRepo: identityRepo,
		tokenSvc:     tokenSvc,
		passwordSvc:  passwordSvc,
		maxFailures:  maxFailures,
		logger:       logger,
	}
}

// Login verifies the credentials and returns a fresh token pair.
//
// Failure semantics:
//   - unknown email and wrong password both return the generic invalid
//     credentials error, never revealing which field was wrong
//   - a suspended identity is rejected before the password is checked, so
//     the correct password does not un-suspend it
//   - each wrong password increments the failure counter; reaching the
//     threshold suspends the identity
//   - a successful login resets the counter
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*LoginOutput, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	identity, err := uc.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	switch identity.Status {
	case identityDomain.StatusSuspended:
		return nil, identityDomain.ErrIdentitySuspended
	case identityDomain.StatusInactive:
		return nil, identityDomain.ErrIdentityInactive
	}

	if !uc.passwordSvc.Compare(password, identity.Password) {
		suspended := identity.RegisterLoginFailure(uc.maxFailures)
		if err := uc.identityRepo.UpdateLoginState(ctx, identity); err != nil {
			return nil, err
		}
		if suspended {
			uc.logger.Warn("identity suspended after repeated login failures",
				slog.String("identity_id", identity.ID.String()),
				slog.Int("failed_login_count", identity.FailedLoginCount))
		}
		return nil, domain.ErrInvalidCredentials
	}

	if identity.FailedLoginCount > 0 {
		identity.ResetLoginFailures()
		if err := uc.identityRepo.UpdateLoginState(ctx, identity); err != nil {
			return nil, err
		}
	}

	tokens, err := uc.issueTokens(identity)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Identity: identity, Tokens: tokens}, nil
}

// Refresh verifies a refresh token and issues a new token pair. The new
// tokens carry a fresh snapshot of the identity's current roles. Rotating
// the refresh token along with the access token is deliberate; the old
// refresh token simply ages out at its original expiry.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := uc.tokenSvc.Verify(refreshToken, domain.RefreshToken)
	if err != nil {
		return nil, err
	}

	identityID, err := claims.IdentityID()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	identity, err := uc.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	switch identity.Status {
	case identityDomain.StatusSuspended:
		return nil, identityDomain.ErrIdentitySuspended
	case identityDomain.StatusInactive:
		return nil, identityDomain.ErrIdentityInactive
	}

	tokens, err := uc.issueTokens(identity)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Identity: identity, Tokens: tokens}, nil
}

func (uc *AuthUseCase) issueTokens(identity *identityDomain.Identity) (domain.TokenPair, error) {
	accessToken, err := uc.tokenSvc.Issue(identity, domain.AccessToken)
	if err != nil {
		return domain.TokenPair{}, apperrors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := uc.tokenSvc.Issue(identity, domain.RefreshToken)
	if err != nil {
		return domain.TokenPair{}, apperrors.Wrap(err, "failed to issue refresh token")
	}

	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
