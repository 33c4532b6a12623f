package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/teranga/caisse/internal/auth/domain"
	identityDomain "github.com/teranga/caisse/internal/identity/domain"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// MockIdentityRepository is a mock implementation of IdentityRepository
type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*identityDomain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetByEmail(ctx context.Context, email string) (*identityDomain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) UpdateLoginState(ctx context.Context, identity *identityDomain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockTokenService is a mock implementation of service.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(identity *identityDomain.Identity, kind domain.TokenKind) (string, error) {
	args := m.Called(identity, kind)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string, kind domain.TokenKind) (*domain.Claims, error) {
	args := m.Called(token, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claims), args.Error(1)
}

// MockPasswordService is a mock implementation of service.PasswordService
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) Hash(plainPassword string) (string, error) {
	args := m.Called(plainPassword)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) Compare(plainPassword, hashedPassword string) bool {
	args := m.Called(plainPassword, hashedPassword)
	return args.Bool(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activeIdentity() *identityDomain.Identity {
	return &identityDomain.Identity{
		ID:            uuid.Must(uuid.NewV7()),
		Email:         "awa@example.com",
		Password:      "hashed-password",
		PrincipalRole: identityDomain.RoleMember,
		Roles:         identityDomain.RoleSet{}.Grant(identityDomain.RoleMember, ""),
		Status:        identityDomain.StatusActive,
	}
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		identity := activeIdentity()
		identityRepo := new(MockIdentityRepository)
		tokenSvc := new(MockTokenService)
		passwordSvc := new(MockPasswordService)

		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)
		passwordSvc.On("Compare", "S3cure!Pass", "hashed-password").Return(true)
		tokenSvc.On("Issue", identity, domain.AccessToken).Return("access-token", nil)
		tokenSvc.On("Issue", identity, domain.RefreshToken).Return("refresh-token", nil)

		uc := NewAuthUseCase(identityRepo, tokenSvc, passwordSvc, 5, testLogger())
		output, err := uc.Login(ctx, "awa@example.com", "S3cure!Pass")

		require.NoError(t, err)
		assert.Equal(t, "access-token", output.Tokens.AccessToken)
		assert.Equal(t, "refresh-token", output.Tokens.RefreshToken)
		assert.Equal(t, identity, output.Identity)
		identityRepo.AssertExpectations(t)
		tokenSvc.AssertExpectations(t)
		passwordSvc.AssertExpectations(t)
	})

	t.Run("Success_EmailIsNormalized", func(t *testing.T) {
		identity := activeIdentity()
		identityRepo := new(MockIdentityRepository)
		tokenSvc := new(MockTokenService)
		passwordSvc := new(MockPasswordService)

		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)
		passwordSvc.On("Compare", "S3cure!Pass", "hashed-password").Return(true)
		tokenSvc.On("Issue", identity, domain.AccessToken).Return("access-token", nil)
		tokenSvc.On("Issue", identity, domain.RefreshToken).Return("refresh-token", nil)

		uc := NewAuthUseCase(identityRepo, tokenSvc, passwordSvc, 5, testLogger())
		_, err := uc.Login(ctx, "  AWA@Example.COM ", "S3cure!Pass")

		require.NoError(t, err)
		identityRepo.AssertExpectations(t)
	})

	t.Run("Success_ResetsFailureCounter", func(t *testing.T) {
		identity := activeIdentity()
		identity.FailedLoginCount = 3

		identityRepo := new(MockIdentityRepository)
		tokenSvc := new(MockTokenService)
		passwordSvc := new(MockPasswordService)

		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)
		passwordSvc.On("Compare", "S3cure!Pass", "hashed-password").Return(true)
		identityRepo.On("UpdateLoginState", ctx, identity).Return(nil)
		tokenSvc.On("Issue", identity, domain.AccessToken).Return("access-token", nil)
		tokenSvc.On("Issue", identity, domain.RefreshToken).Return("refresh-token", nil)

		uc := NewAuthUseCase(identityRepo, tokenSvc, passwordSvc, 5, testLogger())
		_, err := uc.Login(ctx, "awa@example.com", "S3cure!Pass")

		require.NoError(t, err)
		assert.Equal(t, 0, identity.FailedLoginCount)
		identityRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownEmail", func(t *testing.T) {
		identityRepo := new(MockIdentityRepository)
		identityRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, identityDomain.ErrIdentityNotFound)

		uc := NewAuthUseCase(identityRepo, new(MockTokenService), new(MockPasswordService), 5, testLogger())
		output, err := uc.Login(ctx, "ghost@example.com", "whatever")

		assert.Nil(t, output)
		// The generic credentials error never reveals the email was unknown.
		assert.True(t, apperrors.Is(err, domain.ErrInvalidCredentials))
		identityRepo.AssertExpectations(t)
	})

	t.Run("Error_WrongPasswordIncrementsCounter", func(t *testing.T) {
		identity := activeIdentity()
		identityRepo := new(MockIdentityRepository)
		passwordSvc := new(MockPasswordService)

		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)
		passwordSvc.On("Compare", "wrong", "hashed-password").Return(false)
		identityRepo.On("UpdateLoginState", ctx, identity).Return(nil)

		uc := NewAuthUseCase(identityRepo, new(MockTokenService), passwordSvc, 5, testLogger())
		output, err := uc.Login(ctx, "awa@example.com", "wrong")

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, domain.ErrInvalidCredentials))
		assert.Equal(t, 1, identity.FailedLoginCount)
		assert.Equal(t, identityDomain.StatusActive, identity.Status)
		identityRepo.AssertExpectations(t)
	})

	t.Run("Error_FifthFailureSuspends", func(t *testing.T) {
		identity := activeIdentity()
		identity.FailedLoginCount = 4

		identityRepo := new(MockIdentityRepository)
		passwordSvc := new(MockPasswordService)

		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)
		passwordSvc.On("Compare", "wrong", "hashed-password").Return(false)
		identityRepo.On("UpdateLoginState", ctx, identity).Return(nil)

		uc := NewAuthUseCase(identityRepo, new(MockTokenService), passwordSvc, 5, testLogger())
		_, err := uc.Login(ctx, "awa@example.com", "wrong")

		assert.True(t, apperrors.Is(err, domain.ErrInvalidCredentials))
		assert.Equal(t, identityDomain.StatusSuspended, identity.Status)
		assert.Equal(t, 5, identity.FailedLoginCount)
		identityRepo.AssertExpectations(t)
	})

	t.Run("Error_SuspendedRejectsCorrectPassword", func(t *testing.T) {
		identity := activeIdentity()
		identity.Status = identityDomain.StatusSuspended
		identity.FailedLoginCount = 5

		identityRepo := new(MockIdentityRepository)
		passwordSvc := new(MockPasswordService)
		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)

		uc := NewAuthUseCase(identityRepo, new(MockTokenService), passwordSvc, 5, testLogger())
		output, err := uc.Login(ctx, "awa@example.com", "S3cure!Pass")

		assert.Nil(t, output)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		assert.Equal(t, "identity_suspended", apperrors.KindOf(err))
		// The password is never even checked.
		passwordSvc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
		identityRepo.AssertExpectations(t)
	})

	t.Run("Error_InactiveIdentity", func(t *testing.T) {
		identity := activeIdentity()
		identity.Status = identityDomain.StatusInactive

		identityRepo := new(MockIdentityRepository)
		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)

		uc := NewAuthUseCase(identityRepo, new(MockTokenService), new(MockPasswordService), 5, testLogger())
		_, err := uc.Login(ctx, "awa@example.com", "S3cure!Pass")

		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		assert.Equal(t, "identity_inactive", apperrors.KindOf(err))
	})

	t.Run("Error_PersistFailure", func(t *testing.T) {
		identity := activeIdentity()
		identityRepo := new(MockIdentityRepository)
		passwordSvc := new(MockPasswordService)

		identityRepo.On("GetByEmail", ctx, "awa@example.com").Return(identity, nil)
		passwordSvc.On("Compare", "wrong", "hashed-password").Return(false)
		identityRepo.On("UpdateLoginState", ctx, identity).Return(apperrors.New("database error"))

		uc := NewAuthUseCase(identityRepo, new(MockTokenService), passwordSvc, 5, testLogger())
		_, err := uc.Login(ctx, "awa@example.com", "wrong")

		assert.Error(t, err)
		assert.False(t, apperrors.Is(err, domain.ErrInvalidCredentials))
	})
}

func TestAuthUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	claimsFor := func(identity *identityDomain.Identity) *domain.Claims {
		return &domain.Claims{
			PrincipalRole: identity.PrincipalRole,
			Roles:         identity.Roles,
			Kind:          domain.RefreshToken,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: identity.ID.String(),
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		identity := activeIdentity()
		identityRepo := new(MockIdentityRepository)
		tokenSvc := new(MockTokenService)

		tokenSvc.On("Verify", "refresh-token", domain.RefreshToken).Return(claimsFor(identity), nil)
		identityRepo.On("GetByID", ctx, identity.ID).Return(identity, nil)
		tokenSvc.On("Issue", identity, domain.AccessToken).Return("new-access", nil)
		tokenSvc.On("Issue", identity, domain.RefreshToken).Return("new-refresh", nil)

		uc := NewAuthUseCase(identityRepo, tokenSvc, new(MockPasswordService), 5, testLogger())
		output, err := uc.Refresh(ctx, "refresh-token")

		require.NoError(t, err)
		assert.Equal(t, "new-access", output.Tokens.AccessToken)
		assert.Equal(t, "new-refresh", output.Tokens.RefreshToken)
		identityRepo.AssertExpectations(t)
		tokenSvc.AssertExpectations(t)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		tokenSvc := new(MockTokenService)
		tokenSvc.On("Verify", "garbage", domain.RefreshToken).Return(nil, domain.ErrInvalidToken)

		uc := NewAuthUseCase(new(MockIdentityRepository), tokenSvc, new(MockPasswordService), 5, testLogger())
		_, err := uc.Refresh(ctx, "garbage")

		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("Error_IdentityDeleted", func(t *testing.T) {
		identity := activeIdentity()
		identityRepo := new(MockIdentityRepository)
		tokenSvc := new(MockTokenService)

		tokenSvc.On("Verify", "refresh-token", domain.RefreshToken).Return(claimsFor(identity), nil)
		identityRepo.On("GetByID", ctx, identity.ID).Return(nil, identityDomain.ErrIdentityNotFound)

		uc := NewAuthUseCase(identityRepo, tokenSvc, new(MockPasswordService), 5, testLogger())
		_, err := uc.Refresh(ctx, "refresh-token")

		assert.True(t, apperrors.Is(err, domain.ErrInvalidToken))
	})

	t.Run("Error_SuspendedIdentity", func(t *testing.T) {
		identity := activeIdentity()
		claims := claimsFor(identity)
		identity.Status = identityDomain.StatusSuspended

		identityRepo := new(MockIdentityRepository)
		tokenSvc := new(MockTokenService)

		tokenSvc.On("Verify", "refresh-token", domain.RefreshToken).Return(claims, nil)
		identityRepo.On("GetByID", ctx, identity.ID).Return(identity, nil)

		uc := NewAuthUseCase(identityRepo, tokenSvc, new(MockPasswordService), 5, testLogger())
		_, err := uc.Refresh(ctx, "refresh-token")

		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	})
}
