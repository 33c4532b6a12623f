package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/teranga/caisse/internal/identity/domain"
	identityUsecase "github.com/teranga/caisse/internal/identity/usecase"
)

// mockIdentityUseCase is a mock implementation of identityUsecase.UseCase.
type mockIdentityUseCase struct {
	mock.Mock
}

func (m *mockIdentityUseCase) Create(
	ctx context.Context,
	input identityUsecase.CreateIdentityInput,
) (*identityDomain.Identity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) ChangeRole(
	ctx context.Context,
	id uuid.UUID,
	input identityUsecase.ChangeRoleInput,
) (*identityDomain.Identity, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) GetByID(ctx context.Context, id uuid.UUID) (*identityDomain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) List(ctx context.Context, offset, limit int) ([]*identityDomain.Identity, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestRunCreateAdmin(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	identityID := uuid.Must(uuid.NewV7())

	admin := &identityDomain.Identity{
		ID:    identityID,
		Code:  "MBR-1-101-PLA-0001",
		Email: "admin@teranga.sn",
	}

	t.Run("flag-password-text", func(t *testing.T) {
		mockUseCase := &mockIdentityUseCase{}
		input := identityUsecase.CreateIdentityInput{
			Name:          "Awa Diop",
			Email:         "admin@teranga.sn",
			Password:      "S3cure!Pass",
			PrincipalRole: string(identityDomain.RoleAdmin),
			Region:        "DAKAR",
			Department:    "DAKAR",
			Commune:       "Plateau",
		}

		mockUseCase.On("Create", ctx, input).Return(admin, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCreateAdmin(
			ctx,
			mockUseCase,
			logger,
			"Awa Diop",
			"admin@teranga.sn",
			"S3cure!Pass",
			"DAKAR",
			"DAKAR",
			"Plateau",
			"text",
			io,
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), identityID.String())
		require.Contains(t, out.String(), "MBR-1-101-PLA-0001")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-password-json", func(t *testing.T) {
		mockUseCase := &mockIdentityUseCase{}
		input := identityUsecase.CreateIdentityInput{
			Name:          "Awa Diop",
			Email:         "admin@teranga.sn",
			Password:      "S3cure!Pass",
			PrincipalRole: string(identityDomain.RoleAdmin),
			Region:        "DAKAR",
			Department:    "DAKAR",
			Commune:       "Plateau",
		}

		mockUseCase.On("Create", ctx, input).Return(admin, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: bytes.NewBufferString("S3cure!Pass\n"),
			Writer: &out,
		}

		err := RunCreateAdmin(
			ctx,
			mockUseCase,
			logger,
			"Awa Diop",
			"admin@teranga.sn",
			"",
			"DAKAR",
			"DAKAR",
			"Plateau",
			"json",
			io,
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), identityID.String())
		require.Contains(t, out.String(), "{") // Should be JSON
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty-interactive-password", func(t *testing.T) {
		mockUseCase := &mockIdentityUseCase{}

		var out bytes.Buffer
		io := IOTuple{
			Reader: bytes.NewBufferString("\n"),
			Writer: &out,
		}

		err := RunCreateAdmin(
			ctx,
			mockUseCase,
			logger,
			"Awa Diop",
			"admin@teranga.sn",
			"",
			"DAKAR",
			"DAKAR",
			"Plateau",
			"text",
			io,
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "password cannot be empty")
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
