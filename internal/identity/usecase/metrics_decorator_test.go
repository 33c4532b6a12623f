package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/teranga/caisse/internal/identity/domain"
)

// mockIdentityUseCase is a local mock for the decorated UseCase.
type mockIdentityUseCase struct {
	mock.Mock
}

func (m *mockIdentityUseCase) Create(ctx context.Context, input CreateIdentityInput) (*domain.Identity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) ChangeRole(ctx context.Context, id uuid.UUID, input ChangeRoleInput) (*domain.Identity, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Identity, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Identity), args.Error(1)
}

func (m *mockIdentityUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func TestIdentityUseCaseWithMetrics(t *testing.T) {
	mockNext := &mockIdentityUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := NewIdentityUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()
	identityID := uuid.Must(uuid.NewV7())

	t.Run("Create success", func(t *testing.T) {
		input := validCreateInput()
		identity := &domain.Identity{ID: identityID, Code: "MBR-1-101-PLA-0001"}

		mockNext.On("Create", ctx, input).Return(identity, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "identity", "identity_create", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "identity", "identity_create", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, identity, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Create error", func(t *testing.T) {
		input := validCreateInput()
		expectedErr := errors.New("error")

		mockNext.On("Create", ctx, input).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "identity", "identity_create", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "identity", "identity_create", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		res, err := uc.Create(ctx, input)
		assert.Error(t, err)
		assert.Nil(t, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("ChangeRole success", func(t *testing.T) {
		input := ChangeRoleInput{Op: RoleOpGrant, Role: "SUPERVISOR"}
		identity := &domain.Identity{ID: identityID}

		mockNext.On("ChangeRole", ctx, identityID, input).Return(identity, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "identity", "role_change", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "identity", "role_change", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		res, err := uc.ChangeRole(ctx, identityID, input)
		assert.NoError(t, err)
		assert.Equal(t, identity, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Delete error", func(t *testing.T) {
		expectedErr := errors.New("error")

		mockNext.On("Delete", ctx, identityID).Return(expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "identity", "identity_delete", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "identity", "identity_delete", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		err := uc.Delete(ctx, identityID)
		assert.Error(t, err)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
