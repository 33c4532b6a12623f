package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/teranga/caisse/internal/caisse/domain"
	outboxDomain "github.com/teranga/caisse/internal/outbox/domain"
	"github.com/teranga/caisse/internal/sequence"

	apperrors "github.com/teranga/caisse/internal/errors"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockCaisseRepository is a mock implementation of CaisseRepository
type MockCaisseRepository struct {
	mock.Mock
}

func (m *MockCaisseRepository) Create(ctx context.Context, caisse *domain.Caisse) error {
	args := m.Called(ctx, caisse)
	return args.Error(0)
}

func (m *MockCaisseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Caisse), args.Error(1)
}

func (m *MockCaisseRepository) List(ctx context.Context, offset, limit int) ([]*domain.Caisse, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Caisse), args.Error(1)
}

// MockOutboxEventRepository is a mock implementation of OutboxEventRepository
type MockOutboxEventRepository struct {
	mock.Mock
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockCodeGenerator is a mock implementation of CodeGenerator
type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) Next(ctx context.Context, scope sequence.Scope, class sequence.EntityClass) (string, error) {
	args := m.Called(ctx, scope, class)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUseCase() (*CaisseUseCase, *MockTxManager, *MockCaisseRepository, *MockOutboxEventRepository, *MockCodeGenerator) {
	txManager := new(MockTxManager)
	caisseRepo := new(MockCaisseRepository)
	outboxRepo := new(MockOutboxEventRepository)
	generator := new(MockCodeGenerator)
	uc := NewCaisseUseCase(txManager, caisseRepo, outboxRepo, generator, testLogger())
	return uc, txManager, caisseRepo, outboxRepo, generator
}

func TestCaisseUseCase_Create(t *testing.T) {
	ctx := context.Background()
	scope := sequence.Scope{Region: "DAKAR", Department: "DAKAR", Commune: "Plateau"}
	input := CreateCaisseInput{
		Name:       "Caisse de Plateau",
		Region:     "DAKAR",
		Department: "DAKAR",
		Commune:    "Plateau",
	}

	t.Run("Success", func(t *testing.T) {
		uc, txManager, caisseRepo, outboxRepo, generator := newUseCase()

		generator.On("Next", ctx, scope, sequence.CaisseClass).Return("CLS-1-101-PLA-001", nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		caisseRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Caisse")).Return(nil)
		outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
			return e.EventType == "caisse.created"
		})).Return(nil)

		caisse, err := uc.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "CLS-1-101-PLA-001", caisse.Code)
		assert.Equal(t, "Caisse de Plateau", caisse.Name)
		caisseRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("Success_CodeCollisionRetriedOnce", func(t *testing.T) {
		uc, txManager, caisseRepo, outboxRepo, generator := newUseCase()

		generator.On("Next", ctx, scope, sequence.CaisseClass).Return("CLS-1-101-PLA-001", nil).Once()
		generator.On("Next", ctx, scope, sequence.CaisseClass).Return("CLS-1-101-PLA-002", nil).Once()
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		caisseRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateCode).Once()
		caisseRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		outboxRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		caisse, err := uc.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "CLS-1-101-PLA-002", caisse.Code)
		generator.AssertExpectations(t)
	})

	t.Run("Error_CodeCollisionTwice", func(t *testing.T) {
		uc, txManager, caisseRepo, _, generator := newUseCase()

		generator.On("Next", ctx, scope, sequence.CaisseClass).Return("CLS-1-101-PLA-001", nil).Twice()
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		caisseRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateCode).Twice()

		caisse, err := uc.Create(ctx, input)

		assert.Nil(t, caisse)
		assert.True(t, apperrors.Is(err, domain.ErrDuplicateCode))
		assert.Equal(t, "duplicate_code", apperrors.KindOf(err))
	})

	t.Run("Error_MissingName", func(t *testing.T) {
		uc, _, caisseRepo, _, _ := newUseCase()

		bad := input
		bad.Name = ""

		_, err := uc.Create(ctx, bad)

		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		caisseRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingRegion", func(t *testing.T) {
		uc, _, _, _, _ := newUseCase()

		bad := input
		bad.Region = "  "

		_, err := uc.Create(ctx, bad)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestCaisseUseCase_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, _, caisseRepo, _, _ := newUseCase()
		caisse := &domain.Caisse{ID: uuid.Must(uuid.NewV7()), Code: "CLS-1-101-PLA-001"}

		caisseRepo.On("GetByID", ctx, caisse.ID).Return(caisse, nil)

		got, err := uc.GetByID(ctx, caisse.ID)
		require.NoError(t, err)
		assert.Equal(t, caisse.Code, got.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, _, caisseRepo, _, _ := newUseCase()
		id := uuid.Must(uuid.NewV7())

		caisseRepo.On("GetByID", ctx, id).Return(nil, domain.ErrCaisseNotFound)

		_, err := uc.GetByID(ctx, id)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestCaisseUseCase_List(t *testing.T) {
	ctx := context.Background()
	uc, _, caisseRepo, _, _ := newUseCase()

	caisseRepo.On("List", ctx, 0, 50).Return([]*domain.Caisse{
		{ID: uuid.Must(uuid.NewV7()), Code: "CLS-1-101-PLA-001"},
	}, nil)

	caisses, err := uc.List(ctx, 0, 50)
	require.NoError(t, err)
	assert.Len(t, caisses, 1)
}
