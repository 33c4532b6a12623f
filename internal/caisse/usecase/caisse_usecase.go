// Package usecase implements the caisse business logic: registration with
// code minting and lookup operations.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/caisse/domain"
	"github.com/teranga/caisse/internal/database"
	outboxDomain "github.com/teranga/caisse/internal/outbox/domain"
	"github.com/teranga/caisse/internal/sequence"

	apperrors "github.com/teranga/caisse/internal/errors"
	appValidation "github.com/teranga/caisse/internal/validation"
)

// CreateCaisseInput contains the input data for caisse registration.
type CreateCaisseInput struct {
	Name       string `json:"name"`
	Region     string `json:"region"`
	Department string `json:"department"`
	Commune    string `json:"commune"`
}

// UseCase defines the interface for caisse business logic operations.
type UseCase interface {
	Create(ctx context.Context, input CreateCaisseInput) (*domain.Caisse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Caisse, error)
}

// CaisseRepository interface defines caisse repository operations.
type CaisseRepository interface {
	Create(ctx context.Context, caisse *domain.Caisse) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Caisse, error)
}

// OutboxEventRepository interface defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// CodeGenerator mints human-readable codes for a scope and entity class.
type CodeGenerator interface {
	Next(ctx context.Context, scope sequence.Scope, class sequence.EntityClass) (string, error)
}

// CaisseUseCase handles caisse-related business logic.
type CaisseUseCase struct {
	txManager     database.TxManager
	caisseRepo    CaisseRepository
	outboxRepo    OutboxEventRepository
	codeGenerator CodeGenerator
	logger        *slog.Logger
}

// NewCaisseUseCase creates a new CaisseUseCase.
func NewCaisseUseCase(
	txManager database.TxManager,
	caisseRepo CaisseRepository,
	outboxRepo OutboxEventRepository,
	codeGenerator CodeGenerator,
	logger *slog.Logger,
) *CaisseUseCase {
	return &CaisseUseCase{
		txManager:     txManager,
		caisseRepo:    caisseRepo,
		outboxRepo:    outboxRepo,
		codeGenerator: codeGenerator,
		logger:        logger,
	}
}

// validateCreateCaisseInput validates the registration input.
func (uc *CaisseUseCase) validateCreateCaisseInput(input CreateCaisseInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Region,
			validation.Required.Error("region is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Department,
			validation.Required.Error("department is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create registers a new caisse. The code is minted from the geographic
// scope with the caisse entity class, which pads the ordinal to three digits.
// A code collision is retried once with a freshly minted code.
func (uc *CaisseUseCase) Create(ctx context.Context, input CreateCaisseInput) (*domain.Caisse, error) {
	if err := uc.validateCreateCaisseInput(input); err != nil {
		return nil, err
	}

	scope := sequence.Scope{
		Region:     strings.TrimSpace(input.Region),
		Department: strings.TrimSpace(input.Department),
		Commune:    strings.TrimSpace(input.Commune),
	}

	caisse := &domain.Caisse{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       strings.TrimSpace(input.Name),
		Region:     scope.Region,
		Department: scope.Department,
		Commune:    scope.Commune,
	}

	for attempt := 0; attempt < 2; attempt++ {
		code, err := uc.codeGenerator.Next(ctx, scope, sequence.CaisseClass)
		if err != nil {
			return nil, err
		}
		caisse.Code = code

		err = uc.persistNewCaisse(ctx, caisse)
		if err == nil {
			return caisse, nil
		}
		if !apperrors.Is(err, domain.ErrDuplicateCode) || attempt == 1 {
			return nil, err
		}

		uc.logger.Warn("code collision during caisse registration, re-minting",
			slog.String("code", code),
			slog.String("region", scope.Region),
			slog.String("commune", scope.Commune))
	}

	return nil, domain.ErrDuplicateCode
}

// persistNewCaisse creates the caisse and its created event atomically.
func (uc *CaisseUseCase) persistNewCaisse(ctx context.Context, caisse *domain.Caisse) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.caisseRepo.Create(ctx, caisse); err != nil {
			return err
		}

		eventPayload := map[string]interface{}{
			"caisse_id": caisse.ID,
			"code":      caisse.Code,
			"name":      caisse.Name,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: "caisse.created",
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
			Retries:   0,
		}

		if err := uc.outboxRepo.Create(ctx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
}

// GetByID retrieves a caisse by ID.
func (uc *CaisseUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error) {
	return uc.caisseRepo.GetByID(ctx, id)
}

// List retrieves caisses with pagination.
func (uc *CaisseUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Caisse, error) {
	return uc.caisseRepo.List(ctx, offset, limit)
}
