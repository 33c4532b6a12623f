// Package usecase implements the identity business logic: enrollment with
// code minting, role mutations and lifecycle operations.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authService "github.com/teranga/caisse/internal/auth/service"
	"github.com/teranga/caisse/internal/database"
	"github.com/teranga/caisse/internal/identity/domain"
	outboxDomain "github.com/teranga/caisse/internal/outbox/domain"
	"github.com/teranga/caisse/internal/sequence"

	apperrors "github.com/teranga/caisse/internal/errors"
	appValidation "github.com/teranga/caisse/internal/validation"
)

// CreateIdentityInput contains the input data for identity enrollment. Scope
// names the savings group the seed grant references and is required when the
// principal role is MAKER.
type CreateIdentityInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PrincipalRole string `json:"principal_role"`
	Scope         string `json:"scope"`
	Region        string `json:"region"`
	Department    string `json:"department"`
	Commune       string `json:"commune"`
}

// RoleOp selects the role mutation applied by ChangeRole.
type RoleOp string

// Supported role operations.
const (
	RoleOpGrant  RoleOp = "grant"
	RoleOpRevoke RoleOp = "revoke"
)

// ChangeRoleInput contains the input data for a role mutation.
type ChangeRoleInput struct {
	Op    RoleOp `json:"op"`
	Role  string `json:"role"`
	Scope string `json:"scope"`
}

// UseCase defines the interface for identity business logic operations.
type UseCase interface {
	Create(ctx context.Context, input CreateIdentityInput) (*domain.Identity, error)
	ChangeRole(ctx context.Context, id uuid.UUID, input ChangeRoleInput) (*domain.Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdentityRepository interface defines identity repository operations.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OutboxEventRepository interface defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// CodeGenerator mints human-readable codes for a scope and entity class.
type CodeGenerator interface {
	Next(ctx context.Context, scope sequence.Scope, class sequence.EntityClass) (string, error)
}

// IdentityUseCase handles identity-related business logic.
type IdentityUseCase struct {
	txManager     database.TxManager
	identityRepo  IdentityRepository
	outboxRepo    OutboxEventRepository
	codeGenerator CodeGenerator
	passwordSvc   authService.PasswordService
	logger        *slog.Logger
}

// NewIdentityUseCase creates a new IdentityUseCase.
func NewIdentityUseCase(
	txManager database.TxManager,
	identityRepo IdentityRepository,
	outboxRepo OutboxEventRepository,
	codeGenerator CodeGenerator,
	passwordSvc authService.PasswordService,
	logger *slog.Logger,
) *IdentityUseCase {
	return &IdentityUseCase{
		txManager:     txManager,
		identityRepo:  identityRepo,
		outboxRepo:    outboxRepo,
		codeGenerator: codeGenerator,
		passwordSvc:   passwordSvc,
		logger:        logger,
	}
}

// validateCreateIdentityInput validates the enrollment input.
func (uc *IdentityUseCase) validateCreateIdentityInput(input CreateIdentityInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&input.PrincipalRole,
			validation.Required.Error("principal_role is required"),
		),
		validation.Field(&input.Scope,
			validation.When(input.PrincipalRole == string(domain.RoleMaker),
				validation.Required.Error("scope is required when principal_role is MAKER"),
				appValidation.NotBlank,
			),
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

// Create enrolls a new identity. The human-readable code is minted from the
// geographic scope, the role set is seeded with the principal role and the
// identity plus its created event are persisted in one transaction.
//
// A code collision (possible under concurrent enrollment in the same scope)
// is retried once with a freshly minted code before giving up.
func (uc *IdentityUseCase) Create(ctx context.Context, input CreateIdentityInput) (*domain.Identity, error) {
	if err := uc.validateCreateIdentityInput(input); err != nil {
		return nil, err
	}

	principalRole, err := domain.ParseRole(input.PrincipalRole)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordSvc.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	scope := sequence.Scope{
		Region:     strings.TrimSpace(input.Region),
		Department: strings.TrimSpace(input.Department),
		Commune:    strings.TrimSpace(input.Commune),
	}

	identity := &domain.Identity{
		ID:            uuid.Must(uuid.NewV7()),
		Name:          strings.TrimSpace(input.Name),
		Email:         strings.TrimSpace(strings.ToLower(input.Email)),
		Password:      hashedPassword,
		PrincipalRole: principalRole,
		Roles:         domain.RoleSet{}.Grant(principalRole, strings.TrimSpace(input.Scope)),
		Status:        domain.StatusActive,
		Region:        scope.Region,
		Department:    scope.Department,
		Commune:       scope.Commune,
	}

	if err := identity.Validate(); err != nil {
		return nil, err
	}

	// One retry on code collision: mint, attempt, re-mint, attempt.
	for attempt := 0; attempt < 2; attempt++ {
		code, err := uc.codeGenerator.Next(ctx, scope, sequence.MemberClass)
		if err != nil {
			return nil, err
		}
		identity.Code = code

		err = uc.persistNewIdentity(ctx, identity)
		if err == nil {
			return identity, nil
		}
		if !apperrors.Is(err, domain.ErrDuplicateCode) || attempt == 1 {
			return nil, err
		}

		uc.logger.Warn("code collision during enrollment, re-minting",
			slog.String("code", code),
			slog.String("region", scope.Region),
			slog.String("commune", scope.Commune))
	}

	return nil, domain.ErrDuplicateCode
}

// persistNewIdentity creates the identity and its created event atomically.
func (uc *IdentityUseCase) persistNewIdentity(ctx context.Context, identity *domain.Identity) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.identityRepo.Create(ctx, identity); err != nil {
			return err
		}

		eventPayload := map[string]interface{}{
			"identity_id":    identity.ID,
			"code":           identity.Code,
			"name":           identity.Name,
			"email":          identity.Email,
			"principal_role": identity.PrincipalRole,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: "identity.created",
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

// ChangeRole applies a grant or revoke to the identity's role set. The
// mutated set is validated before anything is written: a violating mutation
// is rejected whole and the stored role set stays unchanged.
func (uc *IdentityUseCase) ChangeRole(ctx context.Context, id uuid.UUID, input ChangeRoleInput) (*domain.Identity, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	identity, err := uc.identityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch input.Op {
	case RoleOpGrant:
		identity.Roles = identity.Roles.Grant(role, strings.TrimSpace(input.Scope))
	case RoleOpRevoke:
		identity.Roles = identity.Roles.Revoke(role)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown role operation: %s", input.Op)
	}

	if err := identity.Validate(); err != nil {
		return nil, err
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.identityRepo.Update(ctx, identity); err != nil {
			return err
		}

		eventPayload := map[string]interface{}{
			"identity_id": identity.ID,
			"op":          input.Op,
			"role":        role,
			"scope":       input.Scope,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: "identity.role_changed",
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
			Retries:   0,
		}

		if err := uc.outboxRepo.Create(ctx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// GetByID retrieves an identity by ID.
func (uc *IdentityUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	return uc.identityRepo.GetByID(ctx, id)
}

// List retrieves identities with pagination.
func (uc *IdentityUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Identity, error) {
	return uc.identityRepo.List(ctx, offset, limit)
}

// Delete removes an identity.
func (uc *IdentityUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.identityRepo.Delete(ctx, id)
}
