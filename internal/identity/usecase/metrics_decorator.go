package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/identity/domain"
	"github.com/teranga/caisse/internal/metrics"
)

// identityUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type identityUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewIdentityUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewIdentityUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &identityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for enrollment operations.
func (d *identityUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateIdentityInput,
) (*domain.Identity, error) {
	start := time.Now()
	identity, err := d.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "identity", "identity_create", status)
	d.metrics.RecordDuration(ctx, "identity", "identity_create", time.Since(start), status)

	return identity, err
}

// ChangeRole records metrics for role mutation operations.
func (d *identityUseCaseWithMetrics) ChangeRole(
	ctx context.Context,
	id uuid.UUID,
	input ChangeRoleInput,
) (*domain.Identity, error) {
	start := time.Now()
	identity, err := d.next.ChangeRole(ctx, id, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "identity", "role_change", status)
	d.metrics.RecordDuration(ctx, "identity", "role_change", time.Since(start), status)

	return identity, err
}

// GetByID records metrics for identity retrieval operations.
func (d *identityUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	start := time.Now()
	identity, err := d.next.GetByID(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "identity", "identity_get", status)
	d.metrics.RecordDuration(ctx, "identity", "identity_get", time.Since(start), status)

	return identity, err
}

// List records metrics for identity list operations.
func (d *identityUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Identity, error) {
	start := time.Now()
	identities, err := d.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "identity", "identity_list", status)
	d.metrics.RecordDuration(ctx, "identity", "identity_list", time.Since(start), status)

	return identities, err
}

// Delete records metrics for identity deletion operations.
func (d *identityUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := d.next.Delete(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "identity", "identity_delete", status)
	d.metrics.RecordDuration(ctx, "identity", "identity_delete", time.Since(start), status)

	return err
}
