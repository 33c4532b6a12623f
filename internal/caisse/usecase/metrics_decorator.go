package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/caisse/domain"
	"github.com/teranga/caisse/internal/metrics"
)

// caisseUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type caisseUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewCaisseUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewCaisseUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &caisseUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for caisse registration operations.
func (d *caisseUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateCaisseInput,
) (*domain.Caisse, error) {
	start := time.Now()
	caisse, err := d.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "caisse", "caisse_create", status)
	d.metrics.RecordDuration(ctx, "caisse", "caisse_create", time.Since(start), status)

	return caisse, err
}

// GetByID records metrics for caisse retrieval operations.
func (d *caisseUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.Caisse, error) {
	start := time.Now()
	caisse, err := d.next.GetByID(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "caisse", "caisse_get", status)
	d.metrics.RecordDuration(ctx, "caisse", "caisse_get", time.Since(start), status)

	return caisse, err
}

// List records metrics for caisse list operations.
func (d *caisseUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Caisse, error) {
	start := time.Now()
	caisses, err := d.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "caisse", "caisse_list", status)
	d.metrics.RecordDuration(ctx, "caisse", "caisse_list", time.Since(start), status)

	return caisses, err
}
