package usecase

import (
	"context"
	"time"

	"github.com/teranga/caisse/internal/metrics"
)

// authUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (d *authUseCaseWithMetrics) Login(ctx context.Context, email, password string) (*LoginOutput, error) {
	start := time.Now()
	output, err := d.next.Login(ctx, email, password)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "auth", "login", status)
	d.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return output, err
}

// Refresh records metrics for token refresh operations.
func (d *authUseCaseWithMetrics) Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	start := time.Now()
	output, err := d.next.Refresh(ctx, refreshToken)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "auth", "token_refresh", status)
	d.metrics.RecordDuration(ctx, "auth", "token_refresh", time.Since(start), status)

	return output, err
}
