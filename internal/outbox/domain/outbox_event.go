// Package domain defines the transactional outbox event entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the status of an outbox event
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// OutboxEvent is a side effect recorded in the same transaction as the
// domain write that caused it. A background worker delivers pending events
// after commit, so notification failures never roll back enrollments.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MarkProcessed transitions the event to processed with the current time.
func (e *OutboxEvent) MarkProcessed() {
	now := time.Now()
	e.Status = OutboxEventStatusProcessed
	e.ProcessedAt = &now
}

// MarkFailure records a delivery failure. The event moves to failed once the
// retry budget is exhausted, otherwise it stays pending for the next pass.
func (e *OutboxEvent) MarkFailure(err error, maxRetries int) {
	e.Retries++
	msg := err.Error()
	e.LastError = &msg
	if e.Retries >= maxRetries {
		e.Status = OutboxEventStatusFailed
	}
}
