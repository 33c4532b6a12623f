// Package domain contains the caisse model. A caisse is a village savings
// group that members and makers are attached to.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Caisse represents a savings group anchored to a geographic scope. Code is
// the human-readable identifier minted at creation, such as CLS-1-101-PLA-001.
type Caisse struct {
	ID         uuid.UUID
	Code       string
	Name       string
	Region     string
	Department string
	Commune    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
