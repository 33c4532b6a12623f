// Package dto provides data transfer objects for the caisse HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/caisse/domain"
)

// CaisseResponse represents a caisse in API responses.
type CaisseResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Region     string    `json:"region"`
	Department string    `json:"department"`
	Commune    string    `json:"commune"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListCaissesResponse represents a paginated list of caisses.
type ListCaissesResponse struct {
	Data []CaisseResponse `json:"data"`
}

// MapCaisseToResponse converts a domain Caisse to an API response.
func MapCaisseToResponse(caisse *domain.Caisse) CaisseResponse {
	return CaisseResponse{
		ID:         caisse.ID,
		Code:       caisse.Code,
		Name:       caisse.Name,
		Region:     caisse.Region,
		Department: caisse.Department,
		Commune:    caisse.Commune,
		CreatedAt:  caisse.CreatedAt,
		UpdatedAt:  caisse.UpdatedAt,
	}
}

// MapCaissesToListResponse converts a slice of domain caisses to a list response.
func MapCaissesToListResponse(caisses []*domain.Caisse) ListCaissesResponse {
	data := make([]CaisseResponse, 0, len(caisses))
	for _, caisse := range caisses {
		data = append(data, MapCaisseToResponse(caisse))
	}

	return ListCaissesResponse{
		Data: data,
	}
}
