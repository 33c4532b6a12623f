// Package dto provides data transfer objects for the identity HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/identity/domain"
)

// IdentityResponse represents an identity in API responses. The password hash
// and login failure bookkeeping are never exposed.
type IdentityResponse struct {
	ID            uuid.UUID      `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	PrincipalRole domain.Role    `json:"principal_role"`
	Roles         domain.RoleSet `json:"roles"`
	Status        domain.Status  `json:"status"`
	Region        string         `json:"region"`
	Department    string         `json:"department"`
	Commune       string         `json:"commune"`
	Version       int64          `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// ListIdentitiesResponse represents a paginated list of identities.
type ListIdentitiesResponse struct {
	Data []IdentityResponse `json:"data"`
}

// MapIdentityToResponse converts a domain Identity to an API response.
func MapIdentityToResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:            identity.ID,
		Code:          identity.Code,
		Name:          identity.Name,
		Email:         identity.Email,
		PrincipalRole: identity.PrincipalRole,
		Roles:         identity.Roles,
		Status:        identity.Status,
		Region:        identity.Region,
		Department:    identity.Department,
		Commune:       identity.Commune,
		Version:       identity.Version,
		CreatedAt:     identity.CreatedAt,
		UpdatedAt:     identity.UpdatedAt,
	}
}

// MapIdentitiesToListResponse converts a slice of domain identities to a list response.
func MapIdentitiesToListResponse(identities []*domain.Identity) ListIdentitiesResponse {
	data := make([]IdentityResponse, 0, len(identities))
	for _, identity := range identities {
		data = append(data, MapIdentityToResponse(identity))
	}

	return ListIdentitiesResponse{
		Data: data,
	}
}
