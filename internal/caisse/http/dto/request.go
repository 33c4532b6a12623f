// Package dto provides data transfer objects for the caisse HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/teranga/caisse/internal/caisse/usecase"

	appValidation "github.com/teranga/caisse/internal/validation"
)

// CreateCaisseRequest represents the API request for caisse registration.
type CreateCaisseRequest struct {
	Name       string `json:"name"`
	Region     string `json:"region"`
	Department string `json:"department"`
	Commune    string `json:"commune"`
}

// Validate validates the CreateCaisseRequest using the jellydator/validation library.
func (r *CreateCaisseRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Region,
			validation.Required.Error("region is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Department,
			validation.Required.Error("department is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}

// ToCreateCaisseInput converts a CreateCaisseRequest DTO to a use case input.
func ToCreateCaisseInput(req CreateCaisseRequest) usecase.CreateCaisseInput {
	return usecase.CreateCaisseInput{
		Name:       req.Name,
		Region:     req.Region,
		Department: req.Department,
		Commune:    req.Commune,
	}
}
