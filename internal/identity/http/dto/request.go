// Package dto provides data transfer objects for the identity HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/teranga/caisse/internal/identity/usecase"

	appValidation "github.com/teranga/caisse/internal/validation"
)

// CreateIdentityRequest represents the API request for identity enrollment.
// Scope names the savings group the seed grant references; it is required
// when principal_role is MAKER and optional otherwise.
type CreateIdentityRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PrincipalRole string `json:"principal_role"`
	Scope         string `json:"scope"`
	Region        string `json:"region"`
	Department    string `json:"department"`
	Commune       string `json:"commune"`
}

// Validate validates the CreateIdentityRequest using the jellydator/validation library.
func (r *CreateIdentityRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&r.Password,
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
		validation.Field(&r.PrincipalRole,
			validation.Required.Error("principal_role is required"),
			validation.In("ADMIN", "AGENT", "SUPERVISOR", "MAKER", "MEMBER").
				Error("principal_role must be one of ADMIN, AGENT, SUPERVISOR, MAKER, MEMBER"),
		),
		validation.Field(&r.Scope,
			validation.When(r.PrincipalRole == "MAKER",
				validation.Required.Error("scope is required when principal_role is MAKER"),
				appValidation.NotBlank,
			),
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

// ToCreateIdentityInput converts a CreateIdentityRequest DTO to a use case input.
func ToCreateIdentityInput(req CreateIdentityRequest) usecase.CreateIdentityInput {
	return usecase.CreateIdentityInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		PrincipalRole: req.PrincipalRole,
		Scope:         req.Scope,
		Region:        req.Region,
		Department:    req.Department,
		Commune:       req.Commune,
	}
}

// ChangeRoleRequest represents the API request for a role mutation.
type ChangeRoleRequest struct {
	Op    string `json:"op"`
	Role  string `json:"role"`
	Scope string `json:"scope"`
}

// Validate validates the ChangeRoleRequest.
func (r *ChangeRoleRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Op,
			validation.Required.Error("op is required"),
			validation.In("grant", "revoke").Error("op must be grant or revoke"),
		),
		validation.Field(&r.Role,
			validation.Required.Error("role is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ToChangeRoleInput converts a ChangeRoleRequest DTO to a use case input.
func ToChangeRoleInput(req ChangeRoleRequest) usecase.ChangeRoleInput {
	return usecase.ChangeRoleInput{
		Op:    usecase.RoleOp(req.Op),
		Role:  req.Role,
		Scope: req.Scope,
	}
}
