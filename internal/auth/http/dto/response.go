package dto

import (
	"github.com/google/uuid"

	authUseCase "github.com/teranga/caisse/internal/auth/usecase"
	identityDomain "github.com/teranga/caisse/internal/identity/domain"
)

// AuthenticatedIdentityResponse projects the identity the tokens were minted
// from: the principal role, the role-set snapshot embedded in the access
// token and the account status. Password material and login bookkeeping are
// never exposed.
type AuthenticatedIdentityResponse struct {
	ID            uuid.UUID              `json:"id"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	PrincipalRole identityDomain.Role    `json:"principal_role"`
	Roles         identityDomain.RoleSet `json:"roles"`
	Status        identityDomain.Status  `json:"status"`
}

// TokenPairResponse carries the token pair returned by login and refresh,
// together with the identity the caller authenticated as.
type TokenPairResponse struct {
	AccessToken  string                        `json:"access_token"`
	RefreshToken string                        `json:"refresh_token"`
	TokenType    string                        `json:"token_type"`
	Identity     AuthenticatedIdentityResponse `json:"identity"`
}

// MapLoginOutputToResponse converts a login or refresh result to the API
// response.
func MapLoginOutputToResponse(output *authUseCase.LoginOutput) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  output.Tokens.AccessToken,
		RefreshToken: output.Tokens.RefreshToken,
		TokenType:    "bearer",
		Identity: AuthenticatedIdentityResponse{
			ID:            output.Identity.ID,
			Code:          output.Identity.Code,
			Name:          output.Identity.Name,
			Email:         output.Identity.Email,
			PrincipalRole: output.Identity.PrincipalRole,
			Roles:         output.Identity.Roles,
			Status:        output.Identity.Status,
		},
	}
}
