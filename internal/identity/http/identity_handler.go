// Package http provides HTTP handlers for identity enrollment and
// role management operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/httputil"
	"github.com/teranga/caisse/internal/identity/http/dto"
	"github.com/teranga/caisse/internal/identity/usecase"

	customValidation "github.com/teranga/caisse/internal/validation"
)

// IdentityHandler handles identity-related HTTP requests.
type IdentityHandler struct {
	identityUseCase usecase.UseCase
	logger          *slog.Logger
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(identityUseCase usecase.UseCase, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{
		identityUseCase: identityUseCase,
		logger:          logger,
	}
}

// CreateHandler enrolls a new identity.
// POST /v1/identities - Requires ADMIN or AGENT role.
// Returns 201 Created with the identity including its minted code.
func (h *IdentityHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateIdentityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identity, err := h.identityUseCase.Create(c.Request.Context(), dto.ToCreateIdentityInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIdentityToResponse(identity))
}

// GetHandler retrieves an identity by ID.
// GET /v1/identities/:id - Requires authentication.
// Returns 200 OK with the identity.
func (h *IdentityHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	identity, err := h.identityUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
}

// ListHandler retrieves identities with pagination support.
// GET /v1/identities?offset=0&limit=50 - Requires ADMIN, AGENT or SUPERVISOR role.
// Returns 200 OK with a paginated identity list.
func (h *IdentityHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	identities, err := h.identityUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentitiesToListResponse(identities))
}

// ChangeRoleHandler applies a role grant or revoke to an identity.
// PATCH /v1/identities/:id/roles - Requires ADMIN role.
// Returns 200 OK with the updated identity, or 400 with the violation code
// when the mutation would break a role invariant.
func (h *IdentityHandler) ChangeRoleHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.ChangeRoleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identity, err := h.identityUseCase.ChangeRole(c.Request.Context(), id, dto.ToChangeRoleInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIdentityToResponse(identity))
}

// DeleteHandler removes an identity.
// DELETE /v1/identities/:id - Requires ADMIN role.
// Returns 204 No Content.
func (h *IdentityHandler) DeleteHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.identityUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
