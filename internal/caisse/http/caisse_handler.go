// Package http provides HTTP handlers for caisse registration and lookup.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teranga/caisse/internal/caisse/http/dto"
	"github.com/teranga/caisse/internal/caisse/usecase"
	"github.com/teranga/caisse/internal/httputil"

	customValidation "github.com/teranga/caisse/internal/validation"
)

// CaisseHandler handles caisse-related HTTP requests.
type CaisseHandler struct {
	caisseUseCase usecase.UseCase
	logger        *slog.Logger
}

// NewCaisseHandler creates a new CaisseHandler.
func NewCaisseHandler(caisseUseCase usecase.UseCase, logger *slog.Logger) *CaisseHandler {
	return &CaisseHandler{
		caisseUseCase: caisseUseCase,
		logger:        logger,
	}
}

// CreateHandler registers a new caisse.
// POST /v1/caisses - Requires ADMIN or AGENT role.
// Returns 201 Created with the caisse including its minted code.
func (h *CaisseHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateCaisseRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	caisse, err := h.caisseUseCase.Create(c.Request.Context(), dto.ToCreateCaisseInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCaisseToResponse(caisse))
}

// GetHandler retrieves a caisse by ID.
// GET /v1/caisses/:id - Requires authentication.
// Returns 200 OK with the caisse.
func (h *CaisseHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	caisse, err := h.caisseUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaisseToResponse(caisse))
}

// ListHandler retrieves caisses with pagination support.
// GET /v1/caisses?offset=0&limit=50 - Requires authentication.
// Returns 200 OK with a paginated caisse list.
func (h *CaisseHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	caisses, err := h.caisseUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCaissesToListResponse(caisses))
}
