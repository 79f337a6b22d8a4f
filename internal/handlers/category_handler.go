package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/condoverde/recicla/api/internal/errors"
	"github.com/condoverde/recicla/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// WasteCategoryHandler handles waste category and calculation parameter
// HTTP requests.
type WasteCategoryHandler struct {
	service services.CatalogService
}

// NewWasteCategoryHandler creates a new WasteCategoryHandler instance.
func NewWasteCategoryHandler(service services.CatalogService) *WasteCategoryHandler {
	return &WasteCategoryHandler{service: service}
}

// CategoryRequest is the body of category create/update requests.
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description" binding:"omitempty"`
}

// ParametersRequest is the body of PUT /waste-categories/:id/parameters.
type ParametersRequest struct {
	EmissionFactor      *float64 `json:"emission_factor" binding:"required,gte=0"`
	RecyclingEfficiency *float64 `json:"recycling_efficiency" binding:"required,gte=0,lte=100"`
}

// Create handles POST /api/v1/waste-categories.
func (h *WasteCategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err, "Failed to create waste category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Get handles GET /api/v1/waste-categories/:id.
func (h *WasteCategoryHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to fetch waste category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// List handles GET /api/v1/waste-categories.
func (h *WasteCategoryHandler) List(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list waste categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// Update handles PUT /api/v1/waste-categories/:id.
func (h *WasteCategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), id, services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err, "Failed to update waste category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// Delete handles DELETE /api/v1/waste-categories/:id.
func (h *WasteCategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete waste category")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetParameters handles GET /api/v1/waste-categories/:id/parameters.
func (h *WasteCategoryHandler) GetParameters(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	params, err := h.service.GetParameters(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrParametersNotFound) {
			apierrors.NotFound(c, "No calculation parameters configured for this waste category")
			return
		}
		h.respondError(c, err, "Failed to fetch calculation parameters")
		return
	}

	c.JSON(http.StatusOK, params)
}

// PutParameters handles PUT /api/v1/waste-categories/:id/parameters.
func (h *WasteCategoryHandler) PutParameters(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	params, err := h.service.PutParameters(c.Request.Context(), id, services.ParametersInput{
		EmissionFactor:      *req.EmissionFactor,
		RecyclingEfficiency: *req.RecyclingEfficiency,
	})
	if err != nil {
		h.respondError(c, err, "Failed to store calculation parameters")
		return
	}

	c.JSON(http.StatusOK, params)
}

func (h *WasteCategoryHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Waste category not found")
	case errors.Is(err, services.ErrDuplicateCategory):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidEmissionFactor),
		errors.Is(err, services.ErrInvalidEfficiency):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrReferencedEntity):
		apierrors.Conflict(c, "Waste category has collection records and cannot be deleted")
	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}
