package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/condoverde/recicla/api/internal/errors"
	"github.com/condoverde/recicla/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BuildingHandler handles building HTTP requests.
type BuildingHandler struct {
	service services.CatalogService
}

// NewBuildingHandler creates a new BuildingHandler instance.
func NewBuildingHandler(service services.CatalogService) *BuildingHandler {
	return &BuildingHandler{service: service}
}

// BuildingRequest is the body of building create/update requests.
type BuildingRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	UnitCount *int   `json:"unit_count" binding:"required,gte=1"`
}

// Create handles POST /api/v1/buildings.
func (h *BuildingHandler) Create(c *gin.Context) {
	var req BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	building, err := h.service.CreateBuilding(c.Request.Context(), services.BuildingInput{
		Name:      req.Name,
		Address:   req.Address,
		UnitCount: *req.UnitCount,
	})
	if err != nil {
		h.respondError(c, err, "Failed to create building")
		return
	}

	c.JSON(http.StatusCreated, building)
}

// Get handles GET /api/v1/buildings/:id.
func (h *BuildingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	building, err := h.service.GetBuilding(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to fetch building")
		return
	}

	c.JSON(http.StatusOK, building)
}

// List handles GET /api/v1/buildings.
func (h *BuildingHandler) List(c *gin.Context) {
	buildings, err := h.service.ListBuildings(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list buildings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buildings": buildings,
		"count":     len(buildings),
	})
}

// Update handles PUT /api/v1/buildings/:id.
func (h *BuildingHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	building, err := h.service.UpdateBuilding(c.Request.Context(), id, services.BuildingInput{
		Name:      req.Name,
		Address:   req.Address,
		UnitCount: *req.UnitCount,
	})
	if err != nil {
		h.respondError(c, err, "Failed to update building")
		return
	}

	c.JSON(http.StatusOK, building)
}

// Delete handles DELETE /api/v1/buildings/:id.
func (h *BuildingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBuilding(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete building")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BuildingHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrBuildingNotFound):
		apierrors.NotFound(c, "Building not found")
	case errors.Is(err, services.ErrInvalidUnitCount):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrReferencedEntity):
		apierrors.Conflict(c, "Building has collection records and cannot be deleted")
	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}
