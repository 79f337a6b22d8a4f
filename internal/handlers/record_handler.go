package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/condoverde/recicla/api/internal/errors"
	"github.com/condoverde/recicla/api/internal/middleware"
	"github.com/condoverde/recicla/api/internal/repository"
	"github.com/condoverde/recicla/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// dateLayout is the wire format for report and filter date bounds.
const dateLayout = "2006-01-02"

// CollectionRecordHandler handles collection record HTTP requests.
type CollectionRecordHandler struct {
	service services.CollectionRecordService
}

// NewCollectionRecordHandler creates a new CollectionRecordHandler instance.
func NewCollectionRecordHandler(service services.CollectionRecordService) *CollectionRecordHandler {
	return &CollectionRecordHandler{service: service}
}

// CreateRecordRequest is the body of POST /collection-records.
// Emission figures are not accepted; they are always computed server-side.
type CreateRecordRequest struct {
	BuildingID    *int64   `json:"building" binding:"required"`
	CategoryID    *int64   `json:"waste_category" binding:"required"`
	WeightKg      *float64 `json:"weight_kg" binding:"required,gte=0"`
	DisposalCost  *float64 `json:"disposal_cost" binding:"omitempty,gte=0"`
	RecyclingCost *float64 `json:"recycling_cost" binding:"omitempty,gte=0"`
}

// UpdateRecordRequest is the body of PATCH /collection-records/:id.
// All fields are optional; absent fields are left untouched.
type UpdateRecordRequest struct {
	BuildingID    *int64   `json:"building" binding:"omitempty"`
	CategoryID    *int64   `json:"waste_category" binding:"omitempty"`
	WeightKg      *float64 `json:"weight_kg" binding:"omitempty,gte=0"`
	DisposalCost  *float64 `json:"disposal_cost" binding:"omitempty,gte=0"`
	RecyclingCost *float64 `json:"recycling_cost" binding:"omitempty,gte=0"`
}

// ListRecordsRequest is the query of GET /collection-records.
type ListRecordsRequest struct {
	BuildingID *int64 `form:"building_id"`
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// Create handles POST /api/v1/collection-records.
func (h *CollectionRecordHandler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing collection record create", map[string]interface{}{
			"building_id": *req.BuildingID,
			"category_id": *req.CategoryID,
			"weight_kg":   *req.WeightKg,
		})
	}

	rec, err := h.service.Create(c.Request.Context(), services.CreateRecordInput{
		BuildingID:    *req.BuildingID,
		CategoryID:    *req.CategoryID,
		WeightKg:      *req.WeightKg,
		DisposalCost:  req.DisposalCost,
		RecyclingCost: req.RecyclingCost,
	})
	if err != nil {
		h.respondError(c, err, "Failed to create collection record")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// Get handles GET /api/v1/collection-records/:id.
func (h *CollectionRecordHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			apierrors.NotFound(c, "Collection record not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch collection record", err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// List handles GET /api/v1/collection-records.
func (h *CollectionRecordHandler) List(c *gin.Context) {
	var req ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error(), nil)
		return
	}

	records, err := h.service.List(c.Request.Context(), repository.RecordFilter{
		BuildingID: req.BuildingID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list collection records", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}

// Update handles PATCH /api/v1/collection-records/:id.
func (h *CollectionRecordHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	rec, err := h.service.Update(c.Request.Context(), id, services.UpdateRecordInput{
		BuildingID:    req.BuildingID,
		CategoryID:    req.CategoryID,
		WeightKg:      req.WeightKg,
		DisposalCost:  req.DisposalCost,
		RecyclingCost: req.RecyclingCost,
	})
	if err != nil {
		h.respondError(c, err, "Failed to update collection record")
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /api/v1/collection-records/:id.
func (h *CollectionRecordHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			apierrors.NotFound(c, "Collection record not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to delete collection record", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps record lifecycle errors to HTTP responses.
// Missing parameters and invalid references are client errors, not faults.
func (h *CollectionRecordHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrParametersNotFound):
		apierrors.ParametersNotFound(c, err.Error())
	case errors.Is(err, services.ErrBuildingNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrInvalidWeight):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrRecordNotFound):
		apierrors.NotFound(c, "Collection record not found")
	case errors.Is(err, services.ErrDuplicateRecord):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}

// parseIDParam extracts the numeric :id path parameter, responding with
// 400 when it is malformed.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		apierrors.BadRequest(c, "Invalid ID in path", nil)
		return 0, false
	}
	return id, true
}

// parseDateRange converts optional YYYY-MM-DD bounds into timestamps.
// The end bound is inclusive of the whole day.
func parseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var start, end *time.Time

	if startStr != "" {
		t, err := time.Parse(dateLayout, startStr)
		if err != nil {
			return nil, nil, errors.New("start_date must be a date in format YYYY-MM-DD")
		}
		start = &t
	}
	if endStr != "" {
		t, err := time.Parse(dateLayout, endStr)
		if err != nil {
			return nil, nil, errors.New("end_date must be a date in format YYYY-MM-DD")
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, errors.New("end_date must not be before start_date")
	}

	return start, end, nil
}
