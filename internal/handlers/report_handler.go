package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/condoverde/recicla/api/internal/errors"
	"github.com/condoverde/recicla/api/internal/middleware"
	"github.com/condoverde/recicla/api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReportHandler handles savings report HTTP requests.
type ReportHandler struct {
	service services.ReportService
}

// NewReportHandler creates a new ReportHandler instance.
func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ReportRequest is the query of GET /reports/savings. All fields are
// optional: without building_id the report falls back to the first
// configured building.
type ReportRequest struct {
	BuildingID *int64 `form:"building_id"`
	StartDate  string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// Savings handles GET /api/v1/reports/savings.
func (h *ReportHandler) Savings(c *gin.Context) {
	var req ReportRequest
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

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
		}
		if req.BuildingID != nil {
			fields["building_id"] = *req.BuildingID
		}
		log.Info("Processing savings report request", fields)
	}

	result, err := h.service.SavingsReport(c.Request.Context(), services.ReportQuery{
		BuildingID: req.BuildingID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBuildingNotFound):
			apierrors.NotFound(c, "Building not found")
		case errors.Is(err, services.ErrNoBuildings):
			apierrors.NotFound(c, "No buildings configured")
		default:
			apierrors.InternalServerError(c, "Failed to generate savings report", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
