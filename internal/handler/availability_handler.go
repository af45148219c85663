package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/models"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
	"github.com/noah-isme/sma-substitute-api/pkg/response"
)

type availabilityService interface {
	Calendar(ctx context.Context, substituteID string, query dto.CalendarQuery) (*dto.CalendarResponse, error)
	CreatePeriod(ctx context.Context, substituteID string, req dto.CreatePeriodRequest) (*models.AvailabilityPeriod, error)
	SetOverride(ctx context.Context, substituteID string, req dto.SetOverrideRequest) (*models.SpecificAvailability, error)
}

// AvailabilityHandler exposes substitute availability endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Calendar godoc
// @Summary Resolved availability grid of a substitute
// @Tags Availability
// @Produce json
// @Param id path string true "Substitute ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /substitutes/{id}/calendar [get]
func (h *AvailabilityHandler) Calendar(c *gin.Context) {
	var query dto.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	resp, err := h.service.Calendar(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// CreatePeriod godoc
// @Summary Declare a recurring availability period
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Substitute ID"
// @Param payload body dto.CreatePeriodRequest true "Period payload"
// @Success 201 {object} response.Envelope
// @Router /substitutes/{id}/periods [post]
func (h *AvailabilityHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload"))
		return
	}
	period, err := h.service.CreatePeriod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// SetOverride godoc
// @Summary Set a date-specific availability override
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Substitute ID"
// @Param payload body dto.SetOverrideRequest true "Override payload"
// @Success 200 {object} response.Envelope
// @Router /substitutes/{id}/overrides [put]
func (h *AvailabilityHandler) SetOverride(c *gin.Context) {
	var req dto.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload"))
		return
	}
	override, err := h.service.SetOverride(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, override)
}
