package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
	"github.com/noah-isme/sma-substitute-api/pkg/response"
)

type urgencyService interface {
	AbsenceUrgency(ctx context.Context, absenceID string) (*dto.AbsenceUrgency, error)
	List(ctx context.Context, query dto.UrgencyListQuery) ([]dto.AbsenceUrgency, error)
	Export(ctx context.Context, query dto.UrgencyExportQuery) (*dto.ExportedFile, error)
}

// UrgencyHandler exposes replacement urgency endpoints.
type UrgencyHandler struct {
	service urgencyService
}

// NewUrgencyHandler constructs an UrgencyHandler.
func NewUrgencyHandler(service urgencyService) *UrgencyHandler {
	return &UrgencyHandler{service: service}
}

// Get godoc
// @Summary Urgency of one absence
// @Tags Urgency
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Router /absences/{id}/urgency [get]
func (h *UrgencyHandler) Get(c *gin.Context) {
	resp, err := h.service.AbsenceUrgency(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// List godoc
// @Summary Collaborator absences ordered by urgency
// @Tags Urgency
// @Produce json
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end (YYYY-MM-DD)"
// @Param school_id query string false "School filter"
// @Success 200 {object} response.Envelope
// @Router /absences/urgency [get]
func (h *UrgencyHandler) List(c *gin.Context) {
	var query dto.UrgencyListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	items, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}

// Export godoc
// @Summary Export the urgency list
// @Tags Urgency
// @Produce text/csv
// @Produce application/pdf
// @Param from query string true "Window start (YYYY-MM-DD)"
// @Param to query string true "Window end (YYYY-MM-DD)"
// @Param school_id query string false "School filter"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /absences/urgency/export [get]
func (h *UrgencyHandler) Export(c *gin.Context) {
	var query dto.UrgencyExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}
