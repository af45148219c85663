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

type policyService interface {
	UpdateDeadline(ctx context.Context, schoolID string, req dto.UpdateDeadlineRequest) (*models.School, error)
}

// SchoolHandler exposes school policy endpoints.
type SchoolHandler struct {
	service policyService
}

// NewSchoolHandler constructs a SchoolHandler.
func NewSchoolHandler(service policyService) *SchoolHandler {
	return &SchoolHandler{service: service}
}

// UpdateDeadline godoc
// @Summary Set or clear a school's replacement deadline
// @Tags Schools
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body dto.UpdateDeadlineRequest true "Deadline payload"
// @Success 200 {object} response.Envelope
// @Router /schools/{id}/deadline [put]
func (h *SchoolHandler) UpdateDeadline(c *gin.Context) {
	var req dto.UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid deadline payload"))
		return
	}
	school, err := h.service.UpdateDeadline(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, school)
}
