package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-substitute-api/internal/dto"
	"github.com/noah-isme/sma-substitute-api/internal/engine"
	appErrors "github.com/noah-isme/sma-substitute-api/pkg/errors"
	"github.com/noah-isme/sma-substitute-api/pkg/response"
)

type coverageService interface {
	Coverage(ctx context.Context, absenceID string) (*dto.CoverageResponse, error)
	Candidates(ctx context.Context, absenceID string) (*dto.CandidatesResponse, error)
	SyncReplaced(ctx context.Context, absenceID string) (*dto.SyncResponse, error)
	Preview(start, end time.Time) *dto.PreviewResponse
}

// CoverageHandler exposes absence coverage and candidate ranking endpoints.
type CoverageHandler struct {
	service coverageService
}

// NewCoverageHandler constructs a CoverageHandler.
func NewCoverageHandler(service coverageService) *CoverageHandler {
	return &CoverageHandler{service: service}
}

// Coverage godoc
// @Summary Coverage slots of an absence
// @Tags Coverage
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /absences/{id}/coverage [get]
func (h *CoverageHandler) Coverage(c *gin.Context) {
	resp, err := h.service.Coverage(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Candidates godoc
// @Summary Rank substitutes for the open slots of an absence
// @Tags Coverage
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /absences/{id}/candidates [get]
func (h *CoverageHandler) Candidates(c *gin.Context) {
	resp, err := h.service.Candidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, map[string]interface{}{"total": len(resp.Candidates)})
}

// Sync godoc
// @Summary Recompute the replaced flag of an absence
// @Tags Coverage
// @Produce json
// @Param id path string true "Absence ID"
// @Success 200 {object} response.Envelope
// @Router /absences/{id}/sync [post]
func (h *CoverageHandler) Sync(c *gin.Context) {
	resp, err := h.service.SyncReplaced(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Preview godoc
// @Summary Weekdays touched by a date range
// @Tags Coverage
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /absences/preview [get]
func (h *CoverageHandler) Preview(c *gin.Context) {
	start, err := engine.ParseDate(c.Query("start"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRange.Code, appErrors.ErrInvalidRange.Status, "start must be YYYY-MM-DD"))
		return
	}
	end, err := engine.ParseDate(c.Query("end"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRange.Code, appErrors.ErrInvalidRange.Status, "end must be YYYY-MM-DD"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Preview(start, end))
}
