package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
	"github.com/askeland/crewplan-api/pkg/response"
)

type insightService interface {
	Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictsResponse, error)
	Summary(ctx context.Context, weekStart string) (*models.ConflictSummary, error)
	Validate(ctx context.Context, req dto.ValidateAssignmentRequest) (*models.ValidationResult, error)
	Suggestions(ctx context.Context, query dto.SuggestionQuery) (*dto.SuggestionsResponse, error)
	Dismiss(ctx context.Context, suggestionID string) error
}

// InsightHandler exposes conflict detection and suggestion endpoints.
type InsightHandler struct {
	service insightService
}

// NewInsightHandler constructs handler.
func NewInsightHandler(svc insightService) *InsightHandler {
	return &InsightHandler{service: svc}
}

// Conflicts godoc
// @Summary List detected scheduling conflicts
// @Tags Insights
// @Produce json
// @Param assignmentId query string false "Filter by assignment"
// @Param worker query string false "Filter by worker"
// @Param severity query string false "Filter by severity"
// @Param weekStart query string false "Week start date (YYYY-MM-DD) for vacation-aware detection"
// @Success 200 {object} response.Envelope
// @Router /insights/conflicts [get]
func (h *InsightHandler) Conflicts(c *gin.Context) {
	var query dto.ConflictQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	resp, err := h.service.Conflicts(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Summary godoc
// @Summary Aggregate conflict counts and impact totals
// @Tags Insights
// @Produce json
// @Param weekStart query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /insights/summary [get]
func (h *InsightHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Query("weekStart"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Validate godoc
// @Summary Validate a proposed assignment change
// @Tags Insights
// @Accept json
// @Produce json
// @Param payload body dto.ValidateAssignmentRequest true "Proposed change"
// @Success 200 {object} response.Envelope
// @Router /insights/validate [post]
func (h *InsightHandler) Validate(c *gin.Context) {
	var req dto.ValidateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Suggestions godoc
// @Summary Ranked resolution and optimization suggestions
// @Tags Insights
// @Produce json
// @Param weekStart query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /insights/suggestions [get]
func (h *InsightHandler) Suggestions(c *gin.Context) {
	var query dto.SuggestionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	resp, err := h.service.Suggestions(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Dismiss godoc
// @Summary Dismiss a suggestion so future passes exclude it
// @Tags Insights
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 204
// @Router /insights/suggestions/{id}/dismiss [post]
func (h *InsightHandler) Dismiss(c *gin.Context) {
	if err := h.service.Dismiss(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
