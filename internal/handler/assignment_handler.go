package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
	"github.com/askeland/crewplan-api/pkg/response"
)

type assignmentService interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, *models.ValidationResult, error)
	Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, *models.ValidationResult, error)
	Delete(ctx context.Context, id string) error
}

// AssignmentHandler manages weekly assignment endpoints.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(svc assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param dayOfWeek query string false "Filter by day"
// @Param client query string false "Filter by client name"
// @Param worker query string false "Filter by worker name"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	var filter models.AssignmentFilter
	filter.DayOfWeek = strings.ToUpper(c.Query("dayOfWeek"))
	filter.ClientName = c.Query("client")
	filter.Worker = c.Query("worker")
	filter.Status = c.Query("status")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	assignments, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Get godoc
// @Summary Get a single assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Create godoc
// @Summary Create assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, validation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondGateError(c, err, validation)
		return
	}
	response.Created(c, gin.H{"assignment": assignment, "validation": validation})
}

// Update godoc
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.UpdateAssignmentRequest true "Partial assignment payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [patch]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, validation, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondGateError(c, err, validation)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"assignment": assignment, "validation": validation}, nil)
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// respondGateError includes the validation verdict alongside conflict
// rejections so clients can show what blocked the write.
func respondGateError(c *gin.Context, err error, validation *models.ValidationResult) {
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrConflict.Code && validation != nil {
		c.Header("Cache-Control", "no-store")
		c.JSON(appErr.Status, response.Envelope{
			Error: appErr,
			Meta:  map[string]interface{}{"validation": validation},
		})
		return
	}
	response.Error(c, err)
}
