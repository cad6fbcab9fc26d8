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

type vacationService interface {
	List(ctx context.Context, worker, weekStart string) ([]models.Vacation, error)
	Create(ctx context.Context, req dto.CreateVacationRequest) (*models.Vacation, error)
	Delete(ctx context.Context, id string) error
}

// VacationHandler manages leave window endpoints.
type VacationHandler struct {
	service vacationService
}

// NewVacationHandler constructs handler.
func NewVacationHandler(svc vacationService) *VacationHandler {
	return &VacationHandler{service: svc}
}

// List godoc
// @Summary List leave windows
// @Tags Vacations
// @Produce json
// @Param worker query string false "Filter by worker name"
// @Param weekStart query string false "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /vacations [get]
func (h *VacationHandler) List(c *gin.Context) {
	vacations, err := h.service.List(c.Request.Context(), c.Query("worker"), c.Query("weekStart"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacations, nil)
}

// Create godoc
// @Summary Record a leave window
// @Tags Vacations
// @Accept json
// @Produce json
// @Param payload body dto.CreateVacationRequest true "Vacation payload"
// @Success 201 {object} response.Envelope
// @Router /vacations [post]
func (h *VacationHandler) Create(c *gin.Context) {
	var req dto.CreateVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	vacation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacation)
}

// Delete godoc
// @Summary Remove a leave window
// @Tags Vacations
// @Produce json
// @Param id path string true "Vacation ID"
// @Success 204
// @Router /vacations/{id} [delete]
func (h *VacationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
