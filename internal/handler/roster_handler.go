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

type workerService interface {
	List(ctx context.Context) ([]models.Worker, error)
	Create(ctx context.Context, req dto.CreateWorkerRequest) (*models.Worker, error)
	Update(ctx context.Context, id string, req dto.UpdateWorkerRequest) (*models.Worker, error)
	Delete(ctx context.Context, id string) error
}

type siteService interface {
	List(ctx context.Context) ([]models.Site, error)
	Upsert(ctx context.Context, req dto.UpsertSiteRequest) (*models.Site, error)
	Delete(ctx context.Context, id string) error
}

// RosterHandler manages worker and site registry endpoints.
type RosterHandler struct {
	workers workerService
	sites   siteService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(workers workerService, sites siteService) *RosterHandler {
	return &RosterHandler{workers: workers, sites: sites}
}

// ListWorkers godoc
// @Summary List the cleaner roster
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workers [get]
func (h *RosterHandler) ListWorkers(c *gin.Context) {
	workers, err := h.workers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workers, nil)
}

// CreateWorker godoc
// @Summary Add a roster entry
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Router /workers [post]
func (h *RosterHandler) CreateWorker(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	worker, err := h.workers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// UpdateWorker godoc
// @Summary Update a roster entry
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param payload body dto.UpdateWorkerRequest true "Partial worker payload"
// @Success 200 {object} response.Envelope
// @Router /workers/{id} [patch]
func (h *RosterHandler) UpdateWorker(c *gin.Context) {
	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	worker, err := h.workers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker, nil)
}

// DeleteWorker godoc
// @Summary Remove a roster entry
// @Tags Roster
// @Produce json
// @Param id path string true "Worker ID"
// @Success 204
// @Router /workers/{id} [delete]
func (h *RosterHandler) DeleteWorker(c *gin.Context) {
	if err := h.workers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSites godoc
// @Summary List the site security registry
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sites [get]
func (h *RosterHandler) ListSites(c *gin.Context) {
	sites, err := h.sites.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sites, nil)
}

// UpsertSite godoc
// @Summary Register a site or refresh its clearance requirement
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.UpsertSiteRequest true "Site payload"
// @Success 200 {object} response.Envelope
// @Router /sites [put]
func (h *RosterHandler) UpsertSite(c *gin.Context) {
	var req dto.UpsertSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	site, err := h.sites.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, site, nil)
}

// DeleteSite godoc
// @Summary Remove a site registry entry
// @Tags Roster
// @Produce json
// @Param id path string true "Site ID"
// @Success 204
// @Router /sites/{id} [delete]
func (h *RosterHandler) DeleteSite(c *gin.Context) {
	if err := h.sites.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
