package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
)

type workerRepository interface {
	List(ctx context.Context) ([]models.Worker, error)
	FindByID(ctx context.Context, id string) (*models.Worker, error)
	FindByName(ctx context.Context, name string) (*models.Worker, error)
	Create(ctx context.Context, worker *models.Worker) error
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id string) error
}

type insightInvalidator interface {
	Invalidate(ctx context.Context)
}

// WorkerService manages the cleaner roster.
type WorkerService struct {
	repo      workerRepository
	insights  insightInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkerService instantiates WorkerService.
func NewWorkerService(repo workerRepository, insights insightInvalidator, validate *validator.Validate, logger *zap.Logger) *WorkerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerService{repo: repo, insights: insights, validator: validate, logger: logger}
}

// List returns the full roster.
func (s *WorkerService) List(ctx context.Context) ([]models.Worker, error) {
	workers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workers")
	}
	return workers, nil
}

// Create adds a roster entry. Names must be unique since assignments
// reference workers by name.
func (s *WorkerService) Create(ctx context.Context, req dto.CreateWorkerRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}

	name := strings.TrimSpace(req.Name)
	if existing, err := s.repo.FindByName(ctx, name); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "worker name already registered")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check worker name")
	}

	worker := models.Worker{
		Name:      name,
		Clearance: models.ParseClearance(req.Clearance),
		Active:    true,
	}
	if req.Active != nil {
		worker.Active = *req.Active
	}

	if err := s.repo.Create(ctx, &worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create worker")
	}
	s.invalidate(ctx)
	return &worker, nil
}

// Update modifies a roster entry.
func (s *WorkerService) Update(ctx context.Context, id string, req dto.UpdateWorkerRequest) (*models.Worker, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}

	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "worker not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}

	if req.Name != nil {
		worker.Name = strings.TrimSpace(*req.Name)
	}
	if req.Clearance != nil {
		worker.Clearance = models.ParseClearance(*req.Clearance)
	}
	if req.Active != nil {
		worker.Active = *req.Active
	}

	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update worker")
	}
	s.invalidate(ctx)
	return worker, nil
}

// Delete removes a roster entry.
func (s *WorkerService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "worker not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete worker")
	}
	s.invalidate(ctx)
	return nil
}

func (s *WorkerService) invalidate(ctx context.Context) {
	if s.insights != nil {
		s.insights.Invalidate(ctx)
	}
}
