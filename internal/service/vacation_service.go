package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
)

type vacationRepository interface {
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Vacation, error)
	ListByWorker(ctx context.Context, worker string) ([]models.Vacation, error)
	FindByID(ctx context.Context, id string) (*models.Vacation, error)
	Create(ctx context.Context, vacation *models.Vacation) error
	Delete(ctx context.Context, id string) error
}

// VacationService manages worker leave windows.
type VacationService struct {
	repo      vacationRepository
	insights  insightInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVacationService instantiates VacationService.
func NewVacationService(repo vacationRepository, insights insightInvalidator, validate *validator.Validate, logger *zap.Logger) *VacationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacationService{repo: repo, insights: insights, validator: validate, logger: logger}
}

// List returns leave windows intersecting the week starting at weekStart,
// or all windows for a worker when a name is given.
func (s *VacationService) List(ctx context.Context, worker, weekStart string) ([]models.Vacation, error) {
	if worker != "" {
		vacations, err := s.repo.ListByWorker(ctx, worker)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacations")
		}
		return vacations, nil
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if weekStart != "" {
		parsed, err := time.Parse("2006-01-02", weekStart)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "weekStart must be formatted YYYY-MM-DD")
		}
		start = parsed
	}

	vacations, err := s.repo.ListOverlapping(ctx, start, start.AddDate(0, 0, 6))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacations")
	}
	return vacations, nil
}

// Lookup returns the leave window covering the worker on the given date,
// or nil when the worker is available.
func (s *VacationService) Lookup(ctx context.Context, worker string, date time.Time) (*models.Vacation, error) {
	worker = strings.TrimSpace(worker)
	if worker == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "worker is required")
	}
	vacations, err := s.repo.ListByWorker(ctx, worker)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacations")
	}
	for i := range vacations {
		if vacations[i].Covers(date) {
			return &vacations[i], nil
		}
	}
	return nil, nil
}

// Create stores a new leave window.
func (s *VacationService) Create(ctx context.Context, req dto.CreateVacationRequest) (*models.Vacation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation payload")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be formatted YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}

	vacation := models.Vacation{
		WorkerName: strings.TrimSpace(req.WorkerName),
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	}
	if err := s.repo.Create(ctx, &vacation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vacation")
	}
	s.invalidate(ctx)
	return &vacation, nil
}

// Delete removes a leave window.
func (s *VacationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "vacation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vacation")
	}
	s.invalidate(ctx)
	return nil
}

func (s *VacationService) invalidate(ctx context.Context) {
	if s.insights != nil {
		s.insights.Invalidate(ctx)
	}
}
