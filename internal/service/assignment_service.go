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

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	ListAll(ctx context.Context) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

type changeValidator interface {
	Validate(ctx context.Context, req dto.ValidateAssignmentRequest) (*models.ValidationResult, error)
	Invalidate(ctx context.Context)
}

// AssignmentService coordinates schedule writes with conflict validation.
// Blocking conflicts reject the write unless the caller forces it through.
type AssignmentService struct {
	repo      assignmentRepository
	insights  changeValidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService instantiates AssignmentService.
func NewAssignmentService(repo assignmentRepository, insights changeValidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, insights: insights, validator: validate, logger: logger}
}

// List returns assignments with pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return assignments, pagination, nil
}

// Get loads a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Create inserts a new assignment after the conflict gate.
func (s *AssignmentService) Create(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, *models.ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	day := models.NormalizeDay(req.DayOfWeek)
	if day == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be a weekday name")
	}

	assignment := models.Assignment{
		DayOfWeek:  day,
		ClientName: strings.TrimSpace(req.ClientName),
		SiteName:   strings.TrimSpace(req.SiteName),
		Workers:    req.Workers,
		Hours:      req.Hours,
		StartTime:  req.StartTime,
		Status:     models.AssignmentStatusScheduled,
		Recurring:  req.Recurring,
		Notes:      req.Notes,
	}

	result, err := s.gate(ctx, assignmentToPatch(assignment), "", req.Force)
	if err != nil {
		return nil, result, err
	}

	if err := s.repo.Create(ctx, &assignment); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.insights.Invalidate(ctx)
	return &assignment, result, nil
}

// Update applies a partial edit after the conflict gate.
func (s *AssignmentService) Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, *models.ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	patch := req.Patch()
	if patch.DayOfWeek != nil {
		day := models.NormalizeDay(*patch.DayOfWeek)
		if day == "" {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "dayOfWeek must be a weekday name")
		}
		patch.DayOfWeek = &day
	}

	result, err := s.gate(ctx, patch, id, req.Force)
	if err != nil {
		return nil, result, err
	}

	updated := patch.ApplyTo(*existing)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	s.insights.Invalidate(ctx)
	return &updated, result, nil
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.insights.Invalidate(ctx)
	return nil
}

func (s *AssignmentService) gate(ctx context.Context, patch models.AssignmentPatch, existingID string, force bool) (*models.ValidationResult, error) {
	result, err := s.insights.Validate(ctx, validateRequest(patch, existingID))
	if err != nil {
		return nil, err
	}
	if !result.CanProceed && !force {
		return result, appErrors.Clone(appErrors.ErrConflict, "change introduces blocking conflicts")
	}
	if !result.CanProceed && force {
		s.logger.Sugar().Warnw("blocking conflicts overridden", "assignment_id", existingID, "conflicts", len(result.Conflicts))
	}
	return result, nil
}

func validateRequest(patch models.AssignmentPatch, existingID string) dto.ValidateAssignmentRequest {
	change := dto.UpdateAssignmentRequest{
		DayOfWeek:  patch.DayOfWeek,
		ClientName: patch.ClientName,
		SiteName:   patch.SiteName,
		Workers:    patch.Workers,
		Hours:      patch.Hours,
		StartTime:  patch.StartTime,
		Recurring:  patch.Recurring,
		Notes:      patch.Notes,
	}
	if patch.Status != nil {
		status := string(*patch.Status)
		change.Status = &status
	}
	return dto.ValidateAssignmentRequest{AssignmentID: existingID, Change: change}
}

func assignmentToPatch(a models.Assignment) models.AssignmentPatch {
	workers := []string(a.Workers)
	status := a.Status
	return models.AssignmentPatch{
		DayOfWeek:  &a.DayOfWeek,
		ClientName: &a.ClientName,
		SiteName:   &a.SiteName,
		Workers:    &workers,
		Hours:      &a.Hours,
		StartTime:  &a.StartTime,
		Status:     &status,
		Recurring:  &a.Recurring,
		Notes:      &a.Notes,
	}
}
