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

type siteRepository interface {
	List(ctx context.Context) ([]models.Site, error)
	FindByID(ctx context.Context, id string) (*models.Site, error)
	FindByKey(ctx context.Context, key models.SiteKey) (*models.Site, error)
	Create(ctx context.Context, site *models.Site) error
	Update(ctx context.Context, site *models.Site) error
	Delete(ctx context.Context, id string) error
}

// SiteService manages the site security registry.
type SiteService struct {
	repo      siteRepository
	insights  insightInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSiteService instantiates SiteService.
func NewSiteService(repo siteRepository, insights insightInvalidator, validate *validator.Validate, logger *zap.Logger) *SiteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteService{repo: repo, insights: insights, validator: validate, logger: logger}
}

// List returns every registered site.
func (s *SiteService) List(ctx context.Context) ([]models.Site, error) {
	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sites")
	}
	return sites, nil
}

// Upsert registers a site or refreshes its clearance requirement.
func (s *SiteService) Upsert(ctx context.Context, req dto.UpsertSiteRequest) (*models.Site, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid site payload")
	}

	key := models.SiteKey{
		ClientName: strings.TrimSpace(req.ClientName),
		SiteName:   strings.TrimSpace(req.SiteName),
	}
	required := models.ParseClearance(req.RequiredClearance)

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site")
	}

	if existing != nil {
		existing.RequiredClearance = required
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update site")
		}
		s.invalidate(ctx)
		return existing, nil
	}

	site := models.Site{
		ClientName:        key.ClientName,
		SiteName:          key.SiteName,
		RequiredClearance: required,
	}
	if err := s.repo.Create(ctx, &site); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create site")
	}
	s.invalidate(ctx)
	return &site, nil
}

// Delete removes a registry entry.
func (s *SiteService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "site not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete site")
	}
	s.invalidate(ctx)
	return nil
}

func (s *SiteService) invalidate(ctx context.Context) {
	if s.insights != nil {
		s.insights.Invalidate(ctx)
	}
}
