package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/askeland/crewplan-api/internal/models"
)

// SiteRepository provides persistence for the site security registry.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository creates a new site repository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// List returns registered sites ordered by client then site name.
func (r *SiteRepository) List(ctx context.Context) ([]models.Site, error) {
	const query = `SELECT id, client_name, site_name, required_clearance, created_at, updated_at FROM sites ORDER BY client_name ASC, site_name ASC`
	var sites []models.Site
	if err := r.db.SelectContext(ctx, &sites, query); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// FindByID loads a site by id.
func (r *SiteRepository) FindByID(ctx context.Context, id string) (*models.Site, error) {
	const query = `SELECT id, client_name, site_name, required_clearance, created_at, updated_at FROM sites WHERE id = $1`
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, id); err != nil {
		return nil, err
	}
	return &site, nil
}

// FindByKey loads a site by its (client, site) name pair.
func (r *SiteRepository) FindByKey(ctx context.Context, key models.SiteKey) (*models.Site, error) {
	const query = `SELECT id, client_name, site_name, required_clearance, created_at, updated_at FROM sites WHERE client_name = $1 AND site_name = $2`
	var site models.Site
	if err := r.db.GetContext(ctx, &site, query, key.ClientName, key.SiteName); err != nil {
		return nil, err
	}
	return &site, nil
}

// Create stores a new registry entry.
func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if site.CreatedAt.IsZero() {
		site.CreatedAt = now
	}
	site.UpdatedAt = now

	const query = `INSERT INTO sites (id, client_name, site_name, required_clearance, created_at, updated_at) VALUES (:id, :client_name, :site_name, :required_clearance, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, site); err != nil {
		return fmt.Errorf("create site: %w", err)
	}
	return nil
}

// Update modifies a registry entry.
func (r *SiteRepository) Update(ctx context.Context, site *models.Site) error {
	site.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sites SET client_name = :client_name, site_name = :site_name, required_clearance = :required_clearance, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, site); err != nil {
		return fmt.Errorf("update site: %w", err)
	}
	return nil
}

// Delete removes a registry entry by id.
func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}
