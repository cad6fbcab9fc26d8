package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/askeland/crewplan-api/internal/models"
)

// VacationRepository provides persistence for worker leave windows.
type VacationRepository struct {
	db *sqlx.DB
}

// NewVacationRepository creates a new vacation repository.
func NewVacationRepository(db *sqlx.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

// ListOverlapping returns leave windows intersecting the given date range.
func (r *VacationRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Vacation, error) {
	const query = `SELECT id, worker_name, start_date, end_date, reason, created_at FROM vacations WHERE start_date <= $2 AND end_date >= $1 ORDER BY start_date ASC, worker_name ASC`
	var vacations []models.Vacation
	if err := r.db.SelectContext(ctx, &vacations, query, from, to); err != nil {
		return nil, fmt.Errorf("list overlapping vacations: %w", err)
	}
	return vacations, nil
}

// ListByWorker returns leave windows for the named worker.
func (r *VacationRepository) ListByWorker(ctx context.Context, worker string) ([]models.Vacation, error) {
	const query = `SELECT id, worker_name, start_date, end_date, reason, created_at FROM vacations WHERE worker_name = $1 ORDER BY start_date ASC`
	var vacations []models.Vacation
	if err := r.db.SelectContext(ctx, &vacations, query, worker); err != nil {
		return nil, fmt.Errorf("list vacations by worker: %w", err)
	}
	return vacations, nil
}

// FindByID loads a leave window by id.
func (r *VacationRepository) FindByID(ctx context.Context, id string) (*models.Vacation, error) {
	const query = `SELECT id, worker_name, start_date, end_date, reason, created_at FROM vacations WHERE id = $1`
	var vacation models.Vacation
	if err := r.db.GetContext(ctx, &vacation, query, id); err != nil {
		return nil, err
	}
	return &vacation, nil
}

// Create stores a new leave window.
func (r *VacationRepository) Create(ctx context.Context, vacation *models.Vacation) error {
	if vacation.ID == "" {
		vacation.ID = uuid.NewString()
	}
	if vacation.CreatedAt.IsZero() {
		vacation.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO vacations (id, worker_name, start_date, end_date, reason, created_at) VALUES (:id, :worker_name, :start_date, :end_date, :reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vacation); err != nil {
		return fmt.Errorf("create vacation: %w", err)
	}
	return nil
}

// Delete removes a leave window by id.
func (r *VacationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vacations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete vacation: %w", err)
	}
	return nil
}
