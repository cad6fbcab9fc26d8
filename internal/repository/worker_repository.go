package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/askeland/crewplan-api/internal/models"
)

// WorkerRepository provides persistence for the cleaner roster.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository creates a new worker repository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// List returns the full roster ordered by name.
func (r *WorkerRepository) List(ctx context.Context) ([]models.Worker, error) {
	const query = `SELECT id, name, clearance, active, created_at, updated_at FROM workers ORDER BY name ASC`
	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return workers, nil
}

// ListActive returns active roster members ordered by name.
func (r *WorkerRepository) ListActive(ctx context.Context) ([]models.Worker, error) {
	const query = `SELECT id, name, clearance, active, created_at, updated_at FROM workers WHERE active = TRUE ORDER BY name ASC`
	var workers []models.Worker
	if err := r.db.SelectContext(ctx, &workers, query); err != nil {
		return nil, fmt.Errorf("list active workers: %w", err)
	}
	return workers, nil
}

// FindByID loads a worker by id.
func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*models.Worker, error) {
	const query = `SELECT id, name, clearance, active, created_at, updated_at FROM workers WHERE id = $1`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindByName loads a worker by their roster name.
func (r *WorkerRepository) FindByName(ctx context.Context, name string) (*models.Worker, error) {
	const query = `SELECT id, name, clearance, active, created_at, updated_at FROM workers WHERE name = $1`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, name); err != nil {
		return nil, err
	}
	return &worker, nil
}

// Create stores a new roster entry.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.Worker) error {
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = now
	}
	worker.UpdatedAt = now

	const query = `INSERT INTO workers (id, name, clearance, active, created_at, updated_at) VALUES (:id, :name, :clearance, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

// Update modifies a roster entry.
func (r *WorkerRepository) Update(ctx context.Context, worker *models.Worker) error {
	worker.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workers SET name = :name, clearance = :clearance, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return nil
}

// Delete removes a roster entry by id.
func (r *WorkerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	return nil
}
