package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
)

type assignmentRepoStub struct {
	records map[string]*models.Assignment
}

func newAssignmentRepoStub(seed ...models.Assignment) *assignmentRepoStub {
	stub := &assignmentRepoStub{records: map[string]*models.Assignment{}}
	for i := range seed {
		a := seed[i]
		stub.records[a.ID] = &a
	}
	return stub
}

func (r *assignmentRepoStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	all, _ := r.ListAll(ctx)
	return all, len(all), nil
}

func (r *assignmentRepoStub) ListAll(ctx context.Context) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range r.records {
		out = append(out, *a)
	}
	return out, nil
}

func (r *assignmentRepoStub) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	a, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (r *assignmentRepoStub) Create(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	stored := *a
	r.records[a.ID] = &stored
	return nil
}

func (r *assignmentRepoStub) Update(ctx context.Context, a *models.Assignment) error {
	stored := *a
	r.records[a.ID] = &stored
	return nil
}

func (r *assignmentRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.records, id)
	return nil
}

type gateStub struct {
	result          *models.ValidationResult
	invalidateCalls int
}

func (g *gateStub) Validate(ctx context.Context, req dto.ValidateAssignmentRequest) (*models.ValidationResult, error) {
	if g.result != nil {
		return g.result, nil
	}
	return &models.ValidationResult{CanProceed: true}, nil
}

func (g *gateStub) Invalidate(ctx context.Context) {
	g.invalidateCalls++
}

func TestAssignmentServiceCreateHappyPath(t *testing.T) {
	repo := newAssignmentRepoStub()
	gate := &gateStub{}
	svc := NewAssignmentService(repo, gate, nil, nil)

	created, result, err := svc.Create(context.Background(), dto.CreateAssignmentRequest{
		DayOfWeek:  "monday",
		ClientName: "Acme",
		SiteName:   "HQ",
		Workers:    []string{"Ann"},
		Hours:      4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "MONDAY", created.DayOfWeek)
	assert.Equal(t, models.AssignmentStatusScheduled, created.Status)
	assert.True(t, result.CanProceed)
	assert.Equal(t, 1, gate.invalidateCalls)
}

func TestAssignmentServiceCreateBlockedByConflicts(t *testing.T) {
	repo := newAssignmentRepoStub()
	gate := &gateStub{result: &models.ValidationResult{
		HasConflicts: true,
		CanProceed:   false,
		Conflicts:    []models.Conflict{{ID: "double-ann-monday", Severity: models.SeverityHigh}},
	}}
	svc := NewAssignmentService(repo, gate, nil, nil)

	_, result, err := svc.Create(context.Background(), dto.CreateAssignmentRequest{
		DayOfWeek:  "MONDAY",
		ClientName: "Acme",
		SiteName:   "HQ",
		Workers:    []string{"Ann"},
		Hours:      4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.NotNil(t, result)
	assert.True(t, result.HasConflicts)
	assert.Empty(t, repo.records)
}

func TestAssignmentServiceCreateForceOverridesBlock(t *testing.T) {
	repo := newAssignmentRepoStub()
	gate := &gateStub{result: &models.ValidationResult{
		HasConflicts: true,
		CanProceed:   false,
		Conflicts:    []models.Conflict{{ID: "double-ann-monday", Severity: models.SeverityHigh}},
	}}
	svc := NewAssignmentService(repo, gate, nil, nil)

	created, _, err := svc.Create(context.Background(), dto.CreateAssignmentRequest{
		DayOfWeek:  "MONDAY",
		ClientName: "Acme",
		SiteName:   "HQ",
		Workers:    []string{"Ann"},
		Hours:      4,
		Force:      true,
	})
	require.NoError(t, err)
	assert.Len(t, repo.records, 1)
	assert.NotEmpty(t, created.ID)
}

func TestAssignmentServiceCreateRejectsBadDay(t *testing.T) {
	svc := NewAssignmentService(newAssignmentRepoStub(), &gateStub{}, nil, nil)

	_, _, err := svc.Create(context.Background(), dto.CreateAssignmentRequest{
		DayOfWeek:  "Someday",
		ClientName: "Acme",
		SiteName:   "HQ",
		Workers:    []string{"Ann"},
		Hours:      4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceUpdateMergesPatch(t *testing.T) {
	existing := models.Assignment{
		ID:         "a1",
		DayOfWeek:  "MONDAY",
		ClientName: "Acme",
		SiteName:   "HQ",
		Workers:    []string{"Ann"},
		Hours:      4,
		Status:     models.AssignmentStatusScheduled,
	}
	repo := newAssignmentRepoStub(existing)
	svc := NewAssignmentService(repo, &gateStub{}, nil, nil)

	hours := 6.0
	notes := "bring ladder"
	updated, _, err := svc.Update(context.Background(), "a1", dto.UpdateAssignmentRequest{
		Hours: &hours,
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 6.0, updated.Hours)
	assert.Equal(t, "bring ladder", updated.Notes)
	assert.Equal(t, "MONDAY", updated.DayOfWeek)
}

func TestAssignmentServiceUpdateUnknownID(t *testing.T) {
	svc := NewAssignmentService(newAssignmentRepoStub(), &gateStub{}, nil, nil)

	notes := "x"
	_, _, err := svc.Update(context.Background(), "missing", dto.UpdateAssignmentRequest{Notes: &notes})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceDelete(t *testing.T) {
	repo := newAssignmentRepoStub(models.Assignment{ID: "a1", DayOfWeek: "MONDAY"})
	gate := &gateStub{}
	svc := NewAssignmentService(repo, gate, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.Empty(t, repo.records)
	assert.Equal(t, 1, gate.invalidateCalls)
}
