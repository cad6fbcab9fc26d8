package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	"github.com/askeland/crewplan-api/internal/repository"
	"github.com/askeland/crewplan-api/pkg/jobs"
	"github.com/askeland/crewplan-api/pkg/storage"
)

type reportRepoStub struct {
	jobs map[string]*models.ReportJob
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{jobs: map[string]*models.ReportJob{}}
}

func (r *reportRepoStub) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *reportRepoStub) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (r *reportRepoStub) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := r.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *reportRepoStub) ListPending(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var pending []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusQueued || job.Status == models.ReportStatusProcessing {
			pending = append(pending, *job)
		}
	}
	return pending, nil
}

func (r *reportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	var finished []models.ReportJob
	for _, job := range r.jobs {
		if job.Status != models.ReportStatusFinished || job.FinishedAt == nil || !job.FinishedAt.Before(cutoff) {
			continue
		}
		finished = append(finished, *job)
		if len(finished) == limit {
			break
		}
	}
	return finished, nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type conflictSourceStub struct {
	conflicts []models.Conflict
}

func (c *conflictSourceStub) Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictsResponse, error) {
	return &dto.ConflictsResponse{Conflicts: c.conflicts}, nil
}

func newTestExportService(t *testing.T, conflicts []models.Conflict) *ExportService {
	t.Helper()
	store, err := storageForTest(t)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(&conflictSourceStub{conflicts: conflicts}, store, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
}

func storageForTest(t *testing.T) (fileStorage, error) {
	t.Helper()
	return storage.NewLocalStorage(t.TempDir())
}

func sampleConflicts() []models.Conflict {
	return []models.Conflict{{
		ID:            "double-ann-monday",
		Type:          models.ConflictDoubleBooking,
		Severity:      models.SeverityHigh,
		Description:   "Ann is booked twice on Monday",
		AssignmentIDs: []string{"a1", "a2"},
		Workers:       []string{"Ann"},
		Impact:        models.ConflictImpact{TimeLostMinutes: 30, CostDelta: 50, EfficiencyLossPct: 15},
	}}
}

func TestReportServiceCreateJobEnqueues(t *testing.T) {
	repo := newReportRepoStub()
	queue := &queueStub{}
	svc := NewReportService(repo, queue, newTestExportService(t, sampleConflicts()), nil, ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	assert.Len(t, queue.jobs, 1)
	assert.Equal(t, resp.ID, queue.jobs[0].ID)
}

func TestReportServiceCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	repo := newReportRepoStub()
	queue := &queueStub{err: errors.New("queue closed")}
	svc := NewReportService(repo, queue, newTestExportService(t, nil), nil, ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatCSV})
	require.Error(t, err)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
	}
}

func TestReportServiceProcessJobFinishes(t *testing.T) {
	repo := newReportRepoStub()
	queue := &queueStub{}
	svc := NewReportService(repo, queue, newTestExportService(t, sampleConflicts()), nil, ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatCSV})
	require.NoError(t, err)

	require.NoError(t, svc.ProcessJob(context.Background(), jobs.Job{ID: resp.ID}))

	job := repo.jobs[resp.ID]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Contains(t, *job.ResultURL, "/api/v1/export/")
}

func TestReportServiceProcessJobUnsupportedFormatFails(t *testing.T) {
	repo := newReportRepoStub()
	svc := NewReportService(repo, &queueStub{}, newTestExportService(t, nil), nil, ReportServiceConfig{})

	job := &models.ReportJob{Params: models.ReportJobParams{Format: "xlsx"}}
	require.NoError(t, repo.Create(context.Background(), job))

	err := svc.ProcessJob(context.Background(), jobs.Job{ID: job.ID})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusFailed, repo.jobs[job.ID].Status)
}

func TestReportServiceDefaultsCleanupInterval(t *testing.T) {
	svc := NewReportService(newReportRepoStub(), &queueStub{}, newTestExportService(t, nil), nil, ReportServiceConfig{})
	assert.Greater(t, svc.cfg.CleanupInterval, time.Duration(0))
}

func TestReportServiceRecoverRequeuesInterruptedJobs(t *testing.T) {
	repo := newReportRepoStub()
	now := time.Now().UTC()
	repo.jobs["queued"] = &models.ReportJob{ID: "queued", Status: models.ReportStatusQueued}
	repo.jobs["stuck"] = &models.ReportJob{ID: "stuck", Status: models.ReportStatusProcessing, Progress: 10}
	repo.jobs["done"] = &models.ReportJob{ID: "done", Status: models.ReportStatusFinished, FinishedAt: &now}

	queue := &queueStub{}
	svc := NewReportService(repo, queue, newTestExportService(t, nil), nil, ReportServiceConfig{})
	svc.RecoverPendingJobs(context.Background())

	require.Len(t, queue.jobs, 2)
	enqueued := map[string]bool{}
	for _, job := range queue.jobs {
		enqueued[job.ID] = true
	}
	assert.True(t, enqueued["queued"])
	assert.True(t, enqueued["stuck"])
	assert.Equal(t, models.ReportStatusQueued, repo.jobs["stuck"].Status)
	assert.Equal(t, 0, repo.jobs["stuck"].Progress)
	assert.Equal(t, models.ReportStatusFinished, repo.jobs["done"].Status)
}

func TestReportServiceCleanupExpiresFinishedJobs(t *testing.T) {
	repo := newReportRepoStub()
	expired := time.Now().UTC().Add(-48 * time.Hour)
	for i := 0; i < cleanupBatchSize+20; i++ {
		id := uuid.NewString()
		repo.jobs[id] = &models.ReportJob{ID: id, Status: models.ReportStatusFinished, FinishedAt: &expired}
	}
	fresh := time.Now().UTC()
	repo.jobs["fresh"] = &models.ReportJob{ID: "fresh", Status: models.ReportStatusFinished, FinishedAt: &fresh}

	svc := NewReportService(repo, &queueStub{}, newTestExportService(t, nil), nil, ReportServiceConfig{ResultTTL: 24 * time.Hour})
	svc.cleanupExpired(context.Background())

	assert.Equal(t, models.ReportStatusFinished, repo.jobs["fresh"].Status)
	expiredCount := 0
	for _, job := range repo.jobs {
		if job.Status == models.ReportStatusExpired {
			expiredCount++
		}
	}
	assert.Equal(t, cleanupBatchSize+20, expiredCount)
}

func TestReportServiceCleanupSweepsOrphanedFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	exporter := NewExportService(&conflictSourceStub{}, store, signer, ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
	svc := NewReportService(newReportRepoStub(), &queueStub{}, exporter, nil, ReportServiceConfig{ResultTTL: 24 * time.Hour})

	orphan := filepath.Join(dir, "conflicts_all_20260101_000000.csv")
	require.NoError(t, os.WriteFile(orphan, []byte("ID,Type\n"), 0o644))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(orphan, stale, stale))

	svc.cleanupExpired(context.Background())

	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
}

func TestReportServiceGetStatusExposesResult(t *testing.T) {
	repo := newReportRepoStub()
	svc := NewReportService(repo, &queueStub{}, newTestExportService(t, sampleConflicts()), nil, ReportServiceConfig{})

	created, err := svc.CreateJob(context.Background(), dto.ReportRequest{Format: models.ReportFormatPDF})
	require.NoError(t, err)
	require.NoError(t, svc.ProcessJob(context.Background(), jobs.Job{ID: created.ID}))

	status, err := svc.GetStatus(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, status.Status)
	assert.NotNil(t, status.ResultURL)
}
