package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/models"
)

func newReportJobRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportJobRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newReportJobRepoMock(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	mock.ExpectExec("INSERT INTO report_jobs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{Params: models.ReportJobParams{Format: models.ReportFormatCSV}}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newReportJobRepoMock(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	status := models.ReportStatusFinished
	url := "https://files.example.com/report.csv"
	finished := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, result_url = $2, finished_at = $3 WHERE id = $4")).
		WithArgs(status, url, finished, "job-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{
		Status:     &status,
		ResultURL:  &url,
		FinishedAt: &finished,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepositoryUpdateNoFields(t *testing.T) {
	db, mock, cleanup := newReportJobRepoMock(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepositoryListPending(t *testing.T) {
	db, mock, cleanup := newReportJobRepoMock(t)
	defer cleanup()
	repo := NewReportJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", []byte(`{"format":"pdf"}`), "QUEUED", 0, nil, time.Now(), nil, nil).
		AddRow("job-2", []byte(`{"format":"csv"}`), "PROCESSING", 10, nil, time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE status IN ('QUEUED', 'PROCESSING')")).
		WithArgs(20).
		WillReturnRows(rows)

	jobs, err := repo.ListPending(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, models.ReportFormatPDF, jobs[0].Params.Format)
	assert.Equal(t, models.ReportStatusProcessing, jobs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
