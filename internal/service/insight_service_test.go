package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
)

type snapshotStub struct {
	assignments []models.Assignment
	workers     []models.Worker
	sites       []models.Site
	vacations   []models.Vacation
}

func (s *snapshotStub) ListAll(ctx context.Context) ([]models.Assignment, error) {
	return s.assignments, nil
}

func (s *snapshotStub) List(ctx context.Context) ([]models.Worker, error) {
	return s.workers, nil
}

type siteSourceStub struct {
	sites []models.Site
}

func (s *siteSourceStub) List(ctx context.Context) ([]models.Site, error) {
	return s.sites, nil
}

func (s *snapshotStub) ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Vacation, error) {
	return s.vacations, nil
}

type cacheStub struct {
	values   map[string][]byte
	sets     map[string][]string
	getCalls int
	setCalls int
	delCalls int
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: map[string][]byte{}, sets: map[string][]string{}}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	c.getCalls++
	return appErrors.ErrCacheMiss
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.setCalls++
	return nil
}

func (c *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.delCalls++
	return nil
}

func (c *cacheStub) AddToSet(ctx context.Context, key, member string, ttl time.Duration) error {
	c.sets[key] = append(c.sets[key], member)
	return nil
}

func (c *cacheStub) SetMembers(ctx context.Context, key string) ([]string, error) {
	return c.sets[key], nil
}

func doubleBookedWeek() *snapshotStub {
	return &snapshotStub{
		assignments: []models.Assignment{
			{ID: "a1", DayOfWeek: "MONDAY", ClientName: "Acme", SiteName: "HQ", Workers: []string{"Ann"}, Hours: 4, Status: models.AssignmentStatusScheduled},
			{ID: "a2", DayOfWeek: "MONDAY", ClientName: "Borealis", SiteName: "Lab", Workers: []string{"Ann"}, Hours: 4, Status: models.AssignmentStatusScheduled},
		},
		workers: []models.Worker{
			{ID: "w1", Name: "Ann", Clearance: models.ClearanceHigh, Active: true},
			{ID: "w2", Name: "Ben", Clearance: models.ClearanceMedium, Active: true},
		},
	}
}

func newInsightServiceForTest(src *snapshotStub, cache *cacheStub) *InsightService {
	var c insightCache
	if cache != nil {
		c = cache
	}
	return NewInsightService(nil, src, src, &siteSourceStub{}, src, c, nil, nil, InsightServiceConfig{})
}

func TestInsightServiceConflictsDetectsDoubleBooking(t *testing.T) {
	svc := newInsightServiceForTest(doubleBookedWeek(), newCacheStub())

	resp, err := svc.Conflicts(context.Background(), dto.ConflictQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Conflicts)

	types := make(map[models.ConflictType]bool)
	for _, c := range resp.Conflicts {
		types[c.Type] = true
	}
	assert.True(t, types[models.ConflictDoubleBooking])
	assert.Equal(t, len(resp.Conflicts), resp.Summary.Total)
}

func TestInsightServiceConflictsFiltersSeverity(t *testing.T) {
	svc := newInsightServiceForTest(doubleBookedWeek(), newCacheStub())

	resp, err := svc.Conflicts(context.Background(), dto.ConflictQuery{Severity: "critical"})
	require.NoError(t, err)
	assert.Empty(t, resp.Conflicts)
	assert.Equal(t, 0, resp.Summary.Total)
}

func TestInsightServiceConflictsCachesResult(t *testing.T) {
	cache := newCacheStub()
	svc := newInsightServiceForTest(doubleBookedWeek(), cache)

	_, err := svc.Conflicts(context.Background(), dto.ConflictQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.getCalls)
	assert.Equal(t, 1, cache.setCalls)
}

func TestInsightServiceValidateBlocksDoubleBooking(t *testing.T) {
	svc := newInsightServiceForTest(doubleBookedWeek(), nil)

	day := "MONDAY"
	client := "Corex"
	site := "Plant"
	workers := []string{"Ann"}
	hours := 3.0
	result, err := svc.Validate(context.Background(), dto.ValidateAssignmentRequest{
		Change: dto.UpdateAssignmentRequest{
			DayOfWeek:  &day,
			ClientName: &client,
			SiteName:   &site,
			Workers:    &workers,
			Hours:      &hours,
		},
	})
	require.NoError(t, err)
	assert.True(t, result.HasConflicts)
	assert.False(t, result.CanProceed)
}

func TestInsightServiceSuggestionsDropDismissed(t *testing.T) {
	cache := newCacheStub()
	svc := newInsightServiceForTest(doubleBookedWeek(), cache)

	first, err := svc.Suggestions(context.Background(), dto.SuggestionQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, first.Suggestions)

	dismissedID := first.Suggestions[0].ID
	require.NoError(t, svc.Dismiss(context.Background(), dismissedID))

	second, err := svc.Suggestions(context.Background(), dto.SuggestionQuery{})
	require.NoError(t, err)
	for _, s := range second.Suggestions {
		assert.NotEqual(t, dismissedID, s.ID)
	}
}

func TestInsightServiceDismissRequiresID(t *testing.T) {
	svc := newInsightServiceForTest(doubleBookedWeek(), newCacheStub())

	err := svc.Dismiss(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInsightServiceVacationRemovesWorkerFromWeek(t *testing.T) {
	src := doubleBookedWeek()
	src.vacations = []models.Vacation{{
		WorkerName: "Ann",
		StartDate:  time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
	}}
	svc := newInsightServiceForTest(src, nil)

	resp, err := svc.Conflicts(context.Background(), dto.ConflictQuery{WeekStart: "2026-08-31"})
	require.NoError(t, err)
	assert.Empty(t, resp.Conflicts)
}

func TestWithoutFullWeekLeave(t *testing.T) {
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	workers := []models.Worker{
		{Name: "Ann", Active: true},
		{Name: "Ben", Active: true},
	}
	vacations := []models.Vacation{
		{WorkerName: "Ann", StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 6)},
		{WorkerName: "Ben", StartDate: weekStart, EndDate: weekStart.AddDate(0, 0, 2)},
	}

	kept := withoutFullWeekLeave(workers, vacations, weekStart)
	require.Len(t, kept, 1)
	assert.Equal(t, "Ben", kept[0].Name)
}
