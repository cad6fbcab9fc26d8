package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/askeland/crewplan-api/internal/dto"
	"github.com/askeland/crewplan-api/internal/engine"
	"github.com/askeland/crewplan-api/internal/models"
	appErrors "github.com/askeland/crewplan-api/pkg/errors"
)

const (
	conflictsCacheKey    = "insights:conflicts"
	suggestionsCacheKey  = "insights:suggestions"
	dismissedSetCacheKey = "insights:dismissed"
)

type snapshotAssignmentSource interface {
	ListAll(ctx context.Context) ([]models.Assignment, error)
}

type snapshotWorkerSource interface {
	List(ctx context.Context) ([]models.Worker, error)
}

type snapshotSiteSource interface {
	List(ctx context.Context) ([]models.Site, error)
}

type vacationSource interface {
	ListOverlapping(ctx context.Context, from, to time.Time) ([]models.Vacation, error)
}

type insightCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	AddToSet(ctx context.Context, key, member string, ttl time.Duration) error
	SetMembers(ctx context.Context, key string) ([]string, error)
}

type engineObserver interface {
	ObserveDetectionPass(duration time.Duration, summary models.ConflictSummary)
	ObserveValidation(blocked bool)
}

// InsightServiceConfig tunes result caching.
type InsightServiceConfig struct {
	CacheTTL     time.Duration
	DismissedTTL time.Duration
}

// InsightService runs the scheduling engine over the persisted week and
// caches its output.
type InsightService struct {
	engine      *engine.Engine
	assignments snapshotAssignmentSource
	workers     snapshotWorkerSource
	sites       snapshotSiteSource
	vacations   vacationSource
	cache       insightCache
	metrics     engineObserver
	logger      *zap.Logger
	cfg         InsightServiceConfig
}

// NewInsightService constructs the insight service.
func NewInsightService(eng *engine.Engine, assignments snapshotAssignmentSource, workers snapshotWorkerSource, sites snapshotSiteSource, vacations vacationSource, cache insightCache, metrics engineObserver, logger *zap.Logger, cfg InsightServiceConfig) *InsightService {
	if eng == nil {
		eng = engine.New(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DismissedTTL <= 0 {
		cfg.DismissedTTL = 30 * 24 * time.Hour
	}
	return &InsightService{
		engine:      eng,
		assignments: assignments,
		workers:     workers,
		sites:       sites,
		vacations:   vacations,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// Conflicts runs detection for the week and applies the requested filters.
func (s *InsightService) Conflicts(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictsResponse, error) {
	conflicts, err := s.detect(ctx, query.WeekStart)
	if err != nil {
		return nil, err
	}

	if query.AssignmentID != "" {
		conflicts = engine.FilterByAssignment(conflicts, query.AssignmentID)
	}
	if query.Worker != "" {
		conflicts = engine.FilterByWorker(conflicts, query.Worker)
	}
	if query.Severity != "" {
		conflicts = engine.FilterBySeverity(conflicts, models.ConflictSeverity(query.Severity))
	}

	return &dto.ConflictsResponse{
		Conflicts: conflicts,
		Summary:   engine.Summarize(conflicts),
		Generated: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Summary returns aggregate counts for the full detection pass.
func (s *InsightService) Summary(ctx context.Context, weekStart string) (*models.ConflictSummary, error) {
	conflicts, err := s.detect(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	summary := engine.Summarize(conflicts)
	return &summary, nil
}

// Validate checks a proposed create or edit against the persisted week.
func (s *InsightService) Validate(ctx context.Context, req dto.ValidateAssignmentRequest) (*models.ValidationResult, error) {
	snap, err := s.loadSnapshot(ctx, "")
	if err != nil {
		return nil, err
	}
	result := s.engine.ValidateChange(snap, req.Change.Patch(), req.AssignmentID)
	if s.metrics != nil {
		s.metrics.ObserveValidation(!result.CanProceed)
	}
	return &result, nil
}

// Suggestions returns the ranked suggestion list minus dismissed entries.
func (s *InsightService) Suggestions(ctx context.Context, query dto.SuggestionQuery) (*dto.SuggestionsResponse, error) {
	dismissed, err := s.dismissedSet(ctx)
	if err != nil {
		return nil, err
	}

	var suggestions []models.Suggestion
	cacheKey := suggestionsCacheKey + ":" + cacheScope(query.WeekStart)
	if err := s.cacheGet(ctx, cacheKey, &suggestions); err != nil {
		snap, err := s.loadSnapshot(ctx, query.WeekStart)
		if err != nil {
			return nil, err
		}
		suggestions = s.engine.GenerateSuggestions(snap, dismissed)
		s.cacheSet(ctx, cacheKey, suggestions)
	} else {
		suggestions = dropDismissed(suggestions, dismissed)
	}

	return &dto.SuggestionsResponse{
		Suggestions: suggestions,
		Generated:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Dismiss records a suggestion id so future passes exclude it.
func (s *InsightService) Dismiss(ctx context.Context, suggestionID string) error {
	if suggestionID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "suggestion id is required")
	}
	if s.cache == nil {
		return nil
	}
	if err := s.cache.AddToSet(ctx, dismissedSetCacheKey, suggestionID, s.cfg.DismissedTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record dismissal")
	}
	if err := s.cache.DeleteByPattern(ctx, suggestionsCacheKey+"*"); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate suggestion cache", "error", err)
	}
	return nil
}

// Invalidate drops cached insight payloads after schedule writes.
func (s *InsightService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "insights:conflicts*"); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate conflict cache", "error", err)
	}
	if err := s.cache.DeleteByPattern(ctx, suggestionsCacheKey+"*"); err != nil {
		s.logger.Sugar().Warnw("failed to invalidate suggestion cache", "error", err)
	}
}

func (s *InsightService) detect(ctx context.Context, weekStart string) ([]models.Conflict, error) {
	cacheKey := conflictsCacheKey + ":" + cacheScope(weekStart)
	var conflicts []models.Conflict
	if err := s.cacheGet(ctx, cacheKey, &conflicts); err == nil {
		return conflicts, nil
	}

	snap, err := s.loadSnapshot(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	conflicts = s.engine.DetectConflicts(snap)
	if s.metrics != nil {
		s.metrics.ObserveDetectionPass(time.Since(started), engine.Summarize(conflicts))
	}

	s.cacheSet(ctx, cacheKey, conflicts)
	return conflicts, nil
}

func (s *InsightService) loadSnapshot(ctx context.Context, weekStart string) (engine.Snapshot, error) {
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return engine.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	workers, err := s.workers.List(ctx)
	if err != nil {
		return engine.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workers")
	}
	sites, err := s.sites.List(ctx)
	if err != nil {
		return engine.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sites")
	}

	snap := engine.Snapshot{Assignments: assignments, Workers: workers, Sites: sites}

	if weekStart != "" && s.vacations != nil {
		start, err := time.Parse("2006-01-02", weekStart)
		if err != nil {
			return engine.Snapshot{}, appErrors.Clone(appErrors.ErrValidation, "weekStart must be formatted YYYY-MM-DD")
		}
		vacations, err := s.vacations.ListOverlapping(ctx, start, start.AddDate(0, 0, 6))
		if err != nil {
			return engine.Snapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacations")
		}
		snap.Assignments = withoutVacationing(snap.Assignments, vacations, start)
		snap.Workers = withoutFullWeekLeave(snap.Workers, vacations, start)
	}

	return snap, nil
}

// withoutVacationing strips workers from assignments that fall on a day
// covered by their leave window. The remaining crew is still checked.
func withoutVacationing(assignments []models.Assignment, vacations []models.Vacation, weekStart time.Time) []models.Assignment {
	if len(vacations) == 0 {
		return assignments
	}

	out := make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		index := models.DayIndex(a.DayOfWeek)
		if index == 0 {
			out = append(out, a)
			continue
		}
		date := weekStart.AddDate(0, 0, index-1)

		kept := a.Workers[:0:0]
		for _, worker := range a.Workers {
			away := false
			for _, v := range vacations {
				if v.WorkerName == worker && v.Covers(date) {
					away = true
					break
				}
			}
			if !away {
				kept = append(kept, worker)
			}
		}
		a.Workers = kept
		out = append(out, a)
	}
	return out
}

// withoutFullWeekLeave drops workers whose leave covers every day of the
// week so smoothing never routes work to them. Partial-week leave keeps the
// worker eligible for their remaining days.
func withoutFullWeekLeave(workers []models.Worker, vacations []models.Vacation, weekStart time.Time) []models.Worker {
	if len(vacations) == 0 {
		return workers
	}

	out := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		covered := 0
		for day := 0; day < 7; day++ {
			date := weekStart.AddDate(0, 0, day)
			for _, v := range vacations {
				if v.WorkerName == w.Name && v.Covers(date) {
					covered++
					break
				}
			}
		}
		if covered < 7 {
			out = append(out, w)
		}
	}
	return out
}

func (s *InsightService) dismissedSet(ctx context.Context) (map[string]struct{}, error) {
	if s.cache == nil {
		return nil, nil
	}
	members, err := s.cache.SetMembers(ctx, dismissedSetCacheKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dismissed suggestions")
	}
	if len(members) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(members))
	for _, id := range members {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *InsightService) cacheGet(ctx context.Context, key string, dest interface{}) error {
	if s.cache == nil {
		return appErrors.ErrCacheMiss
	}
	err := s.cache.Get(ctx, key, dest)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Sugar().Warnw("cache read failed", "key", key, "error", err)
	}
	return err
}

func (s *InsightService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Sugar().Warnw("cache write failed", "key", key, "error", err)
	}
}

func cacheScope(weekStart string) string {
	if weekStart == "" {
		return "current"
	}
	return weekStart
}

func dropDismissed(suggestions []models.Suggestion, dismissed map[string]struct{}) []models.Suggestion {
	if len(dismissed) == 0 {
		return suggestions
	}
	out := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if _, ok := dismissed[s.ID]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
