// Package engine implements the scheduling conflict detection and
// resolution suggestion core. Every entry point is a pure, synchronous
// function of its snapshot: no I/O, no shared state, safe for concurrent
// readers. Conflicts and suggestions carry deterministic ids so a given
// snapshot always reproduces the same result set.
package engine

import (
	"go.uber.org/zap"

	"github.com/askeland/crewplan-api/internal/models"
)

// Snapshot is the engine's read-only view of the week.
type Snapshot struct {
	Assignments []models.Assignment
	Workers     []models.Worker
	Sites       []models.Site
}

// Engine runs conflict detection, validation gating, and suggestion
// aggregation over assignment snapshots.
type Engine struct {
	logger *zap.Logger
}

// New constructs an engine. A nil logger falls back to a no-op logger.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

type detectorFunc func(snap Snapshot) []models.Conflict

type detector struct {
	name string
	run  detectorFunc
}

func (e *Engine) detectors() []detector {
	return []detector{
		{name: string(models.ConflictDoubleBooking), run: e.detectDoubleBooking},
		{name: string(models.ConflictTimeOverlap), run: e.detectTimeOverlap},
		{name: string(models.ConflictSecurityViolation), run: e.detectSecurityViolations},
		{name: string(models.ConflictWorkloadImbalance), run: e.detectWorkloadImbalance},
		{name: string(models.ConflictLocationSpread), run: e.detectLocationSpread},
	}
}

// DetectConflicts runs all five detectors and concatenates their results.
// Detectors are isolated: a fault in one yields an empty result for that
// category and never suppresses the others.
func (e *Engine) DetectConflicts(snap Snapshot) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	for _, d := range e.detectors() {
		conflicts = append(conflicts, e.safeRun(d, snap)...)
	}
	return conflicts
}

func (e *Engine) safeRun(d detector, snap Snapshot) (conflicts []models.Conflict) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("conflict detector failed",
				zap.String("detector", d.name),
				zap.Any("panic", r),
			)
			conflicts = nil
		}
	}()
	return d.run(snap)
}
