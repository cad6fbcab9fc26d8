package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

// Workers more than this fraction above or below the mean weekly load are
// flagged by the imbalance detector.
const workloadDeviation = 0.30

const maxWorkloadResolutions = 3

// workloadSplit separates active workers into overloaded and underloaded
// sets relative to the mean attributed load.
type workloadSplit struct {
	totals      map[string]float64
	mean        float64
	overloaded  []string
	underloaded []string
}

// splitWorkload computes per-worker loads and classifies deviations beyond
// the given fraction of the mean. Worker lists come back sorted by load,
// heaviest overloaded first, lightest underloaded first.
func splitWorkload(snap Snapshot, deviation float64) workloadSplit {
	totals := workloadByWorker(snap)
	if len(totals) == 0 {
		return workloadSplit{totals: totals}
	}

	var sum float64
	for _, hours := range totals {
		sum += hours
	}
	mean := sum / float64(len(totals))
	split := workloadSplit{totals: totals, mean: mean}
	if mean == 0 {
		return split
	}

	for name, hours := range totals {
		switch {
		case hours > mean*(1+deviation):
			split.overloaded = append(split.overloaded, name)
		case hours < mean*(1-deviation):
			split.underloaded = append(split.underloaded, name)
		}
	}
	sort.Slice(split.overloaded, func(i, j int) bool {
		a, b := split.overloaded[i], split.overloaded[j]
		if totals[a] != totals[b] {
			return totals[a] > totals[b]
		}
		return a < b
	})
	sort.Slice(split.underloaded, func(i, j int) bool {
		a, b := split.underloaded[i], split.underloaded[j]
		if totals[a] != totals[b] {
			return totals[a] < totals[b]
		}
		return a < b
	})
	return split
}

// detectWorkloadImbalance emits a single medium conflict when both
// overloaded and underloaded workers exist at the 30% threshold.
func (e *Engine) detectWorkloadImbalance(snap Snapshot) []models.Conflict {
	split := splitWorkload(snap, workloadDeviation)
	if len(split.overloaded) == 0 || len(split.underloaded) == 0 {
		return nil
	}

	spread := split.totals[split.overloaded[0]] - split.totals[split.underloaded[0]]
	conflict := models.Conflict{
		ID:       "workload-imbalance",
		Type:     models.ConflictWorkloadImbalance,
		Severity: models.SeverityMedium,
		Title:    "Weekly workload is unbalanced",
		Description: fmt.Sprintf("Overloaded: %s. Underloaded: %s. Mean weekly load is %.1fh.",
			describeLoads(split.overloaded, split.totals),
			describeLoads(split.underloaded, split.totals),
			split.mean),
		Workers: append(append([]string{}, split.overloaded...), split.underloaded...),
		Impact: models.ConflictImpact{
			TimeLostMinutes:   int(spread * 30),
			CostDelta:         spread * 25,
			EfficiencyLossPct: 10,
		},
	}
	conflict.Resolutions = e.resolveWorkload(snap, split, conflict.ID)
	for _, r := range conflict.Resolutions {
		for _, c := range r.Changes {
			if !conflict.References(c.AssignmentID) {
				conflict.AssignmentIDs = append(conflict.AssignmentIDs, c.AssignmentID)
			}
		}
	}
	return []models.Conflict{conflict}
}

// resolveWorkload pairs each overloaded worker's movable assignment with an
// underloaded worker. An assignment is movable towards a worker only when
// that worker has nothing scheduled on its day.
func (e *Engine) resolveWorkload(snap Snapshot, split workloadSplit, conflictID string) []models.Resolution {
	busy := groupByWorkerDay(snap.Assignments)
	resolutions := make([]models.Resolution, 0, maxWorkloadResolutions)
	targetIdx := 0

	for _, over := range split.overloaded {
		if len(resolutions) == maxWorkloadResolutions || targetIdx >= len(split.underloaded) {
			break
		}
		target := split.underloaded[targetIdx]
		moved := movableTowards(snap, busy, over, target)
		if moved == nil {
			continue
		}
		gain := (split.totals[over] - split.totals[target]) / 2
		resolutions = append(resolutions, models.Resolution{
			ID:   fmt.Sprintf("%s-r%d", conflictID, len(resolutions)+1),
			Type: models.ResolutionReassign,
			Description: fmt.Sprintf("Move %s at %s on %s from %s to %s",
				moved.SiteName, moved.ClientName, titleDay(models.NormalizeDay(moved.DayOfWeek)), over, target),
			Changes: []models.FieldChange{{
				AssignmentID:  moved.ID,
				ReplaceWorker: over,
				NewWorker:     target,
			}},
			Benefit: models.ResolutionBenefit{
				TimeSavedMinutes:  int(gain * 60),
				CostReduction:     gain * 25,
				EfficiencyGainPct: 10,
			},
		})
		targetIdx++
	}
	return resolutions
}

// movableTowards finds the first of the overloaded worker's assignments
// whose day is free for the target worker. Clearance requirements on the
// site must also hold for the target.
func movableTowards(snap Snapshot, busy map[workerDay][]models.Assignment, from, to string) *models.Assignment {
	requirements := siteRequirements(snap.Sites)
	clearances := clearanceByWorker(snap.Workers)

	for _, day := range models.WeekDays() {
		for _, a := range busy[workerDay{Worker: from, Day: day}] {
			if a.Recurring || a.Status != models.AssignmentStatusScheduled {
				continue
			}
			if len(busy[workerDay{Worker: to, Day: day}]) > 0 {
				continue
			}
			required, hasReq := requirements[models.SiteKey{ClientName: a.ClientName, SiteName: a.SiteName}]
			if hasReq && !clearances[to].Meets(required) {
				continue
			}
			found := a
			return &found
		}
	}
	return nil
}

func describeLoads(names []string, totals map[string]float64) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%.1fh)", name, totals[name]))
	}
	return strings.Join(parts, ", ")
}
