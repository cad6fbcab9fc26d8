package engine

import (
	"fmt"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

// Estimated impact per extra assignment in a double-booked group.
const (
	doubleBookingMinutesPerExtra = 30
	doubleBookingCostPerExtra    = 50.0
	doubleBookingLossPerExtra    = 15.0
)

// detectDoubleBooking flags workers named on two or more distinct
// assignments on the same day.
func (e *Engine) detectDoubleBooking(snap Snapshot) []models.Conflict {
	groups := groupByWorkerDay(snap.Assignments)
	var conflicts []models.Conflict

	for _, key := range sortedGroupKeys(groups) {
		group := groups[key]
		ids := distinctIDs(group)
		if len(ids) < 2 {
			continue
		}

		severity := models.SeverityHigh
		if len(ids) > 2 {
			severity = models.SeverityCritical
		}
		extra := len(ids) - 1

		conflict := models.Conflict{
			ID:       fmt.Sprintf("double-%s-%s", slug(key.Worker), strings.ToLower(key.Day)),
			Type:     models.ConflictDoubleBooking,
			Severity: severity,
			Title:    fmt.Sprintf("%s double-booked on %s", key.Worker, titleDay(key.Day)),
			Description: fmt.Sprintf("%s is assigned to %d jobs on %s: %s",
				key.Worker, len(ids), titleDay(key.Day), describeSites(group)),
			AssignmentIDs: ids,
			Workers:       []string{key.Worker},
			Impact: models.ConflictImpact{
				TimeLostMinutes:   doubleBookingMinutesPerExtra * extra,
				CostDelta:         doubleBookingCostPerExtra * float64(extra),
				EfficiencyLossPct: doubleBookingLossPerExtra * float64(extra),
			},
		}
		conflict.Resolutions = e.resolveDoubleBooking(snap, key, group, conflict)
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}

// resolveDoubleBooking proposes moving one of the colliding assignments to
// another qualified worker or to a free day. The first assignment in the
// group keeps its slot; later ones are the candidates to move.
func (e *Engine) resolveDoubleBooking(snap Snapshot, key workerDay, group []models.Assignment, conflict models.Conflict) []models.Resolution {
	var resolutions []models.Resolution
	moved := pickMovable(group[1:])
	if moved == nil {
		return resolutions
	}

	benefit := models.ResolutionBenefit{
		TimeSavedMinutes:  conflict.Impact.TimeLostMinutes,
		CostReduction:     conflict.Impact.CostDelta,
		EfficiencyGainPct: conflict.Impact.EfficiencyLossPct,
	}

	if alt := firstAlternateWorker(snap, *moved, key.Worker); alt != "" {
		resolutions = append(resolutions, models.Resolution{
			ID:          conflict.ID + "-r1",
			Type:        models.ResolutionReassign,
			Description: fmt.Sprintf("Reassign %s at %s to %s", moved.SiteName, moved.ClientName, alt),
			Changes: []models.FieldChange{{
				AssignmentID:  moved.ID,
				ReplaceWorker: key.Worker,
				NewWorker:     alt,
			}},
			Benefit: benefit,
		})
	}

	if day := firstFreeDay(snap, key.Worker, key.Day); day != "" {
		resolutions = append(resolutions, models.Resolution{
			ID:          conflict.ID + "-r2",
			Type:        models.ResolutionReschedule,
			Description: fmt.Sprintf("Move %s at %s to %s", moved.SiteName, moved.ClientName, titleDay(day)),
			Changes: []models.FieldChange{{
				AssignmentID: moved.ID,
				NewDay:       day,
			}},
			Benefit: benefit,
		})
	}
	return resolutions
}

// pickMovable returns the first assignment that is safe to move: not
// recurring and still in the scheduled state. Falls back to nil when every
// candidate is pinned.
func pickMovable(candidates []models.Assignment) *models.Assignment {
	for i := range candidates {
		if !candidates[i].Recurring && candidates[i].Status == models.AssignmentStatusScheduled {
			return &candidates[i]
		}
	}
	return nil
}

// firstAlternateWorker finds an active worker, in roster order, who is not
// already on the assignment, meets the site's clearance requirement if one
// exists, and has no other assignment that day.
func firstAlternateWorker(snap Snapshot, a models.Assignment, exclude string) string {
	requirements := siteRequirements(snap.Sites)
	required := requirements[models.SiteKey{ClientName: a.ClientName, SiteName: a.SiteName}]
	busy := groupByWorkerDay(snap.Assignments)

	for _, w := range activeWorkers(snap.Workers) {
		if w.Name == exclude || a.HasWorker(w.Name) {
			continue
		}
		if required != "" && !w.Clearance.Meets(required) {
			continue
		}
		if len(busy[workerDay{Worker: w.Name, Day: models.NormalizeDay(a.DayOfWeek)}]) > 0 {
			continue
		}
		return w.Name
	}
	return ""
}

// firstFreeDay finds the earliest weekday, excluding the given one, on
// which the worker has no assignment.
func firstFreeDay(snap Snapshot, worker, excludeDay string) string {
	busy := groupByWorkerDay(snap.Assignments)
	for _, day := range models.WeekDays() {
		if day == excludeDay {
			continue
		}
		if len(busy[workerDay{Worker: worker, Day: day}]) == 0 {
			return day
		}
	}
	return ""
}

func describeSites(group []models.Assignment) string {
	seen := make(map[string]bool)
	var parts []string
	for _, a := range group {
		label := fmt.Sprintf("%s (%s)", a.SiteName, a.ClientName)
		if seen[label] {
			continue
		}
		seen[label] = true
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

func titleDay(day string) string {
	if len(day) < 2 {
		return day
	}
	return day[:1] + strings.ToLower(day[1:])
}
