package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

// Fixed impact for a time overlap between two assignments.
const (
	overlapMinutesLost = 60
	overlapCostDelta   = 100.0
	overlapLossPct     = 25.0
)

// timedAssignment pairs an assignment with its parsed start minute.
type timedAssignment struct {
	models.Assignment
	startMin int
}

// detectTimeOverlap flags adjacent assignments on the same worker-day whose
// projected end (start + hours, wrapping at 24h) runs past the next start.
func (e *Engine) detectTimeOverlap(snap Snapshot) []models.Conflict {
	groups := groupByWorkerDay(snap.Assignments)
	var conflicts []models.Conflict

	for _, key := range sortedGroupKeys(groups) {
		timed := timedGroup(groups[key])
		if len(timed) < 2 {
			continue
		}

		for i := 0; i < len(timed)-1; i++ {
			current := timed[i]
			next := timed[i+1]
			if current.ID == next.ID {
				continue
			}
			end := current.startMin + int(current.Hours*60)
			if end >= minutesPerDay {
				end -= minutesPerDay
			}
			if end <= next.startMin {
				continue
			}

			conflict := models.Conflict{
				ID: fmt.Sprintf("overlap-%s-%s-%s-%s",
					slug(key.Worker), strings.ToLower(key.Day), current.ID, next.ID),
				Type:     models.ConflictTimeOverlap,
				Severity: models.SeverityHigh,
				Title:    fmt.Sprintf("%s has overlapping jobs on %s", key.Worker, titleDay(key.Day)),
				Description: fmt.Sprintf("%s at %s runs until %s but %s at %s starts at %s",
					current.SiteName, current.StartTime, formatClock(end),
					next.SiteName, next.ClientName, next.StartTime),
				AssignmentIDs: []string{current.ID, next.ID},
				Workers:       []string{key.Worker},
				Impact: models.ConflictImpact{
					TimeLostMinutes:   overlapMinutesLost,
					CostDelta:         overlapCostDelta,
					EfficiencyLossPct: overlapLossPct,
				},
			}
			conflict.Resolutions = e.resolveOverlap(snap, key, current, next, end, conflict)
			conflicts = append(conflicts, conflict)
		}
	}
	return conflicts
}

// timedGroup keeps assignments that carry a parseable start time, sorted by
// start ascending with id as the tie-break.
func timedGroup(group []models.Assignment) []timedAssignment {
	timed := make([]timedAssignment, 0, len(group))
	for _, a := range group {
		start, ok := parseClock(a.StartTime)
		if !ok {
			continue
		}
		timed = append(timed, timedAssignment{Assignment: a, startMin: start})
	}
	sort.Slice(timed, func(i, j int) bool {
		if timed[i].startMin != timed[j].startMin {
			return timed[i].startMin < timed[j].startMin
		}
		return timed[i].ID < timed[j].ID
	})
	return timed
}

// resolveOverlap proposes pushing the later assignment to the earlier one's
// end, or handing it to another qualified worker.
func (e *Engine) resolveOverlap(snap Snapshot, key workerDay, current, next timedAssignment, end int, conflict models.Conflict) []models.Resolution {
	benefit := models.ResolutionBenefit{
		TimeSavedMinutes:  overlapMinutesLost,
		CostReduction:     overlapCostDelta,
		EfficiencyGainPct: overlapLossPct,
	}

	resolutions := []models.Resolution{{
		ID:          conflict.ID + "-r1",
		Type:        models.ResolutionReschedule,
		Description: fmt.Sprintf("Start %s at %s at %s instead", next.SiteName, next.ClientName, formatClock(end)),
		Changes: []models.FieldChange{{
			AssignmentID: next.ID,
			NewStartTime: formatClock(end),
		}},
		Benefit: benefit,
	}}

	if alt := firstAlternateWorker(snap, next.Assignment, key.Worker); alt != "" {
		resolutions = append(resolutions, models.Resolution{
			ID:          conflict.ID + "-r2",
			Type:        models.ResolutionReassign,
			Description: fmt.Sprintf("Reassign %s at %s to %s", next.SiteName, next.ClientName, alt),
			Changes: []models.FieldChange{{
				AssignmentID:  next.ID,
				ReplaceWorker: key.Worker,
				NewWorker:     alt,
			}},
			Benefit: benefit,
		})
	}
	return resolutions
}
