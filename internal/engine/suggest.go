package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

// maxSuggestions bounds the returned set; a presentation concern baked in
// here so callers can render without further truncation.
const maxSuggestions = 8

// Per-family caps keep the optimization heuristics from blowing up on
// large snapshots.
const (
	maxTravelSuggestions    = 3
	maxRebalanceSuggestions = 3
	maxSmoothingSuggestions = 2
)

// softWorkloadDeviation is the gentler threshold used for rebalancing
// offers that have not yet tripped the formal imbalance detector.
const softWorkloadDeviation = 0.10

// Priority bands. Conflict-derived suggestions always outrank the
// optimization families; within a band later candidates step down.
const (
	priorityCritical  = 100
	priorityHigh      = 90
	priorityMedium    = 70
	priorityLow       = 50
	priorityTravel    = 50
	priorityRebalance = 30
	prioritySmoothing = 25
)

// GenerateSuggestions runs full detection, folds in the optimization
// heuristics, drops dismissed ids, ranks, and truncates to the top results.
func (e *Engine) GenerateSuggestions(snap Snapshot, dismissed map[string]struct{}) []models.Suggestion {
	suggestions := e.conflictSuggestions(snap)
	suggestions = append(suggestions, e.travelGrouping(snap)...)
	suggestions = append(suggestions, e.softRebalance(snap)...)
	suggestions = append(suggestions, e.daySmoothing(snap)...)

	seen := make(map[string]bool, len(suggestions))
	merged := suggestions[:0]
	for _, s := range suggestions {
		if seen[s.ID] {
			continue
		}
		if _, skip := dismissed[s.ID]; skip {
			continue
		}
		seen[s.ID] = true
		merged = append(merged, s)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return lessSuggestion(merged[i], merged[j])
	})
	if len(merged) > maxSuggestions {
		merged = merged[:maxSuggestions]
	}
	return merged
}

// lessSuggestion is the single ranking comparator: conflict resolutions
// first, then priority, impact tier, combined estimated savings, and id as
// the deterministic tie-break.
func lessSuggestion(a, b models.Suggestion) bool {
	aConflict := a.Type == models.SuggestionConflictResolution
	bConflict := b.Type == models.SuggestionConflictResolution
	if aConflict != bConflict {
		return aConflict
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Tier.Rank() != b.Tier.Rank() {
		return a.Tier.Rank() > b.Tier.Rank()
	}
	aSavings := float64(a.Benefit.TimeSavedMinutes) + a.Benefit.CostReduction
	bSavings := float64(b.Benefit.TimeSavedMinutes) + b.Benefit.CostReduction
	if aSavings != bSavings {
		return aSavings > bSavings
	}
	return a.ID < b.ID
}

// conflictSuggestions converts every detected conflict's resolutions into
// ranked suggestions.
func (e *Engine) conflictSuggestions(snap Snapshot) []models.Suggestion {
	var suggestions []models.Suggestion
	for _, conflict := range e.DetectConflicts(snap) {
		for i, res := range conflict.Resolutions {
			suggestions = append(suggestions, models.Suggestion{
				ID:          "resolve-" + res.ID,
				Type:        models.SuggestionConflictResolution,
				Title:       conflict.Title,
				Description: res.Description,
				Priority:    resolutionPriority(conflict.Severity, i),
				Tier:        severityTier(conflict.Severity),
				ConflictID:  conflict.ID,
				Changes:     res.Changes,
				Benefit:     res.Benefit,
			})
		}
	}
	return suggestions
}

// resolutionPriority maps severity to the numeric rank scale, stepping down
// for later candidates within the same conflict.
func resolutionPriority(severity models.ConflictSeverity, index int) int {
	switch severity {
	case models.SeverityCritical:
		return priorityCritical
	case models.SeverityHigh:
		if index == 0 {
			return priorityHigh
		}
		return priorityHigh - 5
	case models.SeverityMedium:
		p := priorityMedium - 5*index
		if p < 60 {
			p = 60
		}
		return p
	default:
		p := priorityLow - 10*index
		if p < 30 {
			p = 30
		}
		return p
	}
}

func severityTier(severity models.ConflictSeverity) models.ImpactTier {
	switch severity {
	case models.SeverityCritical, models.SeverityHigh:
		return models.ImpactTierHigh
	case models.SeverityMedium:
		return models.ImpactTierMedium
	default:
		return models.ImpactTierLow
	}
}

// travelGrouping suggests consecutive re-slotting when another client's job
// is interleaved between two of the same client's start times on one
// worker-day.
func (e *Engine) travelGrouping(snap Snapshot) []models.Suggestion {
	groups := groupByWorkerDay(snap.Assignments)
	var suggestions []models.Suggestion

	for _, key := range sortedGroupKeys(groups) {
		if len(suggestions) == maxTravelSuggestions {
			break
		}
		timed := timedGroup(groups[key])
		if !hasInterleavedClient(timed) {
			continue
		}
		reslot := contiguousReslot("travel", groups[key])
		suggestions = append(suggestions, models.Suggestion{
			ID:          fmt.Sprintf("travel-%s-%s", slug(key.Worker), strings.ToLower(key.Day)),
			Type:        models.SuggestionTravelGrouping,
			Title:       fmt.Sprintf("Group %s's %s visits by client", key.Worker, titleDay(key.Day)),
			Description: reslot.Description,
			Priority:    priorityTravel,
			Tier:        models.ImpactTierMedium,
			Changes:     reslot.Changes,
			Benefit:     reslot.Benefit,
		})
	}
	return suggestions
}

// hasInterleavedClient reports whether the start-ordered sequence returns
// to a client after visiting a different one.
func hasInterleavedClient(timed []timedAssignment) bool {
	visited := make(map[string]bool)
	last := ""
	for _, t := range timed {
		if t.ClientName != last && visited[t.ClientName] {
			return true
		}
		visited[t.ClientName] = true
		last = t.ClientName
	}
	return false
}

// softRebalance offers workload moves below the formal 30% threshold.
func (e *Engine) softRebalance(snap Snapshot) []models.Suggestion {
	split := splitWorkload(snap, softWorkloadDeviation)
	if len(split.overloaded) == 0 || len(split.underloaded) == 0 {
		return nil
	}

	busy := groupByWorkerDay(snap.Assignments)
	var suggestions []models.Suggestion
	targetIdx := 0

	for _, over := range split.overloaded {
		if len(suggestions) == maxRebalanceSuggestions || targetIdx >= len(split.underloaded) {
			break
		}
		target := split.underloaded[targetIdx]
		moved := movableTowards(snap, busy, over, target)
		if moved == nil {
			continue
		}
		gain := (split.totals[over] - split.totals[target]) / 2
		suggestions = append(suggestions, models.Suggestion{
			ID:    fmt.Sprintf("rebalance-%s-%s", slug(over), slug(target)),
			Type:  models.SuggestionWorkloadRebalance,
			Title: fmt.Sprintf("Shift work from %s to %s", over, target),
			Description: fmt.Sprintf("%s carries %.1fh against %s's %.1fh; moving %s at %s evens the week",
				over, split.totals[over], target, split.totals[target], moved.SiteName, moved.ClientName),
			Priority: priorityRebalance,
			Tier:     models.ImpactTierMedium,
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
	return suggestions
}

// daySmoothing moves a movable assignment from an over-utilized day to an
// under-utilized one. Only non-recurring, still-scheduled assignments move,
// and never onto a day where one of their workers is already booked.
func (e *Engine) daySmoothing(snap Snapshot) []models.Suggestion {
	counts := make(map[string]int, 7)
	for _, day := range models.WeekDays() {
		counts[day] = 0
	}
	total := 0
	for _, a := range snap.Assignments {
		if a.Cancelled() {
			continue
		}
		day := models.NormalizeDay(a.DayOfWeek)
		if day == "" {
			continue
		}
		counts[day]++
		total++
	}
	if total == 0 {
		return nil
	}
	mean := float64(total) / 7

	overDays := make([]string, 0)
	underDays := make([]string, 0)
	for _, day := range models.WeekDays() {
		if float64(counts[day]) >= mean+1 {
			overDays = append(overDays, day)
		} else if float64(counts[day]) < mean {
			underDays = append(underDays, day)
		}
	}
	sort.SliceStable(overDays, func(i, j int) bool { return counts[overDays[i]] > counts[overDays[j]] })
	sort.SliceStable(underDays, func(i, j int) bool { return counts[underDays[i]] < counts[underDays[j]] })

	busy := groupByWorkerDay(snap.Assignments)
	var suggestions []models.Suggestion

	for _, over := range overDays {
		if len(suggestions) == maxSmoothingSuggestions || len(underDays) == 0 {
			break
		}
		under := underDays[0]
		moved := movableAcrossDays(snap, busy, over, under)
		if moved == nil {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			ID:    fmt.Sprintf("smooth-%s-%s", moved.ID, strings.ToLower(under)),
			Type:  models.SuggestionDaySmoothing,
			Title: fmt.Sprintf("Spread the week: move a %s job to %s", titleDay(over), titleDay(under)),
			Description: fmt.Sprintf("%s has %d jobs against %s's %d; %s at %s can move",
				titleDay(over), counts[over], titleDay(under), counts[under], moved.SiteName, moved.ClientName),
			Priority: prioritySmoothing,
			Tier:     models.ImpactTierLow,
			Changes: []models.FieldChange{{
				AssignmentID: moved.ID,
				NewDay:       under,
			}},
			Benefit: models.ResolutionBenefit{
				TimeSavedMinutes:  15,
				CostReduction:     10,
				EfficiencyGainPct: 5,
			},
		})
	}
	return suggestions
}

// movableAcrossDays finds a non-recurring, scheduled assignment on the
// source day whose workers are all free on the target day.
func movableAcrossDays(snap Snapshot, busy map[workerDay][]models.Assignment, fromDay, toDay string) *models.Assignment {
	for _, a := range snap.Assignments {
		if a.Cancelled() || a.Recurring || a.Status != models.AssignmentStatusScheduled {
			continue
		}
		if models.NormalizeDay(a.DayOfWeek) != fromDay {
			continue
		}
		free := true
		for _, worker := range a.Workers {
			if len(busy[workerDay{Worker: worker, Day: toDay}]) > 0 {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		found := a
		return &found
	}
	return nil
}
