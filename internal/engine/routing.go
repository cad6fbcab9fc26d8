package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

// Routing uses a distinct-client-count proxy, not real travel distance.
const (
	routingMinutesPerExtraClient = 15
	routingCostPerExtraClient    = 25.0
	routingLossPct               = 5.0

	// contiguousStartMinutes is where re-slotted days begin (08:00).
	contiguousStartMinutes = 8 * 60
)

// detectLocationSpread flags worker-days whose assignments span more than
// one client, suggesting the day be re-slotted contiguously per client.
func (e *Engine) detectLocationSpread(snap Snapshot) []models.Conflict {
	groups := groupByWorkerDay(snap.Assignments)
	var conflicts []models.Conflict

	for _, key := range sortedGroupKeys(groups) {
		group := groups[key]
		clients := distinctClients(group)
		if len(clients) < 2 {
			continue
		}
		extra := len(clients) - 1

		conflict := models.Conflict{
			ID:       fmt.Sprintf("route-%s-%s", slug(key.Worker), strings.ToLower(key.Day)),
			Type:     models.ConflictLocationSpread,
			Severity: models.SeverityLow,
			Title:    fmt.Sprintf("%s visits %d clients on %s", key.Worker, len(clients), titleDay(key.Day)),
			Description: fmt.Sprintf("Jobs for %s are spread across %s; grouping them back-to-back cuts travel between sites",
				key.Worker, strings.Join(clients, ", ")),
			AssignmentIDs: distinctIDs(group),
			Workers:       []string{key.Worker},
			Impact: models.ConflictImpact{
				TimeLostMinutes:   routingMinutesPerExtraClient * extra,
				CostDelta:         routingCostPerExtraClient * float64(extra),
				EfficiencyLossPct: routingLossPct * float64(extra),
			},
		}
		conflict.Resolutions = []models.Resolution{contiguousReslot(conflict.ID, group)}
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}

// contiguousReslot builds one reschedule resolution assigning consecutive
// start times, client by client, spaced by each assignment's hours.
func contiguousReslot(conflictID string, group []models.Assignment) models.Resolution {
	ordered := make([]models.Assignment, len(group))
	copy(ordered, group)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ClientName != ordered[j].ClientName {
			return ordered[i].ClientName < ordered[j].ClientName
		}
		return ordered[i].StartTime < ordered[j].StartTime
	})

	cursor := contiguousStartMinutes
	changes := make([]models.FieldChange, 0, len(ordered))
	for _, a := range ordered {
		changes = append(changes, models.FieldChange{
			AssignmentID: a.ID,
			NewStartTime: formatClock(cursor),
		})
		cursor += int(a.Hours * 60)
	}

	extra := len(distinctClients(group)) - 1
	return models.Resolution{
		ID:          conflictID + "-r1",
		Type:        models.ResolutionReschedule,
		Description: "Re-slot the day back-to-back, one client at a time, starting at " + formatClock(contiguousStartMinutes),
		Changes:     changes,
		Benefit: models.ResolutionBenefit{
			TimeSavedMinutes:  routingMinutesPerExtraClient * extra,
			CostReduction:     routingCostPerExtraClient * float64(extra),
			EfficiencyGainPct: routingLossPct * float64(extra),
		},
	}
}

func distinctClients(group []models.Assignment) []string {
	seen := make(map[string]bool)
	var clients []string
	for _, a := range group {
		if seen[a.ClientName] {
			continue
		}
		seen[a.ClientName] = true
		clients = append(clients, a.ClientName)
	}
	sort.Strings(clients)
	return clients
}
