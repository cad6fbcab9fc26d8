package engine

import (
	"fmt"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

const maxSecurityCandidates = 3

// Impact per unauthorized worker on an assignment.
const (
	securityMinutesPerWorker = 45
	securityCostPerWorker    = 75.0
	securityLossPct          = 20.0
)

// detectSecurityViolations flags assignments where a named worker falls
// below the site's opt-in clearance requirement. Sites absent from the
// registry, or registered without a requirement, are skipped. Workers
// missing from the roster are treated as unauthorized.
func (e *Engine) detectSecurityViolations(snap Snapshot) []models.Conflict {
	requirements := siteRequirements(snap.Sites)
	clearances := clearanceByWorker(snap.Workers)
	var conflicts []models.Conflict

	for _, a := range snap.Assignments {
		if a.Cancelled() {
			continue
		}
		required, ok := requirements[models.SiteKey{ClientName: a.ClientName, SiteName: a.SiteName}]
		if !ok {
			continue
		}

		var unauthorized []string
		for _, worker := range a.Workers {
			if !clearances[worker].Meets(required) {
				unauthorized = append(unauthorized, worker)
			}
		}
		if len(unauthorized) == 0 {
			continue
		}

		conflict := models.Conflict{
			ID:       fmt.Sprintf("security-%s", a.ID),
			Type:     models.ConflictSecurityViolation,
			Severity: models.SeverityCritical,
			Title:    fmt.Sprintf("Clearance violation at %s (%s)", a.SiteName, a.ClientName),
			Description: fmt.Sprintf("%s requires %s clearance; not held by %s",
				a.SiteName, required, strings.Join(unauthorized, ", ")),
			AssignmentIDs: []string{a.ID},
			Workers:       unauthorized,
			Impact: models.ConflictImpact{
				TimeLostMinutes:   securityMinutesPerWorker * len(unauthorized),
				CostDelta:         securityCostPerWorker * float64(len(unauthorized)),
				EfficiencyLossPct: securityLossPct,
			},
		}
		conflict.Resolutions = e.resolveSecurity(snap, a, required, unauthorized, conflict)
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}

// resolveSecurity proposes swapping the first unauthorized worker for an
// active, cleared worker not already on the assignment. Candidates come in
// roster order, capped at three. An empty result means no qualified
// replacement exists and the conflict needs human intervention.
func (e *Engine) resolveSecurity(snap Snapshot, a models.Assignment, required models.Clearance, unauthorized []string, conflict models.Conflict) []models.Resolution {
	resolutions := make([]models.Resolution, 0, maxSecurityCandidates)
	replace := unauthorized[0]

	for _, w := range activeWorkers(snap.Workers) {
		if len(resolutions) == maxSecurityCandidates {
			break
		}
		if a.HasWorker(w.Name) || !w.Clearance.Meets(required) {
			continue
		}
		resolutions = append(resolutions, models.Resolution{
			ID:          fmt.Sprintf("%s-r%d", conflict.ID, len(resolutions)+1),
			Type:        models.ResolutionReassign,
			Description: fmt.Sprintf("Replace %s with %s (%s clearance)", replace, w.Name, w.Clearance),
			Changes: []models.FieldChange{{
				AssignmentID:  a.ID,
				ReplaceWorker: replace,
				NewWorker:     w.Name,
			}},
			Benefit: models.ResolutionBenefit{
				TimeSavedMinutes:  conflict.Impact.TimeLostMinutes,
				CostReduction:     conflict.Impact.CostDelta,
				EfficiencyGainPct: conflict.Impact.EfficiencyLossPct,
			},
		})
	}
	return resolutions
}
