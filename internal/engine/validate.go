package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/askeland/crewplan-api/internal/models"
)

// hypotheticalID marks the placeholder assignment injected for a create.
const hypotheticalID = "proposed"

const incompleteWarning = "validation could not complete; change was not checked"

// ValidateChange gates one proposed create or edit before it is committed.
// The result is total: the gate never errors, and an internal fault
// degrades to a permissive verdict with a warning. Critical and high
// conflicts block; medium and low surface as warnings only.
func (e *Engine) ValidateChange(snap Snapshot, patch models.AssignmentPatch, existingID string) (result models.ValidationResult) {
	result = models.ValidationResult{CanProceed: true, Conflicts: []models.Conflict{}, Warnings: []string{}}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("validation gate failed", zap.Any("panic", r))
			result = models.ValidationResult{
				CanProceed: true,
				Conflicts:  []models.Conflict{},
				Warnings:   []string{incompleteWarning},
			}
		}
	}()

	hypothetical, targetID, ok := buildHypothetical(snap, patch, existingID)
	if !ok {
		// Incomplete input is not yet a validatable assignment.
		return result
	}

	scoped := []detector{
		{name: string(models.ConflictDoubleBooking), run: e.detectDoubleBooking},
		{name: string(models.ConflictTimeOverlap), run: e.detectTimeOverlap},
		{name: string(models.ConflictSecurityViolation), run: e.detectSecurityViolations},
	}

	isEdit := existingID != ""
	for _, d := range scoped {
		for _, conflict := range e.safeRun(d, hypothetical) {
			if !conflict.References(targetID) {
				continue
			}
			if isEdit && pairwiseConflict(conflict.Type) && !referencesOther(conflict, targetID) {
				// The edited assignment colliding with itself is not a conflict.
				continue
			}
			if conflict.Severity.Blocking() {
				result.Conflicts = append(result.Conflicts, conflict)
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", conflict.Title, conflict.Description))
			}
		}
	}

	result.HasConflicts = len(result.Conflicts) > 0
	result.CanProceed = !result.HasConflicts
	return result
}

// buildHypothetical constructs the snapshot the scoped detectors run
// against. Edits merge the patch onto the stored original in place; creates
// append a placeholder. Missing required fields, or an edit against an
// unknown id, short-circuit to "nothing to validate".
func buildHypothetical(snap Snapshot, patch models.AssignmentPatch, existingID string) (Snapshot, string, bool) {
	assignments := make([]models.Assignment, 0, len(snap.Assignments)+1)

	if existingID != "" {
		merged, found := models.Assignment{}, false
		for _, a := range snap.Assignments {
			if a.ID == existingID {
				merged = patch.ApplyTo(a)
				found = true
				assignments = append(assignments, merged)
				continue
			}
			assignments = append(assignments, a)
		}
		if !found || !validatable(merged) {
			return Snapshot{}, "", false
		}
		return Snapshot{Assignments: assignments, Workers: snap.Workers, Sites: snap.Sites}, existingID, true
	}

	created := patch.ApplyTo(models.Assignment{ID: hypotheticalID, Status: models.AssignmentStatusScheduled})
	if !validatable(created) {
		return Snapshot{}, "", false
	}
	assignments = append(assignments, snap.Assignments...)
	assignments = append(assignments, created)
	return Snapshot{Assignments: assignments, Workers: snap.Workers, Sites: snap.Sites}, hypotheticalID, true
}

// validatable requires the fields every detector needs: day, client, site.
func validatable(a models.Assignment) bool {
	return models.NormalizeDay(a.DayOfWeek) != "" && a.ClientName != "" && a.SiteName != ""
}

// pairwiseConflict reports whether the conflict type compares assignments
// against each other, where a self-match must be discounted on edits.
func pairwiseConflict(t models.ConflictType) bool {
	return t == models.ConflictDoubleBooking || t == models.ConflictTimeOverlap
}

func referencesOther(c models.Conflict, targetID string) bool {
	for _, id := range c.AssignmentIDs {
		if id != targetID {
			return true
		}
	}
	return false
}
