package engine

import "github.com/askeland/crewplan-api/internal/models"

// Summarize aggregates a detection pass into dashboard totals.
func Summarize(conflicts []models.Conflict) models.ConflictSummary {
	summary := models.ConflictSummary{
		BySeverity: map[models.ConflictSeverity]int{
			models.SeverityCritical: 0,
			models.SeverityHigh:     0,
			models.SeverityMedium:   0,
			models.SeverityLow:      0,
		},
	}
	var lossSum float64
	for _, c := range conflicts {
		summary.Total++
		summary.BySeverity[c.Severity]++
		summary.TotalTimeLostMinutes += c.Impact.TimeLostMinutes
		summary.TotalCostDelta += c.Impact.CostDelta
		lossSum += c.Impact.EfficiencyLossPct
	}
	if summary.Total > 0 {
		summary.AvgEfficiencyLossPct = lossSum / float64(summary.Total)
	}
	return summary
}

// FilterByAssignment keeps conflicts referencing the given assignment id.
func FilterByAssignment(conflicts []models.Conflict, assignmentID string) []models.Conflict {
	result := make([]models.Conflict, 0)
	for _, c := range conflicts {
		if c.References(assignmentID) {
			result = append(result, c)
		}
	}
	return result
}

// FilterByWorker keeps conflicts naming the given worker.
func FilterByWorker(conflicts []models.Conflict, worker string) []models.Conflict {
	result := make([]models.Conflict, 0)
	for _, c := range conflicts {
		if c.Involves(worker) {
			result = append(result, c)
		}
	}
	return result
}

// FilterBySeverity keeps conflicts of the given severity.
func FilterBySeverity(conflicts []models.Conflict, severity models.ConflictSeverity) []models.Conflict {
	result := make([]models.Conflict, 0)
	for _, c := range conflicts {
		if c.Severity == severity {
			result = append(result, c)
		}
	}
	return result
}
