package engine

import "github.com/askeland/crewplan-api/internal/models"

// attributedHours returns the share of an assignment's hours charged to one
// named worker. Multi-worker jobs split evenly. Keep every workload
// computation going through this function so the attribution policy can
// change in one place.
func attributedHours(a models.Assignment) float64 {
	if len(a.Workers) == 0 {
		return 0
	}
	return a.Hours / float64(len(a.Workers))
}

// workloadByWorker sums attributed hours per active worker over the
// non-cancelled assignments. Every active worker appears in the result,
// including those with no assignments.
func workloadByWorker(snap Snapshot) map[string]float64 {
	totals := make(map[string]float64)
	for _, w := range activeWorkers(snap.Workers) {
		totals[w.Name] = 0
	}
	for _, a := range snap.Assignments {
		if a.Cancelled() {
			continue
		}
		share := attributedHours(a)
		for _, worker := range a.Workers {
			if _, ok := totals[worker]; ok {
				totals[worker] += share
			}
		}
	}
	return totals
}
