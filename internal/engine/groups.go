package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/askeland/crewplan-api/internal/models"
)

const minutesPerDay = 24 * 60

// workerDay keys a grouping of assignments by named worker and weekday.
type workerDay struct {
	Worker string
	Day    string
}

// groupByWorkerDay buckets non-cancelled assignments per named worker per
// day. An assignment with N workers contributes to N buckets.
func groupByWorkerDay(assignments []models.Assignment) map[workerDay][]models.Assignment {
	groups := make(map[workerDay][]models.Assignment)
	for _, a := range assignments {
		if a.Cancelled() {
			continue
		}
		day := models.NormalizeDay(a.DayOfWeek)
		if day == "" {
			continue
		}
		for _, worker := range a.Workers {
			if worker == "" {
				continue
			}
			key := workerDay{Worker: worker, Day: day}
			groups[key] = append(groups[key], a)
		}
	}
	return groups
}

// sortedGroupKeys orders group keys by worker then weekday so detection
// output is deterministic.
func sortedGroupKeys(groups map[workerDay][]models.Assignment) []workerDay {
	keys := make([]workerDay, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Worker != keys[j].Worker {
			return keys[i].Worker < keys[j].Worker
		}
		return models.DayIndex(keys[i].Day) < models.DayIndex(keys[j].Day)
	})
	return keys
}

// distinctIDs deduplicates assignment ids preserving first-seen order.
func distinctIDs(assignments []models.Assignment) []string {
	seen := make(map[string]bool, len(assignments))
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		ids = append(ids, a.ID)
	}
	return ids
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// formatClock renders minutes since midnight as "HH:MM", wrapping at 24h.
func formatClock(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// slug lowercases a name for use inside deterministic ids.
func slug(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.Join(strings.Fields(s), "-")
}

// activeWorkers filters the roster to active entries preserving order.
func activeWorkers(workers []models.Worker) []models.Worker {
	result := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		if w.Active {
			result = append(result, w)
		}
	}
	return result
}

// clearanceByWorker indexes roster clearance by worker name.
func clearanceByWorker(workers []models.Worker) map[string]models.Clearance {
	result := make(map[string]models.Clearance, len(workers))
	for _, w := range workers {
		result[w.Name] = w.Clearance
	}
	return result
}

// siteRequirements indexes opt-in clearance requirements by (client, site).
// Registry entries without a requirement are omitted.
func siteRequirements(sites []models.Site) map[models.SiteKey]models.Clearance {
	result := make(map[models.SiteKey]models.Clearance)
	for _, s := range sites {
		if s.RequiredClearance == "" {
			continue
		}
		result[s.Key()] = s.RequiredClearance
	}
	return result
}
