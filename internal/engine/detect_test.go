package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/models"
)

func TestDetectDoubleBooking(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
			assignment("a2", "MONDAY", "Borealis", "Lab", []string{"Ann"}, 2, "14:00"),
			assignment("a3", "TUESDAY", "Acme", "HQ", []string{"Ben"}, 4, "09:00"),
		},
		Workers: roster(),
	}

	conflicts := New(nil).DetectConflicts(snap)
	double := byType(conflicts, models.ConflictDoubleBooking)
	require.Len(t, double, 1)
	assert.Equal(t, models.SeverityHigh, double[0].Severity)
	assert.Equal(t, "double-ann-monday", double[0].ID)
	assert.ElementsMatch(t, []string{"a1", "a2"}, double[0].AssignmentIDs)
	assert.Equal(t, 30, double[0].Impact.TimeLostMinutes)
	assert.Equal(t, 50.0, double[0].Impact.CostDelta)
}

func TestDetectDoubleBookingCriticalAboveTwo(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 2, ""),
			assignment("a2", "MONDAY", "Borealis", "Lab", []string{"Ann"}, 2, ""),
			assignment("a3", "MONDAY", "Cirrus", "Depot", []string{"Ann"}, 2, ""),
		},
		Workers: roster(),
	}

	double := byType(New(nil).DetectConflicts(snap), models.ConflictDoubleBooking)
	require.Len(t, double, 1)
	assert.Equal(t, models.SeverityCritical, double[0].Severity)
	assert.Equal(t, 60, double[0].Impact.TimeLostMinutes)
}

func TestDetectDoubleBookingIgnoresCancelled(t *testing.T) {
	a2 := assignment("a2", "MONDAY", "Borealis", "Lab", []string{"Ann"}, 2, "")
	a2.Status = models.AssignmentStatusCancelled
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, ""),
			a2,
		},
		Workers: roster(),
	}

	conflicts := New(nil).DetectConflicts(snap)
	assert.Empty(t, byType(conflicts, models.ConflictDoubleBooking))
}

func TestDetectDoubleBookingMultiWorkerContributesPerWorker(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann", "Ben"}, 4, ""),
			assignment("a2", "MONDAY", "Borealis", "Lab", []string{"Ben"}, 2, ""),
		},
		Workers: roster(),
	}

	double := byType(New(nil).DetectConflicts(snap), models.ConflictDoubleBooking)
	require.Len(t, double, 1)
	assert.Equal(t, []string{"Ben"}, double[0].Workers)
}

func TestDetectTimeOverlap(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("x", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
			assignment("y", "MONDAY", "Acme", "Annex", []string{"Ann"}, 2, "11:00"),
		},
		Workers: roster(),
	}

	overlaps := byType(New(nil).DetectConflicts(snap), models.ConflictTimeOverlap)
	require.Len(t, overlaps, 1)
	assert.Equal(t, models.SeverityHigh, overlaps[0].Severity)
	assert.Equal(t, []string{"x", "y"}, overlaps[0].AssignmentIDs)
	assert.Equal(t, 60, overlaps[0].Impact.TimeLostMinutes)

	require.NotEmpty(t, overlaps[0].Resolutions)
	first := overlaps[0].Resolutions[0]
	assert.Equal(t, models.ResolutionReschedule, first.Type)
	require.Len(t, first.Changes, 1)
	assert.Equal(t, "y", first.Changes[0].AssignmentID)
	assert.Equal(t, "12:00", first.Changes[0].NewStartTime)
}

func TestDetectTimeOverlapClearsAfterReschedule(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("x", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
			assignment("y", "MONDAY", "Acme", "Annex", []string{"Ann"}, 2, "12:00"),
		},
		Workers: roster(),
	}

	overlaps := byType(New(nil).DetectConflicts(snap), models.ConflictTimeOverlap)
	assert.Empty(t, overlaps)
}

func TestDetectSecurityViolation(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "Vault", []string{"Cleo"}, 2, ""),
		},
		Workers: roster(),
		Sites: []models.Site{
			{ClientName: "Acme", SiteName: "Vault", RequiredClearance: models.ClearanceHigh},
		},
	}

	security := byType(New(nil).DetectConflicts(snap), models.ConflictSecurityViolation)
	require.Len(t, security, 1)
	assert.Equal(t, models.SeverityCritical, security[0].Severity)
	assert.Equal(t, "security-a1", security[0].ID)
	assert.Equal(t, []string{"Cleo"}, security[0].Workers)

	// Ann holds high clearance and is free: offered as a replacement.
	require.NotEmpty(t, security[0].Resolutions)
	assert.Equal(t, "Ann", security[0].Resolutions[0].Changes[0].NewWorker)
	assert.Equal(t, "Cleo", security[0].Resolutions[0].Changes[0].ReplaceWorker)
}

func TestDetectSecurityHighClearanceNeverUnauthorized(t *testing.T) {
	for _, required := range []models.Clearance{models.ClearanceLow, models.ClearanceMedium, models.ClearanceHigh} {
		snap := Snapshot{
			Assignments: []models.Assignment{
				assignment("a1", "MONDAY", "Acme", "Vault", []string{"Ann"}, 2, ""),
			},
			Workers: roster(),
			Sites: []models.Site{
				{ClientName: "Acme", SiteName: "Vault", RequiredClearance: required},
			},
		}
		security := byType(New(nil).DetectConflicts(snap), models.ConflictSecurityViolation)
		assert.Empty(t, security, "required=%s", required)
	}
}

func TestDetectSecuritySkipsUnregisteredSites(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "Unknown", []string{"Cleo"}, 2, ""),
		},
		Workers: roster(),
		Sites: []models.Site{
			{ClientName: "Acme", SiteName: "Vault", RequiredClearance: models.ClearanceHigh},
			{ClientName: "Acme", SiteName: "Lobby"},
		},
	}

	security := byType(New(nil).DetectConflicts(snap), models.ConflictSecurityViolation)
	assert.Empty(t, security)
}

func TestDetectSecurityNoCandidatesYieldsEmptyResolutions(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "Vault", []string{"Cleo"}, 2, ""),
		},
		Workers: []models.Worker{
			{Name: "Cleo", Clearance: models.ClearanceLow, Active: true},
			{Name: "Dara", Clearance: models.ClearanceMedium, Active: true},
		},
		Sites: []models.Site{
			{ClientName: "Acme", SiteName: "Vault", RequiredClearance: models.ClearanceHigh},
		},
	}

	security := byType(New(nil).DetectConflicts(snap), models.ConflictSecurityViolation)
	require.Len(t, security, 1)
	assert.Empty(t, security[0].Resolutions)
}

func TestDetectWorkloadImbalance(t *testing.T) {
	// A and B carry 20h each, C carries 2h; mean 14h, threshold 30%.
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 10, ""),
			assignment("a2", "WEDNESDAY", "Acme", "HQ", []string{"Ann"}, 10, ""),
			assignment("b1", "TUESDAY", "Borealis", "Lab", []string{"Ben"}, 10, ""),
			assignment("b2", "THURSDAY", "Borealis", "Lab", []string{"Ben"}, 10, ""),
			assignment("c1", "FRIDAY", "Cirrus", "Depot", []string{"Cleo"}, 2, ""),
		},
		Workers: roster(),
	}

	imbalance := byType(New(nil).DetectConflicts(snap), models.ConflictWorkloadImbalance)
	require.Len(t, imbalance, 1)
	conflict := imbalance[0]
	assert.Equal(t, models.SeverityMedium, conflict.Severity)
	assert.Contains(t, conflict.Workers, "Ann")
	assert.Contains(t, conflict.Workers, "Ben")
	assert.Contains(t, conflict.Workers, "Cleo")

	require.NotEmpty(t, conflict.Resolutions)
	for _, res := range conflict.Resolutions {
		require.Len(t, res.Changes, 1)
		change := res.Changes[0]
		assert.Equal(t, "Cleo", change.NewWorker)
		// Cleo only works Friday; the moved assignment must be elsewhere.
		assert.NotEqual(t, "c1", change.AssignmentID)
	}
}

func TestDetectWorkloadBalancedSnapshotIsQuiet(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 8, ""),
			assignment("b1", "TUESDAY", "Borealis", "Lab", []string{"Ben"}, 8, ""),
			assignment("c1", "FRIDAY", "Cirrus", "Depot", []string{"Cleo"}, 8, ""),
		},
		Workers: roster(),
	}

	imbalance := byType(New(nil).DetectConflicts(snap), models.ConflictWorkloadImbalance)
	assert.Empty(t, imbalance)
}

func TestAttributedHoursEvenSplit(t *testing.T) {
	a := assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann", "Ben"}, 6, "")
	assert.Equal(t, 3.0, attributedHours(a))

	empty := assignment("a2", "MONDAY", "Acme", "HQ", nil, 6, "")
	assert.Equal(t, 0.0, attributedHours(empty))
}

func TestDetectLocationSpread(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 2, "09:00"),
			assignment("a2", "MONDAY", "Borealis", "Lab", []string{"Ann"}, 1, "12:00"),
		},
		Workers: roster(),
	}

	spread := byType(New(nil).DetectConflicts(snap), models.ConflictLocationSpread)
	require.Len(t, spread, 1)
	assert.Equal(t, models.SeverityLow, spread[0].Severity)
	assert.Equal(t, "route-ann-monday", spread[0].ID)

	require.Len(t, spread[0].Resolutions, 1)
	changes := spread[0].Resolutions[0].Changes
	require.Len(t, changes, 2)
	// Contiguous slots from 08:00, spaced by each assignment's hours.
	assert.Equal(t, "08:00", changes[0].NewStartTime)
	assert.Equal(t, "10:00", changes[1].NewStartTime)
}

func TestDetectConflictsDeterministic(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
			assignment("a2", "MONDAY", "Borealis", "Lab", []string{"Ann"}, 2, "11:00"),
			assignment("b1", "MONDAY", "Acme", "Vault", []string{"Cleo"}, 2, ""),
		},
		Workers: roster(),
		Sites: []models.Site{
			{ClientName: "Acme", SiteName: "Vault", RequiredClearance: models.ClearanceHigh},
		},
	}

	e := New(nil)
	first := e.DetectConflicts(snap)
	second := e.DetectConflicts(snap)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

// --- fixtures ---

func assignment(id, day, client, site string, workers []string, hours float64, start string) models.Assignment {
	return models.Assignment{
		ID:         id,
		DayOfWeek:  day,
		ClientName: client,
		SiteName:   site,
		Workers:    workers,
		Hours:      hours,
		StartTime:  start,
		Status:     models.AssignmentStatusScheduled,
	}
}

func roster() []models.Worker {
	return []models.Worker{
		{Name: "Ann", Clearance: models.ClearanceHigh, Active: true},
		{Name: "Ben", Clearance: models.ClearanceMedium, Active: true},
		{Name: "Cleo", Clearance: models.ClearanceLow, Active: true},
		{Name: "Dara", Clearance: models.ClearanceMedium, Active: false},
	}
}

func byType(conflicts []models.Conflict, t models.ConflictType) []models.Conflict {
	var result []models.Conflict
	for _, c := range conflicts {
		if c.Type == t {
			result = append(result, c)
		}
	}
	return result
}
