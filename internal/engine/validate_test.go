package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askeland/crewplan-api/internal/models"
)

func TestValidateChangeMissingRequiredFieldsIsPermissive(t *testing.T) {
	snap := Snapshot{Workers: roster()}
	patch := models.AssignmentPatch{
		ClientName: strPtr("Acme"),
		// no day, no site: not yet a validatable assignment
	}

	result := New(nil).ValidateChange(snap, patch, "")
	assert.True(t, result.CanProceed)
	assert.False(t, result.HasConflicts)
	assert.Empty(t, result.Conflicts)
}

func TestValidateChangeCreateDoubleBookingBlocks(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, ""),
		},
		Workers: roster(),
	}
	patch := models.AssignmentPatch{
		DayOfWeek:  strPtr("MONDAY"),
		ClientName: strPtr("Borealis"),
		SiteName:   strPtr("Lab"),
		Workers:    workersPtr("Ann"),
		Hours:      floatPtr(2),
	}

	result := New(nil).ValidateChange(snap, patch, "")
	assert.False(t, result.CanProceed)
	assert.True(t, result.HasConflicts)
	require.NotEmpty(t, result.Conflicts)
	assert.Equal(t, models.ConflictDoubleBooking, result.Conflicts[0].Type)
}

func TestValidateChangeUnrelatedEditProceeds(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
		},
		Workers: roster(),
	}
	patch := models.AssignmentPatch{Notes: strPtr("bring spare keys")}

	result := New(nil).ValidateChange(snap, patch, "a1")
	assert.True(t, result.CanProceed)
	assert.False(t, result.HasConflicts)
}

func TestValidateChangeEditDoesNotConflictWithItself(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
		},
		Workers: roster(),
	}
	// Shift the start time of the only Monday assignment.
	patch := models.AssignmentPatch{StartTime: strPtr("10:00")}

	result := New(nil).ValidateChange(snap, patch, "a1")
	assert.True(t, result.CanProceed)
	assert.Empty(t, result.Conflicts)
}

func TestValidateChangeSecurityBlockWithNoAlternative(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "Vault", []string{"Ann"}, 2, ""),
		},
		Workers: []models.Worker{
			{Name: "Ann", Clearance: models.ClearanceHigh, Active: true},
			{Name: "Cleo", Clearance: models.ClearanceLow, Active: true},
		},
		Sites: []models.Site{
			{ClientName: "Acme", SiteName: "Vault", RequiredClearance: models.ClearanceHigh},
		},
	}
	patch := models.AssignmentPatch{Workers: workersPtr("Cleo")}

	result := New(nil).ValidateChange(snap, patch, "a1")
	assert.False(t, result.CanProceed)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictSecurityViolation, result.Conflicts[0].Type)
	// Ann is the only cleared worker and she is on the assignment being
	// replaced; no automatic fix exists.
	assert.NotEmpty(t, result.Conflicts[0].Workers)
}

func TestValidateChangeOverlapOnEditBlocks(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("x", "MONDAY", "Acme", "HQ", []string{"Ann"}, 3, "09:00"),
			assignment("y", "TUESDAY", "Acme", "Annex", []string{"Ann"}, 2, "11:00"),
		},
		Workers: roster(),
	}
	patch := models.AssignmentPatch{DayOfWeek: strPtr("MONDAY")}

	result := New(nil).ValidateChange(snap, patch, "y")
	assert.False(t, result.CanProceed)
	require.NotEmpty(t, result.Conflicts)

	var sawOverlap bool
	for _, c := range result.Conflicts {
		if c.Type == models.ConflictTimeOverlap {
			sawOverlap = true
			assert.Contains(t, c.AssignmentIDs, "x")
		}
	}
	assert.True(t, sawOverlap)
}

func TestValidateChangeCleanCreateProceeds(t *testing.T) {
	snap := Snapshot{
		Assignments: []models.Assignment{
			assignment("a1", "MONDAY", "Acme", "HQ", []string{"Ann"}, 2, "09:00"),
		},
		Workers: roster(),
	}
	// A second job for Ann on another day: no double-booking, no overlap,
	// no clearance issue. Nothing blocks and nothing warns.
	patch := models.AssignmentPatch{
		DayOfWeek:  strPtr("TUESDAY"),
		ClientName: strPtr("Acme"),
		SiteName:   strPtr("Annex"),
		Workers:    workersPtr("Ann"),
		Hours:      floatPtr(2),
	}

	result := New(nil).ValidateChange(snap, patch, "")
	assert.True(t, result.CanProceed)
	assert.Empty(t, result.Warnings)
}

func TestValidateChangeUnknownEditIDIsPermissive(t *testing.T) {
	snap := Snapshot{Workers: roster()}
	patch := models.AssignmentPatch{DayOfWeek: strPtr("MONDAY")}

	result := New(nil).ValidateChange(snap, patch, "ghost")
	assert.True(t, result.CanProceed)
	assert.False(t, result.HasConflicts)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func workersPtr(names ...string) *[]string { return &names }
