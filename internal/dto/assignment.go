package dto

import "github.com/askeland/crewplan-api/internal/models"

// CreateAssignmentRequest captures POST /assignments payload.
type CreateAssignmentRequest struct {
	DayOfWeek  string   `json:"dayOfWeek" validate:"required"`
	ClientName string   `json:"clientName" validate:"required"`
	SiteName   string   `json:"siteName" validate:"required"`
	Workers    []string `json:"workers" validate:"required,min=1,dive,required"`
	Hours      float64  `json:"hours" validate:"required,gt=0,lte=24"`
	StartTime  string   `json:"startTime" validate:"omitempty,len=5"`
	Recurring  bool     `json:"recurring"`
	Notes      string   `json:"notes"`
	Force      bool     `json:"force"`
}

// UpdateAssignmentRequest captures PATCH /assignments/:id payload. Nil fields
// are left untouched.
type UpdateAssignmentRequest struct {
	DayOfWeek  *string   `json:"dayOfWeek,omitempty"`
	ClientName *string   `json:"clientName,omitempty"`
	SiteName   *string   `json:"siteName,omitempty"`
	Workers    *[]string `json:"workers,omitempty" validate:"omitempty,min=1,dive,required"`
	Hours      *float64  `json:"hours,omitempty" validate:"omitempty,gt=0,lte=24"`
	StartTime  *string   `json:"startTime,omitempty" validate:"omitempty,len=5"`
	Status     *string   `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Recurring  *bool     `json:"recurring,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Force      bool      `json:"force"`
}

// Patch converts the update payload into a model-level patch.
func (r UpdateAssignmentRequest) Patch() models.AssignmentPatch {
	patch := models.AssignmentPatch{
		DayOfWeek:  r.DayOfWeek,
		ClientName: r.ClientName,
		SiteName:   r.SiteName,
		Workers:    r.Workers,
		Hours:      r.Hours,
		StartTime:  r.StartTime,
		Recurring:  r.Recurring,
		Notes:      r.Notes,
	}
	if r.Status != nil {
		status := models.AssignmentStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// ValidateAssignmentRequest captures POST /insights/validate payload. When
// AssignmentID is set the change is treated as an edit of that record.
type ValidateAssignmentRequest struct {
	AssignmentID string                  `json:"assignmentId,omitempty"`
	Change       UpdateAssignmentRequest `json:"change" validate:"required"`
}
