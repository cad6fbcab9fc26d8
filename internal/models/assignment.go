package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// AssignmentStatus tracks an assignment through its lifecycle.
type AssignmentStatus string

const (
	AssignmentStatusScheduled  AssignmentStatus = "scheduled"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusScheduled, AssignmentStatusInProgress, AssignmentStatusCompleted, AssignmentStatusCancelled:
		return true
	}
	return false
}

// Assignment is one crew-to-site scheduling unit for a day of the week.
// Hours apply to the assignment as a whole, not per worker.
type Assignment struct {
	ID         string           `db:"id" json:"id"`
	DayOfWeek  string           `db:"day_of_week" json:"day_of_week"`
	ClientName string           `db:"client_name" json:"client_name"`
	SiteName   string           `db:"site_name" json:"site_name"`
	Workers    pq.StringArray   `db:"workers" json:"workers"`
	Hours      float64          `db:"hours" json:"hours"`
	StartTime  string           `db:"start_time" json:"start_time,omitempty"`
	Status     AssignmentStatus `db:"status" json:"status"`
	Recurring  bool             `db:"recurring" json:"recurring"`
	Notes      string           `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// Cancelled reports whether the assignment is excluded from scheduling checks.
func (a Assignment) Cancelled() bool {
	return a.Status == AssignmentStatusCancelled
}

// HasWorker reports whether the named worker is on the assignment.
func (a Assignment) HasWorker(name string) bool {
	for _, w := range a.Workers {
		if w == name {
			return true
		}
	}
	return false
}

// AssignmentPatch carries a partial assignment for validation or update.
// Nil fields are left untouched when merged onto an existing record.
type AssignmentPatch struct {
	DayOfWeek  *string           `json:"day_of_week,omitempty"`
	ClientName *string           `json:"client_name,omitempty"`
	SiteName   *string           `json:"site_name,omitempty"`
	Workers    *[]string         `json:"workers,omitempty"`
	Hours      *float64          `json:"hours,omitempty"`
	StartTime  *string           `json:"start_time,omitempty"`
	Status     *AssignmentStatus `json:"status,omitempty"`
	Recurring  *bool             `json:"recurring,omitempty"`
	Notes      *string           `json:"notes,omitempty"`
}

// ApplyTo merges the patch onto a copy of the assignment.
func (p AssignmentPatch) ApplyTo(a Assignment) Assignment {
	if p.DayOfWeek != nil {
		a.DayOfWeek = *p.DayOfWeek
	}
	if p.ClientName != nil {
		a.ClientName = *p.ClientName
	}
	if p.SiteName != nil {
		a.SiteName = *p.SiteName
	}
	if p.Workers != nil {
		a.Workers = append(pq.StringArray{}, *p.Workers...)
	}
	if p.Hours != nil {
		a.Hours = *p.Hours
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Recurring != nil {
		a.Recurring = *p.Recurring
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	return a
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	DayOfWeek  string
	ClientName string
	Worker     string
	Status     string
	Page       int
	PageSize   int
}

var dayNameIndex = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

var dayIndexName = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

// NormalizeDay uppercases and trims a day-of-week name, returning "" for
// anything outside Monday-Sunday.
func NormalizeDay(raw string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := dayNameIndex[name]; !ok {
		return ""
	}
	return name
}

// DayIndex returns the 1-based weekday index for a day name, 0 when unknown.
func DayIndex(name string) int {
	return dayNameIndex[strings.ToUpper(strings.TrimSpace(name))]
}

// DayName returns the canonical name for a 1-based weekday index.
func DayName(index int) string {
	return dayIndexName[index]
}

// WeekDays lists the canonical day names Monday through Sunday.
func WeekDays() []string {
	return []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}
}
