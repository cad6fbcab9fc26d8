package models

import "time"

// Vacation is a leave window for a worker. Dates are inclusive.
type Vacation struct {
	ID         string    `db:"id" json:"id"`
	WorkerName string    `db:"worker_name" json:"worker_name"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the given date falls inside the leave window.
func (v Vacation) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	start := v.StartDate.Truncate(24 * time.Hour)
	end := v.EndDate.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}
