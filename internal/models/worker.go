package models

import (
	"strings"
	"time"
)

// Clearance is the ordered security tier a worker holds and a site requires.
type Clearance string

const (
	ClearanceLow    Clearance = "low"
	ClearanceMedium Clearance = "medium"
	ClearanceHigh   Clearance = "high"
)

var clearanceRank = map[Clearance]int{
	ClearanceLow:    1,
	ClearanceMedium: 2,
	ClearanceHigh:   3,
}

// Valid reports whether the clearance is a known tier.
func (c Clearance) Valid() bool {
	_, ok := clearanceRank[c]
	return ok
}

// Meets reports whether the clearance satisfies the required tier.
// An unknown required tier is treated as unmet.
func (c Clearance) Meets(required Clearance) bool {
	have, ok := clearanceRank[c]
	if !ok {
		return false
	}
	want, ok := clearanceRank[required]
	if !ok {
		return false
	}
	return have >= want
}

// ParseClearance normalises a raw clearance string, returning "" when unknown.
func ParseClearance(raw string) Clearance {
	c := Clearance(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return ""
	}
	return c
}

// Worker is a roster entry. The name is the unique scheduling key.
type Worker struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Clearance Clearance `db:"clearance" json:"clearance"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
