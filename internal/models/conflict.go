package models

// ConflictType discriminates the detection category a conflict belongs to.
type ConflictType string

const (
	ConflictDoubleBooking     ConflictType = "double_booking"
	ConflictTimeOverlap       ConflictType = "time_overlap"
	ConflictSecurityViolation ConflictType = "security_violation"
	ConflictWorkloadImbalance ConflictType = "workload_imbalance"
	ConflictLocationSpread    ConflictType = "location_spread"
)

// ConflictSeverity orders conflicts from critical down to low.
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "critical"
	SeverityHigh     ConflictSeverity = "high"
	SeverityMedium   ConflictSeverity = "medium"
	SeverityLow      ConflictSeverity = "low"
)

var severityRank = map[ConflictSeverity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// Rank returns a numeric ordering for the severity, 0 when unknown.
func (s ConflictSeverity) Rank() int {
	return severityRank[s]
}

// Valid reports whether the severity is a known tier.
func (s ConflictSeverity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Blocking reports whether the severity must block a proposed commit.
func (s ConflictSeverity) Blocking() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// ConflictImpact estimates the cost of leaving a conflict unresolved.
type ConflictImpact struct {
	TimeLostMinutes   int     `json:"time_lost_minutes"`
	CostDelta         float64 `json:"cost_delta"`
	EfficiencyLossPct float64 `json:"efficiency_loss_pct"`
}

// ResolutionType names the minimal kind of change a resolution proposes.
type ResolutionType string

const (
	ResolutionReassign   ResolutionType = "reassign"
	ResolutionReschedule ResolutionType = "reschedule"
	ResolutionSplit      ResolutionType = "split"
	ResolutionMerge      ResolutionType = "merge"
)

// FieldChange is one concrete edit a resolution applies to an assignment.
// Only the populated fields change; assignments are referenced by id and
// never mutated by the engine.
type FieldChange struct {
	AssignmentID  string `json:"assignment_id"`
	NewWorker     string `json:"new_worker,omitempty"`
	ReplaceWorker string `json:"replace_worker,omitempty"`
	NewDay        string `json:"new_day,omitempty"`
	NewStartTime  string `json:"new_start_time,omitempty"`
}

// ResolutionBenefit estimates the gain from applying a resolution.
type ResolutionBenefit struct {
	TimeSavedMinutes  int     `json:"time_saved_minutes"`
	CostReduction     float64 `json:"cost_reduction"`
	EfficiencyGainPct float64 `json:"efficiency_gain_pct"`
}

// Resolution is a candidate fix for a conflict.
type Resolution struct {
	ID          string            `json:"id"`
	Type        ResolutionType    `json:"type"`
	Description string            `json:"description"`
	Changes     []FieldChange     `json:"changes"`
	Benefit     ResolutionBenefit `json:"benefit"`
}

// Conflict is a detected inconsistency in the assignment set. Conflicts are
// derived on every pass and never persisted; ids are deterministic so the
// same snapshot always reproduces the same conflict set.
type Conflict struct {
	ID            string           `json:"id"`
	Type          ConflictType     `json:"type"`
	Severity      ConflictSeverity `json:"severity"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	AssignmentIDs []string         `json:"assignment_ids"`
	Workers       []string         `json:"workers,omitempty"`
	Resolutions   []Resolution     `json:"resolutions"`
	Impact        ConflictImpact   `json:"impact"`
}

// References reports whether the conflict involves the given assignment id.
func (c Conflict) References(assignmentID string) bool {
	for _, id := range c.AssignmentIDs {
		if id == assignmentID {
			return true
		}
	}
	return false
}

// Involves reports whether the conflict names the given worker.
func (c Conflict) Involves(worker string) bool {
	for _, w := range c.Workers {
		if w == worker {
			return true
		}
	}
	return false
}

// ConflictSummary aggregates a detection pass for dashboards.
type ConflictSummary struct {
	Total                int                      `json:"total"`
	BySeverity           map[ConflictSeverity]int `json:"by_severity"`
	TotalTimeLostMinutes int                      `json:"total_time_lost_minutes"`
	TotalCostDelta       float64                  `json:"total_cost_delta"`
	AvgEfficiencyLossPct float64                  `json:"avg_efficiency_loss_pct"`
}

// ValidationResult is the pre-commit gate verdict for one proposed change.
// The gate is total: it never errors, and internal faults degrade to a
// permissive result with an explanatory warning.
type ValidationResult struct {
	HasConflicts bool       `json:"has_conflicts"`
	Conflicts    []Conflict `json:"conflicts"`
	CanProceed   bool       `json:"can_proceed"`
	Warnings     []string   `json:"warnings"`
}
