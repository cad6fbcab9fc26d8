package models

// SuggestionType discriminates conflict-derived suggestions from the
// standalone optimization families.
type SuggestionType string

const (
	SuggestionConflictResolution SuggestionType = "conflict_resolution"
	SuggestionTravelGrouping     SuggestionType = "travel_grouping"
	SuggestionWorkloadRebalance  SuggestionType = "workload_rebalance"
	SuggestionDaySmoothing       SuggestionType = "day_smoothing"
)

// ImpactTier buckets suggestions for ranking and display.
type ImpactTier string

const (
	ImpactTierHigh   ImpactTier = "high"
	ImpactTierMedium ImpactTier = "medium"
	ImpactTierLow    ImpactTier = "low"
)

var impactTierRank = map[ImpactTier]int{
	ImpactTierHigh:   3,
	ImpactTierMedium: 2,
	ImpactTierLow:    1,
}

// Rank returns a numeric ordering for the tier, 0 when unknown.
func (t ImpactTier) Rank() int {
	return impactTierRank[t]
}

// Suggestion is a ranked recommendation shown to the scheduler, either
// derived from a conflict resolution or produced by an optimization
// heuristic. Suggestions are transient and recomputed whenever inputs
// change; ids are deterministic so dismissals survive recomputation.
type Suggestion struct {
	ID          string            `json:"id"`
	Type        SuggestionType    `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    int               `json:"priority"`
	Tier        ImpactTier        `json:"tier"`
	ConflictID  string            `json:"conflict_id,omitempty"`
	Changes     []FieldChange     `json:"changes,omitempty"`
	Benefit     ResolutionBenefit `json:"benefit"`
}
