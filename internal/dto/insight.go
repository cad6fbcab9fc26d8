package dto

import "github.com/askeland/crewplan-api/internal/models"

// ConflictQuery captures GET /insights/conflicts filters.
type ConflictQuery struct {
	AssignmentID string `form:"assignmentId"`
	Worker       string `form:"worker"`
	Severity     string `form:"severity" validate:"omitempty,oneof=critical high medium low"`
	WeekStart    string `form:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}

// SuggestionQuery captures GET /insights/suggestions filters.
type SuggestionQuery struct {
	WeekStart string `form:"weekStart" validate:"omitempty,datetime=2006-01-02"`
}

// ConflictsResponse bundles detected conflicts with their summary.
type ConflictsResponse struct {
	Conflicts []models.Conflict      `json:"conflicts"`
	Summary   models.ConflictSummary `json:"summary"`
	Generated string                 `json:"generatedAt"`
}

// SuggestionsResponse returns the ranked suggestion list.
type SuggestionsResponse struct {
	Suggestions []models.Suggestion `json:"suggestions"`
	Generated   string              `json:"generatedAt"`
}

// DismissSuggestionRequest captures POST /insights/suggestions/:id/dismiss.
type DismissSuggestionRequest struct {
	Reason string `json:"reason"`
}
