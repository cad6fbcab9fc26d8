package dto

import "github.com/askeland/crewplan-api/internal/models"

// ReportRequest captures POST /reports/generate payload.
type ReportRequest struct {
	Format   models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Severity string              `json:"severity" validate:"omitempty,oneof=critical high medium low"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
