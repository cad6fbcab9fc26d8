package dto

// CreateWorkerRequest captures POST /workers payload.
type CreateWorkerRequest struct {
	Name      string `json:"name" validate:"required"`
	Clearance string `json:"clearance" validate:"required,oneof=low medium high"`
	Active    *bool  `json:"active,omitempty"`
}

// UpdateWorkerRequest captures PATCH /workers/:id payload.
type UpdateWorkerRequest struct {
	Name      *string `json:"name,omitempty"`
	Clearance *string `json:"clearance,omitempty" validate:"omitempty,oneof=low medium high"`
	Active    *bool   `json:"active,omitempty"`
}

// UpsertSiteRequest captures site registry writes.
type UpsertSiteRequest struct {
	ClientName        string `json:"clientName" validate:"required"`
	SiteName          string `json:"siteName" validate:"required"`
	RequiredClearance string `json:"requiredClearance" validate:"omitempty,oneof=low medium high"`
}

// CreateVacationRequest captures POST /vacations payload. Dates are inclusive
// and formatted YYYY-MM-DD.
type CreateVacationRequest struct {
	WorkerName string `json:"workerName" validate:"required"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason"`
}
