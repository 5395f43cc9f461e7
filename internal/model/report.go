package model

import "time"

// ReportSummary holds the headline counts for one reconciliation run.
type ReportSummary struct {
	PrimaryContacts  int `json:"hubspot_contacts"`
	PrimaryCompanies int `json:"hubspot_companies"`
	PrimaryDeals     int `json:"hubspot_deals"`
	LegacyContacts   int `json:"activecampaign_contacts"`
	LegacyDeals      int `json:"activecampaign_deals"`
	DuplicateGroups  int `json:"duplicate_groups"`
	ContactGaps      int `json:"contact_gaps"`
	FieldMismatches  int `json:"field_mismatches"`
	DealStatusIssues int `json:"deal_status_issues"`
	DealValueIssues  int `json:"deal_value_issues"`
	DealDateIssues   int `json:"deal_date_issues"`
	MigrationIssues  int `json:"migration_issues"`
}

// ReconciliationReport is the full structured output of one run. It has
// no cycles and is safe for direct JSON encoding.
type ReconciliationReport struct {
	GeneratedAt     time.Time                       `json:"generated_at"`
	Summary         ReportSummary                   `json:"summary"`
	Duplicates      map[ObjectType][]DuplicateGroup `json:"duplicates,omitempty"`
	ContactGaps     *ContactGaps                    `json:"contact_gaps,omitempty"`
	FieldMismatches []FieldMismatch                 `json:"field_mismatches,omitempty"`
	Deals           *DealReconciliation             `json:"deals,omitempty"`
	EmptyFields     []EmptyFieldAudit               `json:"empty_fields,omitempty"`
	Recommendations []string                        `json:"recommendations"`
}

// RunStatus represents the state of a persisted reconciliation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted record of one analyze or fixdates invocation.
type Run struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Status    RunStatus      `json:"status"`
	Summary   *ReportSummary `json:"summary,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
