package model

import "time"

// Priority ranks a finding for human triage.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Status is the tri-state deal/contact status shared by both platforms,
// plus an explicit unknown for unrecognized codes. Unknown is never
// collapsed into open so it cannot mask a real mismatch.
type Status string

const (
	StatusOpen    Status = "open"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusUnknown Status = "unknown"
)

// DuplicateGroup is a set of records in one collection that share a
// normalized key under one matching rule. Members keep source-collection
// encounter order; PrimaryIndex marks the member reports treat as the
// record to keep (always the first encountered).
type DuplicateGroup struct {
	MatchedKey   string   `json:"matched_key"`
	RuleID       string   `json:"rule_id"`
	Priority     Priority `json:"priority"`
	PrimaryIndex int      `json:"primary_index"`
	Members      []Record `json:"members"`
}

// GapType classifies a cross-platform gap finding.
type GapType string

const (
	GapMissingInPrimary GapType = "missing_in_hubspot"
	GapMissingInLegacy  GapType = "missing_in_activecampaign"
	GapFieldMismatch    GapType = "field_mismatch"
	GapStatusMismatch   GapType = "status_mismatch"
	GapValueMismatch    GapType = "value_mismatch"
	GapCloseDateIssue   GapType = "close_date_issue"
	GapMigrationIssue   GapType = "migration_issue"
)

// ContactGaps holds the set difference between the two platforms'
// contact collections, joined by normalized email.
type ContactGaps struct {
	MissingInPrimary []Record `json:"missing_in_hubspot"`
	MissingInLegacy  []Record `json:"missing_in_activecampaign"`
}

// FieldDiff records one field whose values differ across a joined pair.
type FieldDiff struct {
	Field        string `json:"field"`
	PrimaryValue string `json:"hubspot_value"`
	LegacyValue  string `json:"activecampaign_value"`
}

// FieldMismatch is a joined contact pair with at least one differing field.
type FieldMismatch struct {
	Primary    Record      `json:"hubspot"`
	Legacy     Record      `json:"activecampaign"`
	Mismatches []FieldDiff `json:"mismatches"`
}

// StatusMismatch is a joined deal pair whose normalized statuses differ.
type StatusMismatch struct {
	Primary       Record   `json:"hubspot"`
	Legacy        Record   `json:"activecampaign"`
	PrimaryStatus Status   `json:"hubspot_status"`
	LegacyStatus  Status   `json:"activecampaign_status"`
	Priority      Priority `json:"priority"`
}

// ValueMismatch is a joined deal pair whose amounts differ beyond the
// comparison tolerance, after unit correction. Difference is signed,
// CRM amount minus legacy amount.
type ValueMismatch struct {
	Primary       Record   `json:"hubspot"`
	Legacy        Record   `json:"activecampaign"`
	PrimaryAmount float64  `json:"hubspot_amount"`
	LegacyAmount  float64  `json:"activecampaign_amount"`
	Difference    float64  `json:"difference"`
	Priority      Priority `json:"priority"`
}

// CloseDateIssueType names one branch of the close-date decision tree.
type CloseDateIssueType string

const (
	CloseDateMissingInPrimary CloseDateIssueType = "missing_close_date_in_hubspot"
	CloseDateMigrationDate    CloseDateIssueType = "migration_date_needs_update"
	CloseDateMismatch         CloseDateIssueType = "close_date_mismatch"
	CloseDateMissingInLegacy  CloseDateIssueType = "missing_close_date_in_ac"
	CloseDateMissingBothSides CloseDateIssueType = "both_missing_close_date"
)

// CloseDateIssue is one finding from the close-date decision tree for a
// joined won/lost deal pair. CorrectDate is nil when the system has no
// trustworthy value to recommend.
type CloseDateIssue struct {
	Type        CloseDateIssueType `json:"type"`
	Primary     Record             `json:"hubspot"`
	Legacy      Record             `json:"activecampaign"`
	PrimaryDate *time.Time         `json:"hubspot_close_date,omitempty"`
	LegacyDate  *time.Time         `json:"activecampaign_close_date,omitempty"`
	DayDiff     int                `json:"day_diff,omitempty"`
	CorrectDate *time.Time         `json:"correct_close_date,omitempty"`
	Priority    Priority           `json:"priority"`
}

// MigrationIssue is one CRM deal that failed at least one of the
// post-import integrity checks, with every triggered check listed.
type MigrationIssue struct {
	Deal     Record   `json:"deal"`
	Issues   []string `json:"issues"`
	Priority Priority `json:"priority"`
}

// DealReconciliation aggregates every deal-level finding for one run.
type DealReconciliation struct {
	MissingInPrimary []Record         `json:"missing_in_hubspot"`
	MissingInLegacy  []Record         `json:"missing_in_activecampaign"`
	StatusMismatches []StatusMismatch `json:"status_mismatches"`
	ValueMismatches  []ValueMismatch  `json:"value_mismatches"`
	DateMismatches   []CloseDateIssue `json:"date_mismatches"`
	MigrationIssues  []MigrationIssue `json:"migration_issues"`
}

// EmptyFieldStat reports how many records in one collection are missing a
// tracked field. Percentage is rendered to one decimal place.
type EmptyFieldStat struct {
	Field      string      `json:"field"`
	Count      int         `json:"count"`
	Percentage string      `json:"percentage"`
	Examples   []RecordRef `json:"examples,omitempty"`
}

// EmptyFieldAudit is the full empty-field result for one platform/object
// collection.
type EmptyFieldAudit struct {
	Platform Platform         `json:"platform"`
	Object   ObjectType       `json:"object_type"`
	Total    int              `json:"total_records"`
	Stats    []EmptyFieldStat `json:"stats"`
}
