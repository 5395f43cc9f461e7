package model

import "strings"

// Platform identifies which system a record snapshot came from.
type Platform string

const (
	// PlatformPrimary is the CRM being migrated to (HubSpot role).
	PlatformPrimary Platform = "hubspot"
	// PlatformLegacy is the marketing platform being migrated from
	// (ActiveCampaign role).
	PlatformLegacy Platform = "activecampaign"
)

// ObjectType is the kind of CRM object a record represents.
type ObjectType string

const (
	ObjectContact ObjectType = "contact"
	ObjectCompany ObjectType = "company"
	ObjectDeal    ObjectType = "deal"
)

// Record is a read-only snapshot of one contact, company, or deal.
// The two platforms expose different field names; Raw returns the value
// stored under the platform's own name, and the normalize package is the
// single place those names are resolved to logical fields.
type Record interface {
	RecordID() string
	Source() Platform
	// Raw returns the raw field value, or "" when the field is absent.
	Raw(name string) string
}

// PrimaryRecord is a record fetched from the primary CRM.
type PrimaryRecord struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (r PrimaryRecord) RecordID() string       { return r.ID }
func (r PrimaryRecord) Source() Platform       { return PlatformPrimary }
func (r PrimaryRecord) Raw(name string) string { return r.Properties[name] }

// LegacyRecord is a record fetched from the legacy platform.
type LegacyRecord struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

func (r LegacyRecord) RecordID() string       { return r.ID }
func (r LegacyRecord) Source() Platform       { return PlatformLegacy }
func (r LegacyRecord) Raw(name string) string { return r.Fields[name] }

// RecordRef is a compact pointer to a record for report payloads.
type RecordRef struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// Ref builds a RecordRef using the given display value, falling back to
// the record ID when the display value is blank.
func Ref(r Record, display string) RecordRef {
	display = strings.TrimSpace(display)
	if display == "" {
		display = r.RecordID()
	}
	return RecordRef{ID: r.RecordID(), Display: display}
}
