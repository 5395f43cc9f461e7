// Package report assembles component findings into one reconciliation
// report and renders it as JSON, text, CSV, or XLSX.
package report

import (
	"time"

	"github.com/sells-group/crm-reconcile/internal/audit"
	"github.com/sells-group/crm-reconcile/internal/deal"
	"github.com/sells-group/crm-reconcile/internal/gap"
	"github.com/sells-group/crm-reconcile/internal/match"
	"github.com/sells-group/crm-reconcile/internal/model"
)

// Inputs carries the fully materialized snapshots for one run and the
// object-type selection. With FocusOnDeals set, contact and company
// analysis is skipped regardless of the other flags.
type Inputs struct {
	PrimaryContacts  []model.Record
	PrimaryCompanies []model.Record
	PrimaryDeals     []model.Record
	LegacyContacts   []model.Record
	LegacyDeals      []model.Record

	IncludeContacts  bool
	IncludeCompanies bool
	IncludeDeals     bool
	FocusOnDeals     bool
}

// Engine wires the analysis components together. Each Build call is a
// pure function of its inputs, so one engine can serve repeated runs.
type Engine struct {
	detector   *match.Detector
	reconciler *deal.Reconciler
	auditor    *audit.Auditor
}

// NewEngine builds an engine from the injected components.
func NewEngine(detector *match.Detector, reconciler *deal.Reconciler, auditor *audit.Auditor) *Engine {
	return &Engine{detector: detector, reconciler: reconciler, auditor: auditor}
}

// Build runs every selected analysis and merges the findings.
func (e *Engine) Build(in Inputs) *model.ReconciliationReport {
	r := &model.ReconciliationReport{
		GeneratedAt: time.Now().UTC(),
		Duplicates:  map[model.ObjectType][]model.DuplicateGroup{},
	}

	contacts := in.IncludeContacts && !in.FocusOnDeals
	companies := in.IncludeCompanies && !in.FocusOnDeals
	deals := in.IncludeDeals || in.FocusOnDeals

	if contacts {
		r.Duplicates[model.ObjectContact] = e.detector.Detect(in.PrimaryContacts, model.ObjectContact)
		gaps := gap.AnalyzeContactGaps(in.PrimaryContacts, in.LegacyContacts)
		r.ContactGaps = &gaps
		r.FieldMismatches = gap.AnalyzeFieldMismatches(in.PrimaryContacts, in.LegacyContacts)
		r.EmptyFields = append(r.EmptyFields,
			e.auditor.Audit(in.PrimaryContacts, model.PlatformPrimary, model.ObjectContact),
			e.auditor.Audit(in.LegacyContacts, model.PlatformLegacy, model.ObjectContact),
		)
	}
	if companies {
		r.Duplicates[model.ObjectCompany] = e.detector.Detect(in.PrimaryCompanies, model.ObjectCompany)
		r.EmptyFields = append(r.EmptyFields,
			e.auditor.Audit(in.PrimaryCompanies, model.PlatformPrimary, model.ObjectCompany),
		)
	}
	if deals {
		r.Duplicates[model.ObjectDeal] = e.detector.Detect(in.PrimaryDeals, model.ObjectDeal)
		dr := e.reconciler.Reconcile(in.PrimaryDeals, in.LegacyDeals)
		r.Deals = &dr
		r.EmptyFields = append(r.EmptyFields,
			e.auditor.Audit(in.PrimaryDeals, model.PlatformPrimary, model.ObjectDeal),
			e.auditor.Audit(in.LegacyDeals, model.PlatformLegacy, model.ObjectDeal),
		)
	}

	r.Summary = summarize(in, r)
	r.Recommendations = Recommendations(r)
	return r
}

func summarize(in Inputs, r *model.ReconciliationReport) model.ReportSummary {
	s := model.ReportSummary{
		PrimaryContacts:  len(in.PrimaryContacts),
		PrimaryCompanies: len(in.PrimaryCompanies),
		PrimaryDeals:     len(in.PrimaryDeals),
		LegacyContacts:   len(in.LegacyContacts),
		LegacyDeals:      len(in.LegacyDeals),
	}
	for _, groups := range r.Duplicates {
		s.DuplicateGroups += len(groups)
	}
	if r.ContactGaps != nil {
		s.ContactGaps = len(r.ContactGaps.MissingInPrimary) + len(r.ContactGaps.MissingInLegacy)
	}
	s.FieldMismatches = len(r.FieldMismatches)
	if r.Deals != nil {
		s.DealStatusIssues = len(r.Deals.StatusMismatches)
		s.DealValueIssues = len(r.Deals.ValueMismatches)
		s.DealDateIssues = len(r.Deals.DateMismatches)
		s.MigrationIssues = len(r.Deals.MigrationIssues)
	}
	return s
}
