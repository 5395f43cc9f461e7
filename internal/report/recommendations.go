package report

import (
	"fmt"
	"strconv"

	"github.com/sells-group/crm-reconcile/internal/model"
)

// emptyFieldAlertPct is the empty-field rate above which a cleanup
// recommendation is emitted.
const emptyFieldAlertPct = 20.0

// Recommendations derives the priority-ordered suggestion list from the
// report's finding counts. The output is deterministic for identical
// findings: fixed ordering, no timestamps, no randomness.
func Recommendations(r *model.ReconciliationReport) []string {
	recs := []string{}

	if r.Deals != nil {
		migrationDates := 0
		missingDates := 0
		for _, issue := range r.Deals.DateMismatches {
			switch issue.Type {
			case model.CloseDateMigrationDate:
				migrationDates++
			case model.CloseDateMissingInPrimary, model.CloseDateMissingBothSides:
				missingDates++
			}
		}
		if migrationDates > 0 {
			recs = append(recs, fmt.Sprintf("URGENT: %d deals carry the migration placeholder close date; run fixdates to restore the real dates from ActiveCampaign", migrationDates))
		}
		if missingDates > 0 {
			recs = append(recs, fmt.Sprintf("%d closed deals are missing a close date in HubSpot; backfill from ActiveCampaign where available", missingDates))
		}
		if n := len(r.Deals.MigrationIssues); n > 0 {
			recs = append(recs, fmt.Sprintf("%d HubSpot deals failed migration integrity checks; review stage, amount, and close-date consistency", n))
		}
		if n := len(r.Deals.MissingInPrimary); n > 0 {
			recs = append(recs, fmt.Sprintf("%d ActiveCampaign deals have no HubSpot counterpart; confirm they were migrated", n))
		}
		if n := len(r.Deals.StatusMismatches); n > 0 {
			recs = append(recs, fmt.Sprintf("%d deal pairs disagree on won/lost status between platforms", n))
		}
		if n := len(r.Deals.ValueMismatches); n > 0 {
			recs = append(recs, fmt.Sprintf("%d deal pairs disagree on amount after cent conversion", n))
		}
	}

	if n := r.Summary.DuplicateGroups; n > 0 {
		recs = append(recs, fmt.Sprintf("%d duplicate groups found in HubSpot; merge HIGH-priority email and domain matches first", n))
	}
	if r.ContactGaps != nil {
		if n := len(r.ContactGaps.MissingInPrimary); n > 0 {
			recs = append(recs, fmt.Sprintf("%d ActiveCampaign contacts are missing from HubSpot", n))
		}
		if n := len(r.ContactGaps.MissingInLegacy); n > 0 {
			recs = append(recs, fmt.Sprintf("%d HubSpot contacts are missing from ActiveCampaign", n))
		}
	}
	if n := len(r.FieldMismatches); n > 0 {
		recs = append(recs, fmt.Sprintf("%d joined contacts have conflicting name or phone values", n))
	}

	for _, a := range r.EmptyFields {
		for _, s := range a.Stats {
			pct, err := strconv.ParseFloat(s.Percentage, 64)
			if err != nil || pct < emptyFieldAlertPct {
				continue
			}
			recs = append(recs, fmt.Sprintf("%s %s records are missing %q in %s%% of cases; schedule a data hygiene pass", a.Platform, a.Object, s.Field, s.Percentage))
		}
	}

	if len(recs) == 0 {
		recs = append(recs, "No reconciliation issues found")
	}
	return recs
}
