package report

import (
	"fmt"
	"strings"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

// FormatText renders a human-readable summary of the report.
func FormatText(r *model.ReconciliationReport) string {
	var b strings.Builder

	b.WriteString("# CRM Reconciliation Report\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- HubSpot: %d contacts, %d companies, %d deals\n",
		r.Summary.PrimaryContacts, r.Summary.PrimaryCompanies, r.Summary.PrimaryDeals)
	fmt.Fprintf(&b, "- ActiveCampaign: %d contacts, %d deals\n",
		r.Summary.LegacyContacts, r.Summary.LegacyDeals)
	fmt.Fprintf(&b, "- Duplicate groups: %d\n", r.Summary.DuplicateGroups)
	fmt.Fprintf(&b, "- Contact gaps: %d\n", r.Summary.ContactGaps)
	fmt.Fprintf(&b, "- Field mismatches: %d\n", r.Summary.FieldMismatches)
	fmt.Fprintf(&b, "- Deal issues: %d status, %d value, %d close-date, %d migration\n\n",
		r.Summary.DealStatusIssues, r.Summary.DealValueIssues,
		r.Summary.DealDateIssues, r.Summary.MigrationIssues)

	for _, object := range []model.ObjectType{model.ObjectContact, model.ObjectCompany, model.ObjectDeal} {
		groups := r.Duplicates[object]
		if len(groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## Duplicate %ss (%d groups)\n", object, len(groups))
		for _, g := range groups {
			fmt.Fprintf(&b, "- [%s] rule=%s key=%q members=%d (keep %s)\n",
				g.Priority, g.RuleID, g.MatchedKey, len(g.Members), g.Members[g.PrimaryIndex].RecordID())
		}
		b.WriteString("\n")
	}

	if r.Deals != nil && len(r.Deals.MissingInPrimary)+len(r.Deals.MissingInLegacy) > 0 {
		fmt.Fprintf(&b, "## Missing deals (%d)\n",
			len(r.Deals.MissingInPrimary)+len(r.Deals.MissingInLegacy))
		for _, rec := range r.Deals.MissingInPrimary {
			writeMissingDeal(&b, "not in HubSpot", rec)
		}
		for _, rec := range r.Deals.MissingInLegacy {
			writeMissingDeal(&b, "not in ActiveCampaign", rec)
		}
		b.WriteString("\n")
	}

	if r.Deals != nil && len(r.Deals.DateMismatches) > 0 {
		fmt.Fprintf(&b, "## Close-date issues (%d)\n", len(r.Deals.DateMismatches))
		for _, issue := range r.Deals.DateMismatches {
			line := fmt.Sprintf("- [%s] %s deal=%q", issue.Priority, issue.Type,
				normalize.DealName(issue.Primary))
			if issue.CorrectDate != nil {
				line += " correct=" + issue.CorrectDate.Format("2006-01-02")
			}
			if issue.Type == model.CloseDateMismatch {
				line += fmt.Sprintf(" (off by %d days)", issue.DayDiff)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	return b.String()
}

func writeMissingDeal(b *strings.Builder, label string, rec model.Record) {
	line := fmt.Sprintf("- %s: %q", label, normalize.DealName(rec))
	if detail := missingDealDetail(rec); detail != "" {
		line += " " + detail
	}
	b.WriteString(line + "\n")
}
