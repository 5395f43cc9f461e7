package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

// WriteCSV writes one CSV file per finding collection into dir,
// creating it if needed. Collections with no findings still produce a
// header-only file so downstream diffing stays stable.
func WriteCSV(dir string, r *model.ReconciliationReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir %s", dir)
	}

	if err := writeCSVFile(filepath.Join(dir, "duplicates.csv"),
		[]string{"object_type", "rule", "priority", "matched_key", "member_count", "primary_id", "member_ids"},
		duplicateRows(r)); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(dir, "contact_gaps.csv"),
		[]string{"gap_type", "record_id", "email"},
		contactGapRows(r)); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(dir, "field_mismatches.csv"),
		[]string{"email", "field", "hubspot_value", "activecampaign_value"},
		fieldMismatchRows(r)); err != nil {
		return err
	}
	if err := writeCSVFile(filepath.Join(dir, "deal_issues.csv"),
		[]string{"issue", "priority", "deal", "hubspot_id", "activecampaign_id", "detail"},
		dealRows(r)); err != nil {
		return err
	}
	return writeCSVFile(filepath.Join(dir, "empty_fields.csv"),
		[]string{"platform", "object_type", "field", "count", "percentage"},
		emptyFieldRows(r))
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "report: write header %s", path)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "report: write row %s", path)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "report: flush %s", path)
}

func duplicateRows(r *model.ReconciliationReport) [][]string {
	var rows [][]string
	for _, object := range []model.ObjectType{model.ObjectContact, model.ObjectCompany, model.ObjectDeal} {
		for _, g := range r.Duplicates[object] {
			ids := ""
			for i, m := range g.Members {
				if i > 0 {
					ids += ";"
				}
				ids += m.RecordID()
			}
			rows = append(rows, []string{
				string(object), g.RuleID, string(g.Priority), g.MatchedKey,
				strconv.Itoa(len(g.Members)), g.Members[g.PrimaryIndex].RecordID(), ids,
			})
		}
	}
	return rows
}

func contactGapRows(r *model.ReconciliationReport) [][]string {
	var rows [][]string
	if r.ContactGaps == nil {
		return rows
	}
	for _, rec := range r.ContactGaps.MissingInPrimary {
		rows = append(rows, []string{string(model.GapMissingInPrimary), rec.RecordID(), normalize.Email(rec)})
	}
	for _, rec := range r.ContactGaps.MissingInLegacy {
		rows = append(rows, []string{string(model.GapMissingInLegacy), rec.RecordID(), normalize.Email(rec)})
	}
	return rows
}

func fieldMismatchRows(r *model.ReconciliationReport) [][]string {
	var rows [][]string
	for _, m := range r.FieldMismatches {
		for _, d := range m.Mismatches {
			rows = append(rows, []string{normalize.Email(m.Primary), d.Field, d.PrimaryValue, d.LegacyValue})
		}
	}
	return rows
}

func dealRows(r *model.ReconciliationReport) [][]string {
	var rows [][]string
	if r.Deals == nil {
		return rows
	}
	for _, rec := range r.Deals.MissingInPrimary {
		rows = append(rows, []string{string(model.GapMissingInPrimary), string(model.PriorityHigh),
			normalize.DealName(rec), "", rec.RecordID(), missingDealDetail(rec)})
	}
	for _, rec := range r.Deals.MissingInLegacy {
		rows = append(rows, []string{string(model.GapMissingInLegacy), string(model.PriorityMedium),
			normalize.DealName(rec), rec.RecordID(), "", missingDealDetail(rec)})
	}
	for _, m := range r.Deals.StatusMismatches {
		rows = append(rows, []string{string(model.GapStatusMismatch), string(m.Priority),
			normalize.DealName(m.Primary), m.Primary.RecordID(), m.Legacy.RecordID(),
			fmt.Sprintf("hubspot=%s activecampaign=%s", m.PrimaryStatus, m.LegacyStatus)})
	}
	for _, m := range r.Deals.ValueMismatches {
		rows = append(rows, []string{string(model.GapValueMismatch), string(m.Priority),
			normalize.DealName(m.Primary), m.Primary.RecordID(), m.Legacy.RecordID(),
			fmt.Sprintf("hubspot=%.2f activecampaign=%.2f diff=%.2f", m.PrimaryAmount, m.LegacyAmount, m.Difference)})
	}
	for _, issue := range r.Deals.DateMismatches {
		detail := string(issue.Type)
		if issue.CorrectDate != nil {
			detail += " correct=" + issue.CorrectDate.Format("2006-01-02")
		}
		rows = append(rows, []string{string(model.GapCloseDateIssue), string(issue.Priority),
			normalize.DealName(issue.Primary), issue.Primary.RecordID(), issue.Legacy.RecordID(), detail})
	}
	for _, m := range r.Deals.MigrationIssues {
		detail := ""
		for i, iss := range m.Issues {
			if i > 0 {
				detail += ";"
			}
			detail += iss
		}
		rows = append(rows, []string{string(model.GapMigrationIssue), string(m.Priority),
			normalize.DealName(m.Deal), m.Deal.RecordID(), "", detail})
	}
	return rows
}

// missingDealDetail carries the unit-corrected deal value so a
// missing-deal row is actionable without a second lookup.
func missingDealDetail(rec model.Record) string {
	amt, ok := normalize.Amount(rec)
	if !ok {
		return ""
	}
	return fmt.Sprintf("value=%.2f", amt)
}

func emptyFieldRows(r *model.ReconciliationReport) [][]string {
	var rows [][]string
	for _, a := range r.EmptyFields {
		for _, s := range a.Stats {
			rows = append(rows, []string{string(a.Platform), string(a.Object), s.Field,
				strconv.Itoa(s.Count), s.Percentage})
		}
	}
	return rows
}
