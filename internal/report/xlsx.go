package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/crm-reconcile/internal/model"
)

// WriteXLSX writes the report as a workbook with one sheet per finding
// collection plus a summary sheet.
func WriteXLSX(path string, r *model.ReconciliationReport) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, r); err != nil {
		return err
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"Duplicates", []string{"object_type", "rule", "priority", "matched_key", "member_count", "primary_id", "member_ids"}, duplicateRows(r)},
		{"Contact Gaps", []string{"gap_type", "record_id", "email"}, contactGapRows(r)},
		{"Field Mismatches", []string{"email", "field", "hubspot_value", "activecampaign_value"}, fieldMismatchRows(r)},
		{"Deal Issues", []string{"issue", "priority", "deal", "hubspot_id", "activecampaign_id", "detail"}, dealRows(r)},
		{"Empty Fields", []string{"platform", "object_type", "field", "count", "percentage"}, emptyFieldRows(r)},
	}
	for _, s := range sheets {
		if err := addSheet(f, s.name, s.header, s.rows); err != nil {
			return err
		}
	}

	return eris.Wrapf(f.Save(path), "report: save xlsx %s", path)
}

func addSummarySheet(f *xlsx.File, r *model.ReconciliationReport) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addPair := func(label string, value int) {
		row := sheet.AddRow()
		row.AddCell().Value = label
		row.AddCell().SetInt(value)
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Generated"
	header.AddCell().Value = r.GeneratedAt.Format("2006-01-02 15:04:05 UTC")

	addPair("HubSpot contacts", r.Summary.PrimaryContacts)
	addPair("HubSpot companies", r.Summary.PrimaryCompanies)
	addPair("HubSpot deals", r.Summary.PrimaryDeals)
	addPair("ActiveCampaign contacts", r.Summary.LegacyContacts)
	addPair("ActiveCampaign deals", r.Summary.LegacyDeals)
	addPair("Duplicate groups", r.Summary.DuplicateGroups)
	addPair("Contact gaps", r.Summary.ContactGaps)
	addPair("Field mismatches", r.Summary.FieldMismatches)
	addPair("Deal status issues", r.Summary.DealStatusIssues)
	addPair("Deal value issues", r.Summary.DealValueIssues)
	addPair("Deal close-date issues", r.Summary.DealDateIssues)
	addPair("Migration issues", r.Summary.MigrationIssues)

	sheet.AddRow()
	for _, rec := range r.Recommendations {
		row := sheet.AddRow()
		row.AddCell().Value = rec
	}
	return nil
}

func addSheet(f *xlsx.File, name string, header []string, rows [][]string) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}
	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}
	for _, row := range rows {
		xr := sheet.AddRow()
		for _, v := range row {
			xr.AddCell().Value = v
		}
	}
	return nil
}
