package deal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-reconcile/internal/model"
)

func hsDeal(id string, props map[string]string) model.Record {
	return model.PrimaryRecord{ID: id, Properties: props}
}

func acDeal(id string, fields map[string]string) model.Record {
	return model.LegacyRecord{ID: id, Fields: fields}
}

func TestReconcile_MissingDeals(t *testing.T) {
	// "Acme Renewal" exists only in the legacy platform: won, value in
	// cents, close date present.
	ac := []model.Record{
		acDeal("a1", map[string]string{
			"title": "Acme Renewal", "value": "150000", "status": "1", "edate": "2024-01-10 00:00:00",
		}),
	}
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Other Deal", "dealstage": "closedwon"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.MissingInPrimary, 1)
	assert.Equal(t, "a1", out.MissingInPrimary[0].RecordID())
	require.Len(t, out.MissingInLegacy, 1)
	assert.Equal(t, "h1", out.MissingInLegacy[0].RecordID())
}

func TestReconcile_StatusMismatch(t *testing.T) {
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Deal A", "dealstage": "closedwon"}),
	}
	ac := []model.Record{
		acDeal("a1", map[string]string{"title": "Deal A", "status": "2"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.StatusMismatches, 1)
	m := out.StatusMismatches[0]
	assert.Equal(t, model.StatusWon, m.PrimaryStatus)
	assert.Equal(t, model.StatusLost, m.LegacyStatus)
	assert.Equal(t, model.PriorityHigh, m.Priority)
}

func TestReconcile_UnknownStatusIsAMismatch(t *testing.T) {
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Deal A", "dealstage": "presentation"}),
	}
	ac := []model.Record{
		acDeal("a1", map[string]string{"title": "Deal A", "status": "9"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	// Unknown never collapses into open.
	require.Len(t, out.StatusMismatches, 1)
	assert.Equal(t, model.StatusOpen, out.StatusMismatches[0].PrimaryStatus)
	assert.Equal(t, model.StatusUnknown, out.StatusMismatches[0].LegacyStatus)
}

func TestReconcile_ValueMismatch(t *testing.T) {
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Deal A", "amount": "1500.00", "dealstage": "closedwon", "closedate": "2024-01-10T00:00:00Z"}),
	}
	ac := []model.Record{
		acDeal("a1", map[string]string{"title": "Deal A", "value": "140000", "status": "1", "edate": "2024-01-10 00:00:00"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.ValueMismatches, 1)
	v := out.ValueMismatches[0]
	assert.InDelta(t, 1500.00, v.PrimaryAmount, 0.001)
	assert.InDelta(t, 1400.00, v.LegacyAmount, 0.001)
	assert.InDelta(t, 100.00, v.Difference, 0.001)
}

func TestReconcile_ValueWithinToleranceNotEmitted(t *testing.T) {
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Deal A", "amount": "1500.00", "dealstage": "open"}),
	}
	ac := []model.Record{
		acDeal("a1", map[string]string{"title": "Deal A", "value": "150001", "status": "0"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)
	assert.Empty(t, out.ValueMismatches)
}

func TestReconcile_CrossProductJoin(t *testing.T) {
	// Two same-titled deals on each side: every pair is compared.
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Dup", "dealstage": "closedwon"}),
		hsDeal("h2", map[string]string{"dealname": "Dup", "dealstage": "closedwon"}),
	}
	ac := []model.Record{
		acDeal("a1", map[string]string{"title": "Dup", "status": "2"}),
		acDeal("a2", map[string]string{"title": "Dup", "status": "2"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)
	assert.Len(t, out.StatusMismatches, 4)
}

func TestReconcile_EmptyInputs(t *testing.T) {
	out := NewReconciler(Config{}).Reconcile(nil, nil)
	assert.Empty(t, out.MissingInPrimary)
	assert.Empty(t, out.MissingInLegacy)
	assert.Empty(t, out.StatusMismatches)
	assert.Empty(t, out.DateMismatches)
	assert.Empty(t, out.MigrationIssues)
}

// Close-date decision tree.

func closedPair(hsProps, acFields map[string]string) ([]model.Record, []model.Record) {
	hsProps["dealname"] = "Deal"
	hsProps["dealstage"] = "closedwon"
	acFields["title"] = "Deal"
	acFields["status"] = "1"
	return []model.Record{hsDeal("h1", hsProps)},
		[]model.Record{acDeal("a1", acFields)}
}

func TestCloseDateTree_MissingInPrimary(t *testing.T) {
	hs, ac := closedPair(map[string]string{}, map[string]string{"edate": "2024-01-10 00:00:00"})

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	issue := out.DateMismatches[0]
	assert.Equal(t, model.CloseDateMissingInPrimary, issue.Type)
	assert.Equal(t, model.PriorityHigh, issue.Priority)
	require.NotNil(t, issue.CorrectDate)
	assert.Equal(t, 10, issue.CorrectDate.Day())
}

func TestCloseDateTree_MigrationPlaceholder(t *testing.T) {
	hs, ac := closedPair(
		map[string]string{"closedate": "2025-07-16T00:00:00Z"},
		map[string]string{"edate": "2024-03-02 00:00:00"},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	issue := out.DateMismatches[0]
	assert.Equal(t, model.CloseDateMigrationDate, issue.Type)
	require.NotNil(t, issue.CorrectDate)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), issue.CorrectDate.UTC())
}

func TestCloseDateTree_PlaceholderNeverPlainMismatch(t *testing.T) {
	// Placeholder date but far from the legacy date: still a migration
	// update, never close_date_mismatch.
	hs, ac := closedPair(
		map[string]string{"closedate": "2025-07-16T00:00:00Z"},
		map[string]string{"edate": "2022-01-01 00:00:00"},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	assert.Equal(t, model.CloseDateMigrationDate, out.DateMismatches[0].Type)
}

func TestCloseDateTree_Mismatch(t *testing.T) {
	hs, ac := closedPair(
		map[string]string{"closedate": "2024-01-20T00:00:00Z"},
		map[string]string{"edate": "2024-01-10 00:00:00"},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	issue := out.DateMismatches[0]
	assert.Equal(t, model.CloseDateMismatch, issue.Type)
	assert.Equal(t, 10, issue.DayDiff)
	require.NotNil(t, issue.CorrectDate)
	assert.Equal(t, 10, issue.CorrectDate.Day())
}

func TestCloseDateTree_ExactlyOneDayApartNoIssue(t *testing.T) {
	hs, ac := closedPair(
		map[string]string{"closedate": "2024-01-11T00:00:00Z"},
		map[string]string{"edate": "2024-01-10 00:00:00"},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)
	assert.Empty(t, out.DateMismatches)
}

func TestCloseDateTree_OneDayAndOneSecondApart(t *testing.T) {
	hs, ac := closedPair(
		map[string]string{"closedate": "2024-01-11T00:00:01Z"},
		map[string]string{"edate": "2024-01-10 00:00:00"},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	assert.Equal(t, model.CloseDateMismatch, out.DateMismatches[0].Type)
	assert.Equal(t, 1, out.DateMismatches[0].DayDiff)
}

func TestCloseDateTree_NegativeDayDiff(t *testing.T) {
	hs, ac := closedPair(
		map[string]string{"closedate": "2024-01-10T00:00:00Z"},
		map[string]string{"edate": "2024-01-20 00:00:00"},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	assert.Equal(t, -10, out.DateMismatches[0].DayDiff)
}

func TestCloseDateTree_MissingInLegacy(t *testing.T) {
	hs, ac := closedPair(
		map[string]string{"closedate": "2024-01-10T00:00:00Z"},
		map[string]string{},
	)

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	issue := out.DateMismatches[0]
	assert.Equal(t, model.CloseDateMissingInLegacy, issue.Type)
	assert.Equal(t, model.PriorityMedium, issue.Priority)
	// Nothing to correct against: the recommended date is the CRM's own.
	require.NotNil(t, issue.CorrectDate)
	assert.Equal(t, issue.PrimaryDate.UnixMilli(), issue.CorrectDate.UnixMilli())
}

func TestCloseDateTree_BothMissing(t *testing.T) {
	hs, ac := closedPair(map[string]string{}, map[string]string{})

	out := NewReconciler(Config{}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	issue := out.DateMismatches[0]
	assert.Equal(t, model.CloseDateMissingBothSides, issue.Type)
	assert.Equal(t, model.PriorityHigh, issue.Priority)
	assert.Nil(t, issue.CorrectDate)
}

func TestCloseDateTree_OpenDealsSkipped(t *testing.T) {
	hs := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "Deal", "dealstage": "negotiation"}),
	}
	ac := []model.Record{
		acDeal("a1", map[string]string{"title": "Deal", "status": "0"}),
	}

	out := NewReconciler(Config{}).Reconcile(hs, ac)
	assert.Empty(t, out.DateMismatches)
}

func TestCloseDateTree_Exclusivity(t *testing.T) {
	// Exhaustive enumeration over date presence and placeholder use: at
	// most one issue fires per pair.
	placeholder := "2025-07-16T00:00:00Z"
	cases := []struct {
		name    string
		hsDate  string
		acDate  string
		expects int
	}{
		{"both present equal", "2024-01-10T00:00:00Z", "2024-01-10 00:00:00", 0},
		{"both present far apart", "2024-02-10T00:00:00Z", "2024-01-10 00:00:00", 1},
		{"hs placeholder ac present", placeholder, "2024-01-10 00:00:00", 1},
		{"hs only", "2024-01-10T00:00:00Z", "", 1},
		// Placeholder with no legacy date fires no branch: the
		// placeholder case needs a legacy date to correct from, and the
		// missing-in-legacy case needs a real CRM date to recommend.
		{"hs placeholder only", placeholder, "", 0},
		{"ac only", "", "2024-01-10 00:00:00", 1},
		{"neither", "", "", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hsProps := map[string]string{}
			if tc.hsDate != "" {
				hsProps["closedate"] = tc.hsDate
			}
			acFields := map[string]string{}
			if tc.acDate != "" {
				acFields["edate"] = tc.acDate
			}
			hs, ac := closedPair(hsProps, acFields)
			out := NewReconciler(Config{}).Reconcile(hs, ac)
			assert.Len(t, out.DateMismatches, tc.expects)
		})
	}
}

func TestCloseDateTree_PlaceholderOverride(t *testing.T) {
	custom := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	hs, ac := closedPair(
		map[string]string{"closedate": "2023-01-01T00:00:00Z"},
		map[string]string{"edate": "2024-03-02 00:00:00"},
	)

	out := NewReconciler(Config{PlaceholderDate: custom}).Reconcile(hs, ac)

	require.Len(t, out.DateMismatches, 1)
	assert.Equal(t, model.CloseDateMigrationDate, out.DateMismatches[0].Type)
}
