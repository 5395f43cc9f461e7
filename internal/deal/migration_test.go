package deal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-reconcile/internal/model"
)

func TestScanMigrationIssues(t *testing.T) {
	deals := []model.Record{
		// (a) closed, no close date.
		hsDeal("h1", map[string]string{"dealname": "A", "dealstage": "closedwon", "amount": "100"}),
		// (b) won with zero amount (close date fine).
		hsDeal("h2", map[string]string{"dealname": "B", "dealstage": "closedwon", "amount": "0", "closedate": "2024-01-10T00:00:00Z"}),
		// (c) open with a close date.
		hsDeal("h3", map[string]string{"dealname": "C", "dealstage": "negotiation", "closedate": "2024-01-10T00:00:00Z"}),
		// (d) advisory only.
		hsDeal("h4", map[string]string{"dealname": "D", "dealstage": "appointmentscheduled"}),
		// clean.
		hsDeal("h5", map[string]string{"dealname": "E", "dealstage": "closedwon", "amount": "500", "closedate": "2024-01-10T00:00:00Z"}),
	}

	issues := NewReconciler(Config{}).ScanMigrationIssues(deals)

	require.Len(t, issues, 4)

	byID := map[string]model.MigrationIssue{}
	for _, i := range issues {
		byID[i.Deal.RecordID()] = i
	}

	require.Contains(t, byID, "h1")
	assert.Contains(t, byID["h1"].Issues, IssueClosedMissingDate)
	assert.Equal(t, model.PriorityHigh, byID["h1"].Priority)

	require.Contains(t, byID, "h2")
	assert.Equal(t, []string{IssueWonZeroAmount}, byID["h2"].Issues)

	require.Contains(t, byID, "h3")
	assert.Equal(t, []string{IssueOpenWithCloseDate}, byID["h3"].Issues)

	require.Contains(t, byID, "h4")
	assert.Equal(t, []string{IssueEarlyStageNoDate}, byID["h4"].Issues)
	assert.Equal(t, model.PriorityLow, byID["h4"].Priority)

	assert.NotContains(t, byID, "h5")
}

func TestScanMigrationIssues_ChecksAccumulate(t *testing.T) {
	// Won, no amount, no close date: checks (a) and (b) both trigger on
	// one deal and yield a single entry.
	deals := []model.Record{
		hsDeal("h1", map[string]string{"dealname": "A", "dealstage": "closedwon"}),
	}

	issues := NewReconciler(Config{}).ScanMigrationIssues(deals)

	require.Len(t, issues, 1)
	assert.ElementsMatch(t, []string{IssueClosedMissingDate, IssueWonZeroAmount}, issues[0].Issues)
}

func TestScanMigrationIssues_Empty(t *testing.T) {
	assert.Empty(t, NewReconciler(Config{}).ScanMigrationIssues(nil))
}
