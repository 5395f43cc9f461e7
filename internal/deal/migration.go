package deal

import (
	"strings"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

// Migration integrity issue labels. A deal can carry several at once.
const (
	IssueClosedMissingDate = "closed_deal_missing_close_date"
	IssueWonZeroAmount     = "closed_won_missing_or_zero_amount"
	IssueOpenWithCloseDate = "open_deal_has_close_date"
	IssueEarlyStageNoDate  = "early_stage_missing_close_date"
)

// ScanMigrationIssues runs the four post-import integrity checks over
// the CRM deals alone; no cross-platform join is needed. The checks are
// independent and non-exclusive: a deal with at least one triggered
// check yields one entry carrying every triggered label.
func (rc *Reconciler) ScanMigrationIssues(hsDeals []model.Record) []model.MigrationIssue {
	var out []model.MigrationIssue
	for _, d := range hsDeals {
		status := rc.cfg.Statuses.Status(d)
		closed := normalize.Closed(status)
		_, hasDate := normalize.CloseDate(d)
		amt, hasAmt := normalize.Amount(d)
		stage := strings.ToLower(normalize.RawStage(d))

		var issues []string
		advisoryOnly := true

		if closed && !hasDate {
			issues = append(issues, IssueClosedMissingDate)
			advisoryOnly = false
		}
		if status == model.StatusWon && (!hasAmt || amt == 0) {
			issues = append(issues, IssueWonZeroAmount)
			advisoryOnly = false
		}
		if !closed && hasDate {
			issues = append(issues, IssueOpenWithCloseDate)
			advisoryOnly = false
		}
		// Advisory: early-stage deals often predate close dates, so a
		// missing one is flagged but not necessarily wrong.
		if (strings.Contains(stage, "appointment") || strings.Contains(stage, "qualified")) && !hasDate {
			issues = append(issues, IssueEarlyStageNoDate)
		}

		if len(issues) == 0 {
			continue
		}
		priority := model.PriorityHigh
		if advisoryOnly {
			priority = model.PriorityLow
		}
		out = append(out, model.MigrationIssue{Deal: d, Issues: issues, Priority: priority})
	}
	return out
}
