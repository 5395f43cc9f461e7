package deal

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

// CloseDateUpdater is the write surface the fix workflow needs from the
// primary CRM client.
type CloseDateUpdater interface {
	GetDeal(ctx context.Context, id string) (model.PrimaryRecord, error)
	UpdateDealCloseDate(ctx context.Context, id string, closeDate time.Time) error
}

// FixResult tallies the outcome of one close-date correction pass.
type FixResult struct {
	DryRun  bool `json:"dry_run"`
	Updated int  `json:"updated"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
}

// FixCloseDates applies recommended close dates from the decision
// tree's findings back to the primary CRM. Only issue types with a
// trustworthy correct date are written: placeholder replacements and
// dates missing outright. Each deal is re-fetched immediately before
// writing and skipped if its close date no longer matches the state the
// finding was based on, which defends against concurrent external
// edits. In dry-run mode every lookup and decision runs but no write is
// issued.
func (rc *Reconciler) FixCloseDates(ctx context.Context, updater CloseDateUpdater, issues []model.CloseDateIssue, dryRun bool) (FixResult, error) {
	res := FixResult{DryRun: dryRun}
	log := rc.log.With(zap.Bool("dry_run", dryRun))

	for _, issue := range issues {
		if issue.CorrectDate == nil {
			res.Skipped++
			continue
		}
		switch issue.Type {
		case model.CloseDateMigrationDate, model.CloseDateMissingInPrimary:
		default:
			res.Skipped++
			continue
		}

		id := issue.Primary.RecordID()
		current, err := updater.GetDeal(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return res, eris.Wrap(err, "fixdates: fetch deal")
			}
			log.Warn("deal fetch failed", zap.String("deal_id", id), zap.Error(err))
			res.Failed++
			continue
		}

		if !rc.stillApplies(issue.Type, current) {
			log.Info("close date changed since analysis, skipping", zap.String("deal_id", id))
			res.Skipped++
			continue
		}

		if dryRun {
			log.Info("would update close date",
				zap.String("deal_id", id),
				zap.String("type", string(issue.Type)),
				zap.Time("correct_date", *issue.CorrectDate),
			)
			res.Updated++
			continue
		}

		if err := updater.UpdateDealCloseDate(ctx, id, *issue.CorrectDate); err != nil {
			log.Error("close date update failed", zap.String("deal_id", id), zap.Error(err))
			res.Failed++
			continue
		}
		log.Info("close date updated",
			zap.String("deal_id", id),
			zap.Time("correct_date", *issue.CorrectDate),
		)
		res.Updated++
	}

	return res, nil
}

// stillApplies re-checks the precondition the finding was based on
// against the deal's current state.
func (rc *Reconciler) stillApplies(issueType model.CloseDateIssueType, current model.PrimaryRecord) bool {
	date, has := normalize.CloseDate(current)
	switch issueType {
	case model.CloseDateMigrationDate:
		return has && sameDay(date, rc.cfg.PlaceholderDate)
	case model.CloseDateMissingInPrimary:
		return !has
	default:
		return false
	}
}
