// Package deal reconciles deal records across the two platforms:
// status and value comparison, the close-date decision tree, and the
// post-import integrity scan.
package deal

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/match"
	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

const dayMillis = 86_400_000

// DefaultPlaceholderDate is the sentinel close date written mechanically
// during the bulk import, known to be wrong.
var DefaultPlaceholderDate = time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)

// Config carries the injected lookup state for one reconciler.
type Config struct {
	Statuses        normalize.StatusTable
	PlaceholderDate time.Time
}

// Reconciler compares deal snapshots from the two platforms.
type Reconciler struct {
	cfg Config
	log *zap.Logger
}

// NewReconciler builds a reconciler, filling in the default status
// table and placeholder date where the config leaves them zero.
func NewReconciler(cfg Config) *Reconciler {
	if cfg.Statuses.LegacyCodes == nil {
		cfg.Statuses = normalize.DefaultStatusTable()
	}
	if cfg.PlaceholderDate.IsZero() {
		cfg.PlaceholderDate = DefaultPlaceholderDate
	}
	return &Reconciler{
		cfg: cfg,
		log: zap.L().With(zap.String("component", "deal_reconciler")),
	}
}

func dealNameKey(r model.Record) (string, bool) {
	return normalize.TextKey(normalize.DealName(r))
}

// Reconcile joins the two deal collections by normalized title and
// produces every deal-level finding. Deals sharing a title on one side
// are each compared against every same-titled deal on the other side;
// resolving that ambiguity is the duplicate detector's job, not this
// one's.
func (rc *Reconciler) Reconcile(hsDeals, acDeals []model.Record) model.DealReconciliation {
	hsIx := match.BuildIndex(hsDeals, dealNameKey)
	acIx := match.BuildIndex(acDeals, dealNameKey)

	var out model.DealReconciliation

	for _, k := range acIx.Keys() {
		if !hsIx.Has(k) {
			out.MissingInPrimary = append(out.MissingInPrimary, acIx.Bucket(k)...)
		}
	}
	for _, k := range hsIx.Keys() {
		if !acIx.Has(k) {
			out.MissingInLegacy = append(out.MissingInLegacy, hsIx.Bucket(k)...)
			continue
		}
		for _, hs := range hsIx.Bucket(k) {
			for _, ac := range acIx.Bucket(k) {
				rc.comparePair(hs, ac, &out)
			}
		}
	}

	out.MigrationIssues = rc.ScanMigrationIssues(hsDeals)

	rc.log.Info("deal reconciliation complete",
		zap.Int("hubspot_deals", len(hsDeals)),
		zap.Int("activecampaign_deals", len(acDeals)),
		zap.Int("missing_in_hubspot", len(out.MissingInPrimary)),
		zap.Int("missing_in_activecampaign", len(out.MissingInLegacy)),
		zap.Int("status_mismatches", len(out.StatusMismatches)),
		zap.Int("value_mismatches", len(out.ValueMismatches)),
		zap.Int("date_mismatches", len(out.DateMismatches)),
		zap.Int("migration_issues", len(out.MigrationIssues)),
	)
	return out
}

func (rc *Reconciler) comparePair(hs, ac model.Record, out *model.DealReconciliation) {
	hsStatus := rc.cfg.Statuses.Status(hs)
	acStatus := rc.cfg.Statuses.Status(ac)

	if hsStatus != acStatus {
		out.StatusMismatches = append(out.StatusMismatches, model.StatusMismatch{
			Primary:       hs,
			Legacy:        ac,
			PrimaryStatus: hsStatus,
			LegacyStatus:  acStatus,
			Priority:      model.PriorityHigh,
		})
	}

	hsAmt, hsOK := normalize.Amount(hs)
	acAmt, acOK := normalize.Amount(ac)
	if hsOK && acOK && !normalize.MoneyEqual(hsAmt, acAmt) {
		out.ValueMismatches = append(out.ValueMismatches, model.ValueMismatch{
			Primary:       hs,
			Legacy:        ac,
			PrimaryAmount: hsAmt,
			LegacyAmount:  acAmt,
			Difference:    hsAmt - acAmt,
			Priority:      model.PriorityMedium,
		})
	}

	if issue := rc.closeDateIssue(hs, ac, hsStatus, acStatus); issue != nil {
		out.DateMismatches = append(out.DateMismatches, *issue)
	}
}

// closeDateIssue walks the close-date decision tree for one joined
// pair. Only won/lost deals are examined; the five cases are evaluated
// in order and the first match wins, so at most one issue fires per
// pair.
func (rc *Reconciler) closeDateIssue(hs, ac model.Record, hsStatus, acStatus model.Status) *model.CloseDateIssue {
	if !normalize.Closed(hsStatus) && !normalize.Closed(acStatus) {
		return nil
	}

	hsDate, hsHas := normalize.CloseDate(hs)
	acDate, acHas := normalize.CloseDate(ac)
	hsIsPlaceholder := hsHas && sameDay(hsDate, rc.cfg.PlaceholderDate)

	issue := model.CloseDateIssue{Primary: hs, Legacy: ac}
	if hsHas {
		issue.PrimaryDate = &hsDate
	}
	if acHas {
		issue.LegacyDate = &acDate
	}

	switch {
	case acHas && !hsHas:
		issue.Type = model.CloseDateMissingInPrimary
		issue.Priority = model.PriorityHigh
		issue.CorrectDate = &acDate

	// The placeholder check runs before the generic mismatch case so a
	// placeholder date is never reported as an ordinary mismatch.
	case hsIsPlaceholder && acHas:
		issue.Type = model.CloseDateMigrationDate
		issue.Priority = model.PriorityHigh
		issue.CorrectDate = &acDate

	case hsHas && acHas && !hsIsPlaceholder && millisApart(hsDate, acDate) > dayMillis:
		issue.Type = model.CloseDateMismatch
		issue.Priority = model.PriorityHigh
		issue.DayDiff = int(math.Round(float64(hsDate.UnixMilli()-acDate.UnixMilli()) / dayMillis))
		issue.CorrectDate = &acDate

	case hsHas && !acHas && !hsIsPlaceholder:
		issue.Type = model.CloseDateMissingInLegacy
		issue.Priority = model.PriorityMedium
		issue.CorrectDate = &hsDate

	case !hsHas && !acHas:
		// Won or lost with no close date anywhere: flagged for manual
		// resolution, the system never invents a date.
		issue.Type = model.CloseDateMissingBothSides
		issue.Priority = model.PriorityHigh

	default:
		return nil
	}
	return &issue
}

func millisApart(a, b time.Time) int64 {
	d := a.UnixMilli() - b.UnixMilli()
	if d < 0 {
		return -d
	}
	return d
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
