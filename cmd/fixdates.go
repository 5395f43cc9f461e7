package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/source"
)

var fixdatesApply bool

// fixdates always fetches deals live. Writing corrections based on a
// stale snapshot would re-introduce the drift it is meant to remove.
var fixdatesCmd = &cobra.Command{
	Use:   "fixdates",
	Short: "Fix HubSpot deal close dates from ActiveCampaign",
	Long:  "Recomputes close-date findings from fresh snapshots and writes the recommended dates back to HubSpot. Runs dry by default; pass --apply to write.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("fixdates"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.CreateRun(ctx, "fixdates")
		if err != nil {
			return err
		}
		fail := func(err error) error {
			if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Warn("could not record run failure", zap.Error(ferr))
			}
			return err
		}

		reconciler, err := newReconciler()
		if err != nil {
			return fail(err)
		}

		hs := initHubSpot()
		src := source.NewClientSource(hs, initActiveCampaign())
		snap, err := source.Fetch(ctx, src, source.Selection{Deals: true})
		if err != nil {
			return fail(eris.Wrap(err, "fetch deals"))
		}

		dr := reconciler.Reconcile(snap.PrimaryDeals, snap.LegacyDeals)
		res, err := reconciler.FixCloseDates(ctx, source.NewUpdater(hs), dr.DateMismatches, !fixdatesApply)
		if err != nil {
			return fail(eris.Wrap(err, "fix close dates"))
		}

		summary := &model.ReportSummary{
			PrimaryDeals:   len(snap.PrimaryDeals),
			LegacyDeals:    len(snap.LegacyDeals),
			DealDateIssues: len(dr.DateMismatches),
		}
		if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
			zap.L().Warn("could not record run completion", zap.Error(err))
		}

		zap.L().Info("close-date fix finished",
			zap.Bool("dry_run", res.DryRun),
			zap.Int("updated", res.Updated),
			zap.Int("skipped", res.Skipped),
			zap.Int("failed", res.Failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	fixdatesCmd.Flags().BoolVar(&fixdatesApply, "apply", false, "write corrections to HubSpot instead of a dry run")
	rootCmd.AddCommand(fixdatesCmd)
}
