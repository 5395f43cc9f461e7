package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/report"
	"github.com/sells-group/crm-reconcile/internal/source"
	"github.com/sells-group/crm-reconcile/internal/store"
)

var (
	analyzeFormat    string
	analyzeCSVDir    string
	analyzeXLSXPath  string
	analyzeFocus     bool
	analyzeNoCache   bool
	analyzeNoPersist bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full cross-platform reconciliation analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		r, err := runAnalysis(ctx, st, analyzeFocus, analyzeNoCache, !analyzeNoPersist)
		if err != nil {
			return err
		}

		if analyzeCSVDir != "" {
			if err := report.WriteCSV(analyzeCSVDir, r); err != nil {
				return err
			}
			zap.L().Info("wrote CSV report", zap.String("dir", analyzeCSVDir))
		}
		if analyzeXLSXPath != "" {
			if err := report.WriteXLSX(analyzeXLSXPath, r); err != nil {
				return err
			}
			zap.L().Info("wrote XLSX report", zap.String("path", analyzeXLSXPath))
		}

		return emitReport(r, analyzeFormat)
	},
}

// runAnalysis fetches the selected snapshots, builds the report, and
// optionally records the run in the store.
func runAnalysis(ctx context.Context, st store.Store, focusDeals, noCache, persist bool) (*model.ReconciliationReport, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}

	var run *model.Run
	if persist {
		run, err = st.CreateRun(ctx, "analyze")
		if err != nil {
			return nil, err
		}
	}

	fail := func(err error) (*model.ReconciliationReport, error) {
		if run != nil {
			if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
				zap.L().Warn("could not record run failure", zap.Error(ferr))
			}
		}
		return nil, err
	}

	sel := source.Selection{
		Contacts:  cfg.Analysis.IncludeContacts && !focusDeals,
		Companies: cfg.Analysis.IncludeCompanies && !focusDeals,
		Deals:     cfg.Analysis.IncludeDeals || focusDeals,
	}
	snap, err := source.Fetch(ctx, initSource(st, noCache), sel)
	if err != nil {
		return fail(eris.Wrap(err, "fetch snapshots"))
	}

	r := engine.Build(report.Inputs{
		PrimaryContacts:  snap.PrimaryContacts,
		PrimaryCompanies: snap.PrimaryCompanies,
		PrimaryDeals:     snap.PrimaryDeals,
		LegacyContacts:   snap.LegacyContacts,
		LegacyDeals:      snap.LegacyDeals,
		IncludeContacts:  cfg.Analysis.IncludeContacts,
		IncludeCompanies: cfg.Analysis.IncludeCompanies,
		IncludeDeals:     cfg.Analysis.IncludeDeals,
		FocusOnDeals:     focusDeals,
	})

	if run != nil {
		if err := st.CompleteRun(ctx, run.ID, &r.Summary); err != nil {
			zap.L().Warn("could not record run completion", zap.Error(err))
		}
	}

	zap.L().Info("analysis complete",
		zap.Int("duplicate_groups", r.Summary.DuplicateGroups),
		zap.Int("contact_gaps", r.Summary.ContactGaps),
		zap.Int("deal_date_issues", r.Summary.DealDateIssues),
		zap.Int("migration_issues", r.Summary.MigrationIssues),
	)
	return r, nil
}

// emitReport writes the report to stdout in the requested format.
func emitReport(r *model.ReconciliationReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "text":
		fmt.Print(report.FormatText(r))
		return nil
	default:
		return eris.Errorf("unknown format: %s", format)
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "output format (text, json)")
	analyzeCmd.Flags().StringVar(&analyzeCSVDir, "csv-dir", "", "also write per-finding CSV files to this directory")
	analyzeCmd.Flags().StringVar(&analyzeXLSXPath, "xlsx", "", "also write an XLSX workbook to this path")
	analyzeCmd.Flags().BoolVar(&analyzeFocus, "focus-deals", false, "skip contact and company analysis")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "bypass the snapshot cache")
	analyzeCmd.Flags().BoolVar(&analyzeNoPersist, "no-persist", false, "do not record this run in the store")
	rootCmd.AddCommand(analyzeCmd)
}
