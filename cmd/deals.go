package main

import (
	"github.com/spf13/cobra"
)

var (
	dealsFormat  string
	dealsNoCache bool
)

// deals is analyze with the contact and company passes skipped. It
// exists because the deal reconciliation is the part run most often
// during migration cleanup.
var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "Reconcile deals between the two platforms",
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

		r, err := runAnalysis(ctx, st, true, dealsNoCache, true)
		if err != nil {
			return err
		}
		return emitReport(r, dealsFormat)
	},
}

func init() {
	dealsCmd.Flags().StringVar(&dealsFormat, "format", "text", "output format (text, json)")
	dealsCmd.Flags().BoolVar(&dealsNoCache, "no-cache", false, "bypass the snapshot cache")
	rootCmd.AddCommand(dealsCmd)
}
