package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crm-reconcile",
	Short: "Cross-platform CRM reconciliation and deduplication",
	Long:  "Compares HubSpot and ActiveCampaign snapshots: finds duplicates, contact gaps, field mismatches, deal discrepancies, and migration artifacts, and can push close-date fixes back to HubSpot.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
