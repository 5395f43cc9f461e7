package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crm-reconcile/internal/audit"
	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/source"
)

var (
	auditFormat  string
	auditNoCache bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report empty-field rates across both platforms",
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

		snap, err := source.Fetch(ctx, initSource(st, auditNoCache), source.Selection{
			Contacts:  true,
			Companies: true,
			Deals:     true,
		})
		if err != nil {
			return eris.Wrap(err, "fetch snapshots")
		}

		catalog := audit.DefaultCatalog()
		if cfg.Analysis.FieldCatalog != "" {
			catalog, err = audit.LoadCatalog(cfg.Analysis.FieldCatalog)
			if err != nil {
				return err
			}
		}
		auditor := audit.NewAuditor(catalog)

		audits := []model.EmptyFieldAudit{
			auditor.Audit(snap.PrimaryContacts, model.PlatformPrimary, model.ObjectContact),
			auditor.Audit(snap.PrimaryCompanies, model.PlatformPrimary, model.ObjectCompany),
			auditor.Audit(snap.PrimaryDeals, model.PlatformPrimary, model.ObjectDeal),
			auditor.Audit(snap.LegacyContacts, model.PlatformLegacy, model.ObjectContact),
			auditor.Audit(snap.LegacyDeals, model.PlatformLegacy, model.ObjectDeal),
		}

		if auditFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(audits)
		}

		for _, a := range audits {
			fmt.Printf("\n%s %s (%d records)\n", a.Platform, a.Object, a.Total)
			for _, s := range a.Stats {
				fmt.Printf("  %-12s %5d empty (%s%%)\n", s.Field, s.Count, s.Percentage)
				for _, ex := range s.Examples {
					fmt.Printf("               e.g. %s (%s)\n", ex.Display, ex.ID)
				}
			}
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditFormat, "format", "text", "output format (text, json)")
	auditCmd.Flags().BoolVar(&auditNoCache, "no-cache", false, "bypass the snapshot cache")
	rootCmd.AddCommand(auditCmd)
}
