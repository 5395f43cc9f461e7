package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/crm-reconcile/internal/match"
	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
	"github.com/sells-group/crm-reconcile/internal/source"
)

var (
	dedupeFormat  string
	dedupeNoCache bool
)

var dedupeCmd = &cobra.Command{
	Use:       "dedupe [contacts|companies|deals]",
	Short:     "Find duplicate records within HubSpot",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"contacts", "companies", "deals"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		object, sel, err := objectSelection(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, err := source.Fetch(ctx, initSource(st, dedupeNoCache), sel)
		if err != nil {
			return eris.Wrap(err, "fetch snapshots")
		}

		var records []model.Record
		switch object {
		case model.ObjectContact:
			records = snap.PrimaryContacts
		case model.ObjectCompany:
			records = snap.PrimaryCompanies
		case model.ObjectDeal:
			records = snap.PrimaryDeals
		}

		groups := match.NewDetector().Detect(records, object)

		if dedupeFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		}

		printDuplicates(object, len(records), groups)
		return nil
	},
}

func objectSelection(arg string) (model.ObjectType, source.Selection, error) {
	switch arg {
	case "contacts":
		return model.ObjectContact, source.Selection{Contacts: true}, nil
	case "companies":
		return model.ObjectCompany, source.Selection{Companies: true}, nil
	case "deals":
		return model.ObjectDeal, source.Selection{Deals: true}, nil
	default:
		return "", source.Selection{}, eris.Errorf("unknown object type: %s", arg)
	}
}

func printDuplicates(object model.ObjectType, total int, groups []model.DuplicateGroup) {
	fmt.Printf("Scanned %d %s records: %d duplicate groups\n", total, object, len(groups))
	for _, g := range groups {
		fmt.Printf("\n[%s] %s = %q (%d records)\n", g.Priority, g.RuleID, g.MatchedKey, len(g.Members))
		for i, m := range g.Members {
			marker := " "
			if i == g.PrimaryIndex {
				marker = "*"
			}
			fmt.Printf("  %s %s  %s\n", marker, m.RecordID(), normalize.DisplayName(m, object))
		}
	}
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeFormat, "format", "text", "output format (text, json)")
	dedupeCmd.Flags().BoolVar(&dedupeNoCache, "no-cache", false, "bypass the snapshot cache")
	rootCmd.AddCommand(dedupeCmd)
}
