package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/audit"
	"github.com/sells-group/crm-reconcile/internal/deal"
	"github.com/sells-group/crm-reconcile/internal/match"
	"github.com/sells-group/crm-reconcile/internal/report"
	"github.com/sells-group/crm-reconcile/internal/source"
	"github.com/sells-group/crm-reconcile/internal/store"
	"github.com/sells-group/crm-reconcile/pkg/activecampaign"
	"github.com/sells-group/crm-reconcile/pkg/hubspot"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "reconcile.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		poolCfg := &store.PoolConfig{MaxConns: cfg.Store.MaxConns, MinConns: cfg.Store.MinConns}
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, poolCfg)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	if n, err := st.DeleteExpiredSnapshots(ctx); err != nil {
		zap.L().Warn("snapshot sweep failed", zap.Error(err))
	} else if n > 0 {
		zap.L().Debug("swept expired snapshots", zap.Int("deleted", n))
	}
	return st, nil
}

func initHubSpot() hubspot.Client {
	return hubspot.NewClient(cfg.HubSpot.Token,
		hubspot.WithBaseURL(cfg.HubSpot.BaseURL),
		hubspot.WithRateLimit(cfg.HubSpot.RateLimit),
	)
}

func initActiveCampaign() activecampaign.Client {
	return activecampaign.NewClient(cfg.ActiveCampaign.APIURL, cfg.ActiveCampaign.Token,
		activecampaign.WithRateLimit(cfg.ActiveCampaign.RateLimit),
	)
}

// initSource wires the platform clients into a record source, with
// store-backed snapshot caching unless noCache is set.
func initSource(st store.Store, noCache bool) source.Source {
	src := source.Source(source.NewClientSource(initHubSpot(), initActiveCampaign()))
	if !noCache && st != nil {
		src = source.NewCachedSource(src, st, cfg.Cache.TTL())
	}
	return src
}

func newReconciler() (*deal.Reconciler, error) {
	placeholder, err := cfg.Analysis.ParseMigrationDate()
	if err != nil {
		return nil, err
	}
	return deal.NewReconciler(deal.Config{PlaceholderDate: placeholder}), nil
}

func newEngine() (*report.Engine, error) {
	reconciler, err := newReconciler()
	if err != nil {
		return nil, err
	}

	catalog := audit.DefaultCatalog()
	if cfg.Analysis.FieldCatalog != "" {
		catalog, err = audit.LoadCatalog(cfg.Analysis.FieldCatalog)
		if err != nil {
			return nil, err
		}
	}

	return report.NewEngine(match.NewDetector(), reconciler, audit.NewAuditor(catalog)), nil
}
