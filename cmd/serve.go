package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/store"
)

// runFilterFromQuery maps list query parameters onto a store filter.
func runFilterFromQuery(r *http.Request) store.RunFilter {
	q := r.URL.Query()
	f := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		Kind:   q.Get("kind"),
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	return f
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server that triggers reconciliation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		// Set up routes
		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("POST /reconcile", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				FocusOnDeals bool `json:"focus_on_deals"`
				NoCache      bool `json:"no_cache"`
			}
			if r.ContentLength > 0 {
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
					return
				}
			}

			// Run the analysis asynchronously; progress is visible
			// through the runs endpoints.
			go func() {
				rep, err := runAnalysis(ctx, st, req.FocusOnDeals, req.NoCache, true)
				if err != nil {
					zap.L().Error("triggered analysis failed", zap.Error(err))
					return
				}
				zap.L().Info("triggered analysis complete",
					zap.Int("duplicate_groups", rep.Summary.DuplicateGroups),
					zap.Int("deal_date_issues", rep.Summary.DealDateIssues),
				)
			}()

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
		})

		mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
			runs, err := st.ListRuns(r.Context(), runFilterFromQuery(r))
			if err != nil {
				zap.L().Error("list runs failed", zap.Error(err))
				http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(runs)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
