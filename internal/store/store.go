package store

import (
	"context"
	"time"

	"github.com/sells-group/crm-reconcile/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Kind   string          `json:"kind,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for reconciliation runs and
// platform snapshot caching.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, kind string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.ReportSummary) error
	FailRun(ctx context.Context, runID string, runErr string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Snapshot cache. Snapshots are the raw record collections fetched
	// from a platform, stored as JSON so repeated analyses within the
	// TTL skip the API round trips.
	GetSnapshot(ctx context.Context, platform model.Platform, object model.ObjectType) ([]byte, error)
	SetSnapshot(ctx context.Context, platform model.Platform, object model.ObjectType, data []byte, ttl time.Duration) error
	DeleteExpiredSnapshots(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
