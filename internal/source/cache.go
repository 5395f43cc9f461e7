package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/store"
)

// CachedSource wraps another Source with store-backed snapshot caching.
// Cache failures are never fatal: a broken read or write falls back to
// the inner source with a warning, so analysis still runs when the
// store is unhealthy.
type CachedSource struct {
	inner Source
	store store.Store
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedSource decorates src with TTL caching over st.
func NewCachedSource(src Source, st store.Store, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner: src,
		store: st,
		ttl:   ttl,
		log:   zap.L().With(zap.String("component", "source_cache")),
	}
}

func (c *CachedSource) Collection(ctx context.Context, platform model.Platform, object model.ObjectType) ([]model.Record, error) {
	data, err := c.store.GetSnapshot(ctx, platform, object)
	switch {
	case err != nil:
		c.log.Warn("snapshot read failed, fetching live",
			zap.String("platform", string(platform)), zap.String("object", string(object)), zap.Error(err))
	case data != nil:
		recs, err := unmarshalRecords(platform, data)
		if err == nil {
			c.log.Debug("snapshot cache hit",
				zap.String("platform", string(platform)), zap.String("object", string(object)),
				zap.Int("count", len(recs)))
			return recs, nil
		}
		c.log.Warn("snapshot decode failed, fetching live", zap.Error(err))
	}

	recs, err := c.inner.Collection(ctx, platform, object)
	if err != nil {
		return nil, err
	}

	if data, err := marshalRecords(platform, recs); err != nil {
		c.log.Warn("snapshot encode failed", zap.Error(err))
	} else if err := c.store.SetSnapshot(ctx, platform, object, data, c.ttl); err != nil {
		c.log.Warn("snapshot write failed", zap.Error(err))
	}
	return recs, nil
}

func marshalRecords(platform model.Platform, recs []model.Record) ([]byte, error) {
	if platform == model.PlatformLegacy {
		rows := make([]model.LegacyRecord, 0, len(recs))
		for _, r := range recs {
			row, ok := r.(model.LegacyRecord)
			if !ok {
				return nil, eris.Errorf("source: unexpected record type for %s", platform)
			}
			rows = append(rows, row)
		}
		return json.Marshal(rows)
	}
	rows := make([]model.PrimaryRecord, 0, len(recs))
	for _, r := range recs {
		row, ok := r.(model.PrimaryRecord)
		if !ok {
			return nil, eris.Errorf("source: unexpected record type for %s", platform)
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}

func unmarshalRecords(platform model.Platform, data []byte) ([]model.Record, error) {
	if platform == model.PlatformLegacy {
		var rows []model.LegacyRecord
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, eris.Wrap(err, "source: decode legacy snapshot")
		}
		recs := make([]model.Record, 0, len(rows))
		for _, row := range rows {
			recs = append(recs, row)
		}
		return recs, nil
	}
	var rows []model.PrimaryRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrap(err, "source: decode primary snapshot")
	}
	recs := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row)
	}
	return recs, nil
}
