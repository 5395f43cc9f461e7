package audit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

// maxExamples caps how many offending records each stat carries.
const maxExamples = 5

// Auditor computes empty-field statistics against an injected catalog.
type Auditor struct {
	catalog Catalog
}

// NewAuditor builds an auditor; a nil catalog falls back to defaults.
func NewAuditor(catalog Catalog) *Auditor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Auditor{catalog: catalog}
}

// Audit counts, for every tracked field of the collection, the records
// where the field is absent or blank after trimming. One stat is always
// returned per tracked field in catalog order, even at count zero. Up
// to five example records are captured per field in encounter order.
// With zero input records every percentage is "0.0" and no division
// happens.
func (a *Auditor) Audit(records []model.Record, platform model.Platform, object model.ObjectType) model.EmptyFieldAudit {
	fields := a.catalog.Fields(platform, object)
	out := model.EmptyFieldAudit{
		Platform: platform,
		Object:   object,
		Total:    len(records),
		Stats:    make([]model.EmptyFieldStat, 0, len(fields)),
	}

	for _, field := range fields {
		stat := model.EmptyFieldStat{Field: field, Percentage: "0.0"}
		for _, r := range records {
			if strings.TrimSpace(r.Raw(field)) != "" {
				continue
			}
			stat.Count++
			if len(stat.Examples) < maxExamples {
				stat.Examples = append(stat.Examples, model.Ref(r, normalize.DisplayName(r, object)))
			}
		}
		if len(records) > 0 {
			stat.Percentage = fmt.Sprintf("%.1f", float64(stat.Count)/float64(len(records))*100)
		}
		out.Stats = append(out.Stats, stat)
	}

	zap.L().Debug("empty field audit complete",
		zap.String("platform", string(platform)),
		zap.String("object", string(object)),
		zap.Int("records", len(records)),
		zap.Int("tracked_fields", len(fields)),
	)
	return out
}
