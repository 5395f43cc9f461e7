package normalize

import (
	"strings"

	"github.com/sells-group/crm-reconcile/internal/model"
)

// StatusTable maps the legacy platform's numeric deal status codes to
// the shared tri-state. It is injected rather than global so tests can
// override the vocabulary.
type StatusTable struct {
	LegacyCodes map[string]model.Status
}

// DefaultStatusTable returns the legacy platform's documented code
// vocabulary: 0 open, 1 won, 2 lost, 3 open (pending).
func DefaultStatusTable() StatusTable {
	return StatusTable{
		LegacyCodes: map[string]model.Status{
			"0": model.StatusOpen,
			"1": model.StatusWon,
			"2": model.StatusLost,
			"3": model.StatusOpen,
		},
	}
}

// Status normalizes a record's raw stage or status to the tri-state.
// Unrecognized legacy codes map to StatusUnknown, never to open, so an
// unknown code cannot silently pass a status comparison.
func (t StatusTable) Status(r model.Record) model.Status {
	raw := strings.TrimSpace(RawStage(r))
	if r.Source() == model.PlatformLegacy {
		s, ok := t.LegacyCodes[raw]
		if !ok {
			return model.StatusUnknown
		}
		return s
	}
	return PrimaryStageStatus(raw)
}

// PrimaryStageStatus maps a primary-CRM stage name to the tri-state by
// case-insensitive substring match. Anything not recognizably closed is
// open; the primary CRM has no unknown codes, only free-form stages.
func PrimaryStageStatus(stage string) model.Status {
	s := strings.ToLower(stage)
	switch {
	case strings.Contains(s, "closedwon"), strings.Contains(s, "won"):
		return model.StatusWon
	case strings.Contains(s, "closedlost"), strings.Contains(s, "lost"):
		return model.StatusLost
	default:
		return model.StatusOpen
	}
}

// Closed reports whether a status is a terminal won/lost state.
func Closed(s model.Status) bool {
	return s == model.StatusWon || s == model.StatusLost
}
