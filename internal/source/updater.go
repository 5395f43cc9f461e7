package source

import (
	"context"
	"time"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/pkg/hubspot"
)

// Updater adapts the primary CRM client to the close-date fix
// workflow's read and write surface.
type Updater struct {
	hs hubspot.Client
}

// NewUpdater wraps the given client.
func NewUpdater(hs hubspot.Client) *Updater {
	return &Updater{hs: hs}
}

func (u *Updater) GetDeal(ctx context.Context, id string) (model.PrimaryRecord, error) {
	o, err := u.hs.GetDeal(ctx, id)
	if err != nil {
		return model.PrimaryRecord{}, err
	}
	return model.PrimaryRecord{ID: o.ID, Properties: o.Properties}, nil
}

func (u *Updater) UpdateDealCloseDate(ctx context.Context, id string, closeDate time.Time) error {
	return u.hs.UpdateDealCloseDate(ctx, id, closeDate)
}
