// Package source materializes record snapshots from the two platforms
// for analysis. It hides client pagination, scope limitations, and
// caching behind one Collection call per platform and object type.
package source

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/pkg/activecampaign"
	"github.com/sells-group/crm-reconcile/pkg/hubspot"
)

// Source fetches one platform collection. Implementations return an
// empty collection, not an error, when the platform's plan does not
// include the object type.
type Source interface {
	Collection(ctx context.Context, platform model.Platform, object model.ObjectType) ([]model.Record, error)
}

// Snapshot holds every collection one analysis run needs.
type Snapshot struct {
	PrimaryContacts  []model.Record
	PrimaryCompanies []model.Record
	PrimaryDeals     []model.Record
	LegacyContacts   []model.Record
	LegacyDeals      []model.Record
}

// Selection names the object types to fetch.
type Selection struct {
	Contacts  bool
	Companies bool
	Deals     bool
}

// Fetch pulls all selected collections concurrently. The legacy
// platform has no company objects, so the company selection only
// touches the primary CRM.
func Fetch(ctx context.Context, src Source, sel Selection) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	fetch := func(dst *[]model.Record, platform model.Platform, object model.ObjectType) {
		g.Go(func() error {
			recs, err := src.Collection(ctx, platform, object)
			if err != nil {
				return err
			}
			*dst = recs
			return nil
		})
	}

	if sel.Contacts {
		fetch(&snap.PrimaryContacts, model.PlatformPrimary, model.ObjectContact)
		fetch(&snap.LegacyContacts, model.PlatformLegacy, model.ObjectContact)
	}
	if sel.Companies {
		fetch(&snap.PrimaryCompanies, model.PlatformPrimary, model.ObjectCompany)
	}
	if sel.Deals {
		fetch(&snap.PrimaryDeals, model.PlatformPrimary, model.ObjectDeal)
		fetch(&snap.LegacyDeals, model.PlatformLegacy, model.ObjectDeal)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Primary CRM object-type API names and the properties requested for
// each.
var (
	primaryObjectNames = map[model.ObjectType]string{
		model.ObjectContact: "contacts",
		model.ObjectCompany: "companies",
		model.ObjectDeal:    "deals",
	}
	primaryProperties = map[model.ObjectType][]string{
		model.ObjectContact: {"email", "firstname", "lastname", "phone", "company"},
		model.ObjectCompany: {"domain", "name"},
		model.ObjectDeal:    {"dealname", "amount", "dealstage", "closedate"},
	}
)

// ClientSource fetches collections straight from the platform APIs.
type ClientSource struct {
	hs  hubspot.Client
	ac  activecampaign.Client
	log *zap.Logger
}

// NewClientSource builds a ClientSource over the two platform clients.
func NewClientSource(hs hubspot.Client, ac activecampaign.Client) *ClientSource {
	return &ClientSource{
		hs:  hs,
		ac:  ac,
		log: zap.L().With(zap.String("component", "source")),
	}
}

func (s *ClientSource) Collection(ctx context.Context, platform model.Platform, object model.ObjectType) ([]model.Record, error) {
	if platform == model.PlatformLegacy {
		return s.legacyCollection(ctx, object)
	}
	return s.primaryCollection(ctx, object)
}

func (s *ClientSource) primaryCollection(ctx context.Context, object model.ObjectType) ([]model.Record, error) {
	objs, err := s.hs.ListObjects(ctx, primaryObjectNames[object], primaryProperties[object])
	if errors.Is(err, hubspot.ErrForbidden) {
		s.log.Warn("hubspot plan does not include object type, treating as empty",
			zap.String("object", string(object)))
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "source: list hubspot %s", object)
	}

	recs := make([]model.Record, 0, len(objs))
	for _, o := range objs {
		recs = append(recs, model.PrimaryRecord{ID: o.ID, Properties: o.Properties})
	}
	s.log.Debug("fetched primary collection",
		zap.String("object", string(object)), zap.Int("count", len(recs)))
	return recs, nil
}

func (s *ClientSource) legacyCollection(ctx context.Context, object model.ObjectType) ([]model.Record, error) {
	var (
		rows []activecampaign.Record
		err  error
	)
	switch object {
	case model.ObjectContact:
		rows, err = s.ac.ListContacts(ctx)
	case model.ObjectDeal:
		rows, err = s.ac.ListDeals(ctx)
	default:
		// The legacy platform has no company objects.
		return []model.Record{}, nil
	}
	if errors.Is(err, activecampaign.ErrForbidden) {
		s.log.Warn("activecampaign plan does not include object type, treating as empty",
			zap.String("object", string(object)))
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "source: list activecampaign %s", object)
	}

	recs := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, model.LegacyRecord{ID: row.ID, Fields: row.Fields})
	}
	s.log.Debug("fetched legacy collection",
		zap.String("object", string(object)), zap.Int("count", len(recs)))
	return recs, nil
}
