package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-reconcile/internal/audit"
	"github.com/sells-group/crm-reconcile/internal/deal"
	"github.com/sells-group/crm-reconcile/internal/match"
	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

func newEngine() *Engine {
	return NewEngine(match.NewDetector(), deal.NewReconciler(deal.Config{}), audit.NewAuditor(nil))
}

func TestBuild_FullReport(t *testing.T) {
	in := Inputs{
		PrimaryContacts: []model.Record{
			model.PrimaryRecord{ID: "c1", Properties: map[string]string{"email": "a@x.com"}},
			model.PrimaryRecord{ID: "c2", Properties: map[string]string{"email": "A@X.com "}},
		},
		LegacyContacts: []model.Record{
			model.LegacyRecord{ID: "l1", Fields: map[string]string{"email": "a@x.com"}},
		},
		PrimaryDeals: []model.Record{
			model.PrimaryRecord{ID: "d1", Properties: map[string]string{
				"dealname": "Acme Renewal", "dealstage": "closedwon",
				"closedate": "2025-07-16T00:00:00Z", "amount": "1500.00",
			}},
		},
		LegacyDeals: []model.Record{
			model.LegacyRecord{ID: "ad1", Fields: map[string]string{
				"title": "Acme Renewal", "status": "1", "value": "150000", "edate": "2024-03-02 00:00:00",
			}},
		},
		IncludeContacts: true,
		IncludeDeals:    true,
	}

	r := newEngine().Build(in)

	// One HIGH email duplicate group with two members.
	require.Len(t, r.Duplicates[model.ObjectContact], 1)
	g := r.Duplicates[model.ObjectContact][0]
	assert.Equal(t, model.PriorityHigh, g.Priority)
	assert.Len(t, g.Members, 2)

	// Contact c2 shares a@x.com with l1, so nothing is missing.
	require.NotNil(t, r.ContactGaps)
	assert.Empty(t, r.ContactGaps.MissingInPrimary)
	assert.Empty(t, r.ContactGaps.MissingInLegacy)

	// Placeholder close date with a legacy date: exactly one migration
	// date issue, correct date from ActiveCampaign.
	require.NotNil(t, r.Deals)
	require.Len(t, r.Deals.DateMismatches, 1)
	issue := r.Deals.DateMismatches[0]
	assert.Equal(t, model.CloseDateMigrationDate, issue.Type)
	require.NotNil(t, issue.CorrectDate)
	assert.Equal(t, "2024-03-02", issue.CorrectDate.Format("2006-01-02"))

	// Amounts agree after cent conversion: no value mismatch.
	assert.Empty(t, r.Deals.ValueMismatches)

	assert.Equal(t, 2, r.Summary.PrimaryContacts)
	assert.Equal(t, 1, r.Summary.DealDateIssues)
	assert.NotEmpty(t, r.Recommendations)
}

func TestBuild_MissingDealShowsConvertedValue(t *testing.T) {
	in := Inputs{
		LegacyDeals: []model.Record{
			model.LegacyRecord{ID: "ad1", Fields: map[string]string{
				"title": "Acme Renewal", "status": "1", "value": "150000", "edate": "2024-01-10 00:00:00",
			}},
		},
		IncludeDeals: true,
	}

	r := newEngine().Build(in)

	require.NotNil(t, r.Deals)
	require.Len(t, r.Deals.MissingInPrimary, 1)
	missing := r.Deals.MissingInPrimary[0]
	amt, ok := normalize.Amount(missing)
	require.True(t, ok)
	assert.InDelta(t, 1500.00, amt, 0.001)
}

func TestBuild_FocusOnDealsSkipsContacts(t *testing.T) {
	in := Inputs{
		PrimaryContacts: []model.Record{
			model.PrimaryRecord{ID: "c1", Properties: map[string]string{"email": "a@x.com"}},
			model.PrimaryRecord{ID: "c2", Properties: map[string]string{"email": "a@x.com"}},
		},
		IncludeContacts: true,
		FocusOnDeals:    true,
	}

	r := newEngine().Build(in)

	assert.Empty(t, r.Duplicates[model.ObjectContact])
	assert.Nil(t, r.ContactGaps)
	assert.NotNil(t, r.Deals)
}

func TestBuild_EmptyInputs(t *testing.T) {
	r := newEngine().Build(Inputs{IncludeContacts: true, IncludeCompanies: true, IncludeDeals: true})

	assert.Equal(t, 0, r.Summary.DuplicateGroups)
	require.NotNil(t, r.ContactGaps)
	assert.Empty(t, r.ContactGaps.MissingInPrimary)
	assert.Equal(t, []string{"No reconciliation issues found"}, r.Recommendations)

	// Audits still report every tracked field at zero.
	require.NotEmpty(t, r.EmptyFields)
	for _, a := range r.EmptyFields {
		for _, s := range a.Stats {
			assert.Equal(t, "0.0", s.Percentage)
		}
	}
}
