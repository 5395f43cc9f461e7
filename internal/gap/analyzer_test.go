package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-reconcile/internal/model"
)

func hsContact(id string, props map[string]string) model.Record {
	return model.PrimaryRecord{ID: id, Properties: props}
}

func acContact(id string, fields map[string]string) model.Record {
	return model.LegacyRecord{ID: id, Fields: fields}
}

func TestAnalyzeContactGaps(t *testing.T) {
	primary := []model.Record{
		hsContact("h1", map[string]string{"email": "both@x.com"}),
		hsContact("h2", map[string]string{"email": "hs-only@x.com"}),
	}
	legacy := []model.Record{
		acContact("a1", map[string]string{"email": "BOTH@x.com"}),
		acContact("a2", map[string]string{"email": "ac-only@x.com"}),
	}

	gaps := AnalyzeContactGaps(primary, legacy)

	require.Len(t, gaps.MissingInPrimary, 1)
	assert.Equal(t, "a2", gaps.MissingInPrimary[0].RecordID())
	require.Len(t, gaps.MissingInLegacy, 1)
	assert.Equal(t, "h2", gaps.MissingInLegacy[0].RecordID())
}

func TestAnalyzeContactGaps_ExcludesEmaillessRecords(t *testing.T) {
	primary := []model.Record{
		hsContact("h1", map[string]string{"firstname": "No", "lastname": "Email"}),
	}
	legacy := []model.Record{
		acContact("a1", map[string]string{"email": "only@x.com"}),
	}

	gaps := AnalyzeContactGaps(primary, legacy)

	// h1 has no join key: it is neither missing nor joined.
	require.Len(t, gaps.MissingInPrimary, 1)
	assert.Empty(t, gaps.MissingInLegacy)
}

func TestAnalyzeContactGaps_PartitionsKeyUnion(t *testing.T) {
	primary := []model.Record{
		hsContact("h1", map[string]string{"email": "a@x.com"}),
		hsContact("h2", map[string]string{"email": "b@x.com"}),
		hsContact("h3", map[string]string{"email": "c@x.com"}),
	}
	legacy := []model.Record{
		acContact("a1", map[string]string{"email": "b@x.com"}),
		acContact("a2", map[string]string{"email": "c@x.com"}),
		acContact("a3", map[string]string{"email": "d@x.com"}),
	}

	gaps := AnalyzeContactGaps(primary, legacy)
	mismatches := AnalyzeFieldMismatches(primary, legacy)

	// Union has 4 keys: a (primary only), b and c (joined), d (legacy only).
	assert.Len(t, gaps.MissingInLegacy, 1)
	assert.Len(t, gaps.MissingInPrimary, 1)
	// Joined intersection is b and c; no field data so no mismatches,
	// but the partition is missing(1) + joined(2) + missing(1) = 4 keys.
	assert.Empty(t, mismatches)
}

func TestAnalyzeContactGaps_EmptyInputs(t *testing.T) {
	gaps := AnalyzeContactGaps(nil, nil)
	assert.Empty(t, gaps.MissingInPrimary)
	assert.Empty(t, gaps.MissingInLegacy)
}

func TestAnalyzeFieldMismatches(t *testing.T) {
	primary := []model.Record{
		hsContact("h1", map[string]string{
			"email": "jane@x.com", "firstname": "Jane", "lastname": "Doe", "phone": "(555) 123-4567",
		}),
	}
	legacy := []model.Record{
		acContact("a1", map[string]string{
			"email": "jane@x.com", "firstName": "jane", "lastName": "Doe", "phone": "+1 555 123 4567",
		}),
	}

	out := AnalyzeFieldMismatches(primary, legacy)

	// Casing difference in first name surfaces; phone digits match.
	require.Len(t, out, 1)
	require.Len(t, out[0].Mismatches, 1)
	assert.Equal(t, "first_name", out[0].Mismatches[0].Field)
	assert.Equal(t, "Jane", out[0].Mismatches[0].PrimaryValue)
	assert.Equal(t, "jane", out[0].Mismatches[0].LegacyValue)
}

func TestAnalyzeFieldMismatches_PhoneNormalizedComparison(t *testing.T) {
	primary := []model.Record{
		hsContact("h1", map[string]string{"email": "p@x.com", "phone": "555-123-4567"}),
	}
	legacy := []model.Record{
		acContact("a1", map[string]string{"email": "p@x.com", "phone": "555-999-0000"}),
	}

	out := AnalyzeFieldMismatches(primary, legacy)

	require.Len(t, out, 1)
	require.Len(t, out[0].Mismatches, 1)
	assert.Equal(t, "phone", out[0].Mismatches[0].Field)
}

func TestAnalyzeFieldMismatches_CleanPairsOmitted(t *testing.T) {
	primary := []model.Record{
		hsContact("h1", map[string]string{"email": "same@x.com", "firstname": "Sam", "lastname": "Lee"}),
	}
	legacy := []model.Record{
		acContact("a1", map[string]string{"email": "same@x.com", "firstName": "Sam", "lastName": "Lee"}),
	}

	assert.Empty(t, AnalyzeFieldMismatches(primary, legacy))
}
