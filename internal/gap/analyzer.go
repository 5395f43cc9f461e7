// Package gap computes cross-platform set differences and field-level
// mismatches for contacts joined by normalized email.
package gap

import (
	"go.uber.org/zap"

	"github.com/sells-group/crm-reconcile/internal/match"
	"github.com/sells-group/crm-reconcile/internal/model"
	"github.com/sells-group/crm-reconcile/internal/normalize"
)

func contactEmailKey(r model.Record) (string, bool) {
	return normalize.EmailKey(normalize.Email(r))
}

// AnalyzeContactGaps joins the two platforms' contacts by normalized
// email and returns the records present on only one side. Contacts
// without an email yield no join key and are excluded from gap analysis
// entirely; this is accepted lossy behavior, not an error.
func AnalyzeContactGaps(primary, legacy []model.Record) model.ContactGaps {
	primaryIx := match.BuildIndex(primary, contactEmailKey)
	legacyIx := match.BuildIndex(legacy, contactEmailKey)

	var gaps model.ContactGaps
	for _, k := range legacyIx.Keys() {
		if !primaryIx.Has(k) {
			gaps.MissingInPrimary = append(gaps.MissingInPrimary, legacyIx.Bucket(k)[0])
		}
	}
	for _, k := range primaryIx.Keys() {
		if !legacyIx.Has(k) {
			gaps.MissingInLegacy = append(gaps.MissingInLegacy, primaryIx.Bucket(k)[0])
		}
	}

	zap.L().Info("contact gap analysis complete",
		zap.Int("hubspot_contacts", len(primary)),
		zap.Int("activecampaign_contacts", len(legacy)),
		zap.Int("missing_in_hubspot", len(gaps.MissingInPrimary)),
		zap.Int("missing_in_activecampaign", len(gaps.MissingInLegacy)),
	)
	return gaps
}

// AnalyzeFieldMismatches runs over the join's intersection and compares
// first name, last name, and phone for each joined pair. Names compare
// as exact strings so casing drift surfaces; phones compare by
// normalized digits. A pair is emitted only when at least one field
// differs.
func AnalyzeFieldMismatches(primary, legacy []model.Record) []model.FieldMismatch {
	primaryIx := match.BuildIndex(primary, contactEmailKey)
	legacyIx := match.BuildIndex(legacy, contactEmailKey)

	var out []model.FieldMismatch
	for _, k := range primaryIx.Keys() {
		if !legacyIx.Has(k) {
			continue
		}
		hs := primaryIx.Bucket(k)[0]
		ac := legacyIx.Bucket(k)[0]

		diffs := comparePair(hs, ac)
		if len(diffs) > 0 {
			out = append(out, model.FieldMismatch{Primary: hs, Legacy: ac, Mismatches: diffs})
		}
	}

	zap.L().Info("field mismatch analysis complete", zap.Int("pairs_with_mismatches", len(out)))
	return out
}

func comparePair(hs, ac model.Record) []model.FieldDiff {
	var diffs []model.FieldDiff

	if a, b := normalize.FirstName(hs), normalize.FirstName(ac); a != b {
		diffs = append(diffs, model.FieldDiff{Field: "first_name", PrimaryValue: a, LegacyValue: b})
	}
	if a, b := normalize.LastName(hs), normalize.LastName(ac); a != b {
		diffs = append(diffs, model.FieldDiff{Field: "last_name", PrimaryValue: a, LegacyValue: b})
	}

	hsPhone, hsOK := normalize.PhoneKey(normalize.Phone(hs))
	acPhone, acOK := normalize.PhoneKey(normalize.Phone(ac))
	if hsOK && acOK && hsPhone != acPhone {
		diffs = append(diffs, model.FieldDiff{Field: "phone", PrimaryValue: normalize.Phone(hs), LegacyValue: normalize.Phone(ac)})
	}

	return diffs
}
