// Package normalize canonicalizes record field values into stable
// comparison keys. It is also the only place the two platforms' raw
// field names are resolved, so the engine packages never branch on
// platform themselves.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/crm-reconcile/internal/model"
)

// Raw field names by platform. The legacy platform uses camelCase for
// contact name fields and stores deal close dates under edate.
const (
	primaryFirstName = "firstname"
	primaryLastName  = "lastname"
	primaryCompany   = "company"
	primaryDealName  = "dealname"
	primaryAmount    = "amount"
	primaryStage     = "dealstage"
	primaryCloseDate = "closedate"

	legacyFirstName = "firstName"
	legacyLastName  = "lastName"
	legacyDealName  = "title"
	legacyValue     = "value"
	legacyStatus    = "status"
	legacyCloseDate = "edate"
)

// Email returns the raw email field. Both platforms store it as "email".
func Email(r model.Record) string { return r.Raw("email") }

// Phone returns the raw phone field. Both platforms store it as "phone".
func Phone(r model.Record) string { return r.Raw("phone") }

// FirstName returns the raw first-name field for either platform.
func FirstName(r model.Record) string {
	if r.Source() == model.PlatformLegacy {
		return r.Raw(legacyFirstName)
	}
	return r.Raw(primaryFirstName)
}

// LastName returns the raw last-name field for either platform.
func LastName(r model.Record) string {
	if r.Source() == model.PlatformLegacy {
		return r.Raw(legacyLastName)
	}
	return r.Raw(primaryLastName)
}

// CompanyName returns the contact's company field (primary CRM only;
// the legacy platform has no company field on contacts).
func CompanyName(r model.Record) string { return r.Raw(primaryCompany) }

// Domain returns a company record's domain field.
func Domain(r model.Record) string { return r.Raw("domain") }

// DealName returns the deal title for either platform.
func DealName(r model.Record) string {
	if r.Source() == model.PlatformLegacy {
		return r.Raw(legacyDealName)
	}
	return r.Raw(primaryDealName)
}

// RawStage returns the platform's raw stage or status value for a deal.
func RawStage(r model.Record) string {
	if r.Source() == model.PlatformLegacy {
		return r.Raw(legacyStatus)
	}
	return r.Raw(primaryStage)
}

// DisplayName builds the human label used in report payloads.
func DisplayName(r model.Record, object model.ObjectType) string {
	switch object {
	case model.ObjectContact:
		if e := strings.TrimSpace(Email(r)); e != "" {
			return e
		}
		return strings.TrimSpace(strings.TrimSpace(FirstName(r)) + " " + strings.TrimSpace(LastName(r)))
	case model.ObjectCompany:
		if n := strings.TrimSpace(r.Raw("name")); n != "" {
			return n
		}
		return strings.TrimSpace(Domain(r))
	case model.ObjectDeal:
		return strings.TrimSpace(DealName(r))
	}
	return r.RecordID()
}

// Amount returns a deal's monetary value in major currency units.
// The legacy platform stores deal values in cents; they are divided by
// 100 here so both sides compare in the same unit. The second return is
// false when the field is absent or unparseable.
func Amount(r model.Record) (float64, bool) {
	var raw string
	if r.Source() == model.PlatformLegacy {
		raw = r.Raw(legacyValue)
	} else {
		raw = r.Raw(primaryAmount)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if r.Source() == model.PlatformLegacy {
		v /= 100
	}
	return v, true
}

// Close-date layouts accepted from the two platforms.
var (
	primaryDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05.000Z", "2006-01-02"}
	legacyDateLayouts  = []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339}
)

// CloseDate parses a deal's close date. Unparseable or missing values
// are treated as absent, never as an error. Primary CRM values may also
// be epoch milliseconds.
func CloseDate(r model.Record) (time.Time, bool) {
	var raw string
	layouts := primaryDateLayouts
	if r.Source() == model.PlatformLegacy {
		raw = r.Raw(legacyCloseDate)
		layouts = legacyDateLayouts
	} else {
		raw = r.Raw(primaryCloseDate)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
