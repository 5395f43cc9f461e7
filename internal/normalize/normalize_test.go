package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-reconcile/internal/model"
)

func TestEmailKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a@x.com", "a@x.com", true},
		{" A@X.COM ", "a@x.com", true},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := EmailKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestEmailKey_Equivalence(t *testing.T) {
	for _, s := range []string{"a@x.com", "Mixed.Case@Example.ORG"} {
		base, _ := EmailKey(s)
		upper, _ := EmailKey(strings.ToUpper(s))
		padded, _ := EmailKey(" " + s + " ")
		assert.Equal(t, base, upper)
		assert.Equal(t, base, padded)
	}
}

func TestPhoneKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"(555) 123-4567", "5551234567", true},
		{"+1 555 123 4567", "5551234567", true},
		{"1-555-123-4567", "5551234567", true},
		{"123456789", "", false}, // nine digits
		{"", "", false},
		{"ext. 42", "", false},
	}
	for _, tt := range tests {
		got, ok := PhoneKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNameKey(t *testing.T) {
	got, ok := NameKey(" Jane ", " DOE ")
	require.True(t, ok)
	assert.Equal(t, "jane doe", got)

	_, ok = NameKey("Jane", "")
	assert.False(t, ok)
	_, ok = NameKey("", "Doe")
	assert.False(t, ok)
}

func TestAmount_UnitCorrection(t *testing.T) {
	hs := model.PrimaryRecord{ID: "1", Properties: map[string]string{"amount": "10.00"}}
	ac := model.LegacyRecord{ID: "2", Fields: map[string]string{"value": "1000"}}

	hsAmt, ok := Amount(hs)
	require.True(t, ok)
	acAmt, ok := Amount(ac)
	require.True(t, ok)

	assert.True(t, MoneyEqual(hsAmt, acAmt))
	assert.InDelta(t, 10.00, acAmt, 0.001)
}

func TestAmount_Absent(t *testing.T) {
	_, ok := Amount(model.PrimaryRecord{ID: "1", Properties: map[string]string{}})
	assert.False(t, ok)
	_, ok = Amount(model.LegacyRecord{ID: "2", Fields: map[string]string{"value": "n/a"}})
	assert.False(t, ok)
}

func TestMoneyEqual_Tolerance(t *testing.T) {
	// One cent apart is equal regardless of magnitude, even where the
	// float64 difference lands a hair above 0.01.
	assert.True(t, MoneyEqual(100.00, 100.01))
	assert.True(t, MoneyEqual(1500.00, 1500.01))
	assert.True(t, MoneyEqual(0.10, 0.11))
	assert.False(t, MoneyEqual(100.00, 100.02))
	assert.False(t, MoneyEqual(1500.00, 1500.02))
}

func TestStatus_Primary(t *testing.T) {
	tests := []struct {
		stage string
		want  model.Status
	}{
		{"closedwon", model.StatusWon},
		{"ClosedWon", model.StatusWon},
		{"Contract Won", model.StatusWon},
		{"closedlost", model.StatusLost},
		{"Closed Lost", model.StatusLost},
		{"appointmentscheduled", model.StatusOpen},
		{"", model.StatusOpen},
	}
	table := DefaultStatusTable()
	for _, tt := range tests {
		r := model.PrimaryRecord{ID: "d", Properties: map[string]string{"dealstage": tt.stage}}
		assert.Equal(t, tt.want, table.Status(r), tt.stage)
	}
}

func TestStatus_LegacyCodes(t *testing.T) {
	table := DefaultStatusTable()
	tests := []struct {
		code string
		want model.Status
	}{
		{"0", model.StatusOpen},
		{"1", model.StatusWon},
		{"2", model.StatusLost},
		{"3", model.StatusOpen},
		{"7", model.StatusUnknown},
		{"", model.StatusUnknown},
	}
	for _, tt := range tests {
		r := model.LegacyRecord{ID: "d", Fields: map[string]string{"status": tt.code}}
		assert.Equal(t, tt.want, table.Status(r), tt.code)
	}
}

func TestCloseDate_Primary(t *testing.T) {
	iso := model.PrimaryRecord{ID: "1", Properties: map[string]string{"closedate": "2024-03-02T00:00:00Z"}}
	got, ok := CloseDate(iso)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)

	millis := model.PrimaryRecord{ID: "2", Properties: map[string]string{"closedate": "1709337600000"}}
	got, ok = CloseDate(millis)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestCloseDate_Legacy(t *testing.T) {
	r := model.LegacyRecord{ID: "1", Fields: map[string]string{"edate": "2024-01-10 09:30:00"}}
	got, ok := CloseDate(r)
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 10, got.Day())
}

func TestCloseDate_Unparseable(t *testing.T) {
	r := model.PrimaryRecord{ID: "1", Properties: map[string]string{"closedate": "not a date"}}
	_, ok := CloseDate(r)
	assert.False(t, ok)

	_, ok = CloseDate(model.PrimaryRecord{ID: "2", Properties: map[string]string{}})
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	c := model.PrimaryRecord{ID: "1", Properties: map[string]string{"email": "a@x.com"}}
	assert.Equal(t, "a@x.com", DisplayName(c, model.ObjectContact))

	c2 := model.LegacyRecord{ID: "2", Fields: map[string]string{"firstName": "Jane", "lastName": "Doe"}}
	assert.Equal(t, "Jane Doe", DisplayName(c2, model.ObjectContact))

	d := model.PrimaryRecord{ID: "3", Properties: map[string]string{"dealname": "Acme Renewal"}}
	assert.Equal(t, "Acme Renewal", DisplayName(d, model.ObjectDeal))
}
