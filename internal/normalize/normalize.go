package normalize

import (
	"math"
	"regexp"
	"strings"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// MoneyTolerance is the absolute difference below which two amounts are
// considered equal after unit correction.
const MoneyTolerance = 0.01

// EmailKey lowercases and trims an email for use as a comparison key.
// Empty or whitespace-only input yields no key, which excludes the
// record from email-based matching only.
func EmailKey(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return s, true
}

// PhoneKey strips everything but digits and keeps the last ten, which
// drops country-code prefix variations. Fewer than ten digits yields no
// key.
func PhoneKey(s string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(s, "")
	if len(digits) < 10 {
		return "", false
	}
	return digits[len(digits)-10:], true
}

// NameKey joins a trimmed, lowercased first and last name with a single
// space. Both parts must be non-empty to produce a key.
func NameKey(first, last string) (string, bool) {
	first = strings.ToLower(strings.TrimSpace(first))
	last = strings.ToLower(strings.TrimSpace(last))
	if first == "" || last == "" {
		return "", false
	}
	return first + " " + last, true
}

// TextKey trims and lowercases a free-text field (company name, domain,
// deal title) for use as a comparison key.
func TextKey(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return s, true
}

// MoneyEqual reports whether two unit-corrected amounts are equal within
// MoneyTolerance. A small epsilon absorbs float64 representation error so
// an exactly-one-cent difference sits inside the tolerance at any
// magnitude.
func MoneyEqual(a, b float64) bool {
	return math.Abs(a-b) <= MoneyTolerance+1e-9
}
