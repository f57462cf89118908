package domain

import (
	"strings"
	"unicode"
)

// DefaultCountryCode is the prefix applied to bare 10-digit local numbers.
const DefaultCountryCode = "+91"

// PhoneNormalizer canonicalizes phone numbers before any lookup or write.
type PhoneNormalizer struct {
	countryCode string
}

// NewPhoneNormalizer returns a normalizer using countryCode, or
// DefaultCountryCode when empty.
func NewPhoneNormalizer(countryCode string) PhoneNormalizer {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	if !strings.HasPrefix(countryCode, "+") {
		countryCode = "+" + countryCode
	}
	return PhoneNormalizer{countryCode: countryCode}
}

// Normalize strips whitespace and the separators '-', '(' and ')', then
// prefixes exactly-10-digit numbers with the country code. Anything else is
// returned stripped but otherwise unchanged.
// Normalize(Normalize(x)) == Normalize(x).
func (n PhoneNormalizer) Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || isPhoneSeparator(r) {
			return -1
		}
		return r
	}, raw)

	if strings.HasPrefix(stripped, "+") || len(stripped) != 10 || !allDigits(stripped) {
		return stripped
	}
	cc := n.countryCode
	if cc == "" {
		cc = DefaultCountryCode
	}
	return cc + stripped
}

func isPhoneSeparator(r rune) bool {
	return r == '-' || r == '(' || r == ')'
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
