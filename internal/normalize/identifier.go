// Package normalize converts the loosely typed values a dialogue platform sends
// (session paths, date objects, place objects, counts, names) into canonical
// Go values. Every decoder here is total: malformed input is recorded on the
// value and surfaced through an error at read time, never during decoding, so
// one bad field cannot abort the decode of its siblings.
package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// countryPrefix is the calling code that marks an identifier as a full
// international number.
const countryPrefix = "55"

// defaultRegion is used when formatting numbers typed by the customer.
const defaultRegion = "BR"

// Identifier extracts the customer key from a session path of the form
// ".../<raw-id>": the last path segment, stripped to ASCII digits, prefixed
// with "+" when it starts with the country code. A segment without digits
// yields "".
func Identifier(session string) string {
	raw := session
	if i := strings.LastIndex(session, "/"); i >= 0 {
		raw = session[i+1:]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if strings.HasPrefix(digits, countryPrefix) {
		return "+" + digits
	}
	return digits
}

// ContactPhone picks the number a lead should carry. A number the customer
// typed explicitly wins over the session identifier and is formatted to
// E.164; if it cannot be parsed as a valid number the trimmed input is kept.
func ContactPhone(collected, sessionID string) string {
	trimmed := strings.TrimSpace(collected)
	if trimmed == "" {
		return sessionID
	}
	num, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
