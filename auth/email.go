package auth

import (
	"strings"
	"unicode"
)

// CleanEmail normalizes a login email: trims whitespace, lowercases, and
// strips markup and control characters so the value is safe to use as a
// lookup key and to echo back in responses.
func CleanEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'', '&', '\\', '/':
			return -1
		}
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, email)
}
