package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from free-text input before it reaches the
// database.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(s))
}

// StripUnprintable removes non-printable characters, keeping common
// whitespace.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
