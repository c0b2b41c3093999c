package services

import (
	"strconv"
	"strings"
)

// cleanNumericText strips everything but digits, separators and signs from a
// scraped value, so locale formatting is all that is left to resolve.
func cleanNumericText(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseLocaleFloat parses numeric text that may use either comma-decimal
// ("1.234,56") or dot-decimal ("1,234.56") formatting. When both separators
// are present the rightmost one is the decimal separator and the other is
// treated as a thousands separator. A lone comma is a decimal separator.
// Unparsable input yields 0.
func ParseLocaleFloat(raw string) float64 {
	clean := strings.TrimSpace(raw)
	hasComma := strings.Contains(clean, ",")
	hasDot := strings.Contains(clean, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case hasComma:
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return value
}
