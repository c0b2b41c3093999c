package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"turkish thousands and decimal", "1.234,56", 1234.56},
		{"english thousands and decimal", "1,234.56", 1234.56},
		{"comma decimal", "12,5", 12.5},
		{"dot decimal", "12.5", 12.5},
		{"plain integer", "42", 42},
		{"large turkish", "1.234.567,89", 1234567.89},
		{"large english", "1,234,567.89", 1234567.89},
		{"negative comma decimal", "-3,75", -3.75},
		{"explicit plus", "+2.5", 2.5},
		{"leading whitespace", "  12,5", 12.5},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"lone separator", ",", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ParseLocaleFloat(tc.input), 1e-9)
		})
	}
}

func TestCleanNumericText(t *testing.T) {
	assert.Equal(t, "1.234,56", cleanNumericText("₺ 1.234,56 TL"))
	assert.Equal(t, "-0,42", cleanNumericText("%-0,42"))
	assert.Equal(t, "", cleanNumericText("n/a"))
}
