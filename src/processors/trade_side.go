package processors

import "strings"

// TradeSide is the normalized direction of a ledger entry. There are exactly
// two sides; anything that is not a recognized buy token is a sell.
type TradeSide int

const (
	SideBuy TradeSide = iota
	SideSell
)

// buyTokens are the free-text spellings that denote a purchase, as they have
// appeared in imported ledgers. Comparison is case-insensitive.
var buyTokens = map[string]bool{
	"BUY":      true,
	"ALIM":     true,
	"ALIŞ":     true,
	"ALIS":     true,
	"A":        true,
	"PURCHASE": true,
}

// NormalizeTradeSide collapses a free-text transaction kind to a TradeSide.
func NormalizeTradeSide(kind string) TradeSide {
	if buyTokens[strings.ToUpper(strings.TrimSpace(kind))] {
		return SideBuy
	}
	return SideSell
}

func (s TradeSide) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}
