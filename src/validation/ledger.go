package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/portfoy/src/models"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxSymbolLength = 16
	MaxNameLength   = 255
	MaxNotesLength  = 1024

	// Quantities and prices beyond this are assumed to be input mistakes.
	MaxNumericValue = 1e12
)

// Symbols are upper-case letters and digits, optionally carrying the crypto
// suffix. Turkish letters appear in symbols derived from instrument names.
var symbolRegex = regexp.MustCompile(`^[\p{Lu}\p{N}]+(-C)?$`)

var assetTypes = map[string]bool{
	models.AssetTypeCurrency:  true,
	models.AssetTypeCommodity: true,
	models.AssetTypeEquity:    true,
	models.AssetTypeCrypto:    true,
	models.AssetTypeFund:      true,
}

// ValidateTransactionDate checks the YYYY-MM-DD ledger date format. The
// round-trip comparison rejects dates like 2024-02-31 that time.Parse
// normalizes away.
func ValidateTransactionDate(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("%w: date cannot be empty", ErrValidationFailed)
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return fmt.Errorf("%w: date '%s' is not in YYYY-MM-DD format", ErrValidationFailed, s)
	}
	if t.Format("2006-01-02") != trimmed {
		return fmt.Errorf("%w: date '%s' does not exist", ErrValidationFailed, s)
	}
	return nil
}

// ValidateSymbol checks an upper-cased ledger symbol.
func ValidateSymbol(s string) error {
	if s == "" {
		return fmt.Errorf("%w: symbol cannot be empty", ErrValidationFailed)
	}
	if utf8.RuneCountInString(s) > MaxSymbolLength {
		return fmt.Errorf("%w: symbol exceeds maximum length of %d characters", ErrValidationFailed, MaxSymbolLength)
	}
	if !symbolRegex.MatchString(s) {
		return fmt.Errorf("%w: symbol '%s' must contain only upper-case letters and digits", ErrValidationFailed, s)
	}
	return nil
}

// ValidateAssetType accepts one of the known asset type tags. Empty is allowed
// so callers can fall back to inference.
func ValidateAssetType(s string) error {
	if s == "" || assetTypes[s] {
		return nil
	}
	return fmt.Errorf("%w: unknown asset type '%s'", ErrValidationFailed, s)
}

// ValidateAmount checks a quantity or price field for range sanity.
func ValidateAmount(value float64, fieldName string) error {
	if value < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	if value > MaxNumericValue {
		return fmt.Errorf("%w: %s is implausibly large", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateTextLength bounds free-text fields like names and notes.
func ValidateTextLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}
