package utils

import (
	"fmt"
	"regexp"
)

// GSTIN format: 2-digit state code, 10-character PAN, entity code,
// the literal 'Z', and a checksum character.
var gstinRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)

// ValidateGSTIN validates an Indian GST identification number.
// An empty GSTIN is allowed; many receipts simply do not carry one.
func ValidateGSTIN(gstin string) error {
	if gstin == "" {
		return nil
	}
	if len(gstin) != 15 {
		return fmt.Errorf("GSTIN must be 15 characters: %s", gstin)
	}
	if !gstinRegex.MatchString(gstin) {
		return fmt.Errorf("invalid GSTIN format: %s", gstin)
	}
	return nil
}

// ValidateAmount validates a receipt amount
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must not be negative: %.2f", amount)
	}
	return nil
}

// SanitizeString removes control characters from user-visible strings
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
