// Package parse contains the region parsers: specialists that turn the
// classifier's tagged line buffers into typed statement fields and
// transaction records.
package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches one monetary token: optional currency symbol,
// digit groups with optional thousands separators, two fractional digits,
// optional trailing CR credit marker. A leading minus sign is deliberately
// not accepted: the CR marker is the only source of sign negation in this
// statement class, so a minus-signed token is not a monetary token.
var amountPattern = regexp.MustCompile(`^\$?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}(?:CR)?$`)

// isAmountToken reports whether token matches the monetary token shape.
func isAmountToken(token string) bool {
	return amountPattern.MatchString(token)
}

// parseAmount converts a monetary token to an exact decimal at 2-digit
// scale. The digit text goes straight into the decimal type; a binary
// floating-point intermediate never appears. A trailing CR marker flips
// the sign.
func parseAmount(token string) (decimal.Decimal, error) {
	if !isAmountToken(token) {
		return decimal.Decimal{}, fmt.Errorf("not a monetary token: %q", token)
	}

	credit := strings.HasSuffix(token, "CR")
	cleaned := strings.TrimSuffix(token, "CR")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse amount %q: %w", token, err)
	}
	if credit {
		value = value.Neg()
	}
	return value, nil
}

// firstAmountToken returns the leftmost monetary token among tokens,
// starting the scan at offset from.
func firstAmountToken(tokens []string, from int) (string, bool) {
	for i := from; i < len(tokens); i++ {
		if isAmountToken(tokens[i]) {
			return tokens[i], true
		}
	}
	return "", false
}
