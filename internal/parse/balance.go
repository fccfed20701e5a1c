package parse

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// ParseBalanceSummary extracts the eight monetary fields from the balance
// summary buffer. Each field's label anchor locates its line; the leftmost
// monetary token after the label carries the value. Every field is
// mandatory and the first occurrence wins.
func ParseBalanceSummary(lines []string, tmpl *template.Template) (domain.BalanceSummary, error) {
	region := string(template.RegionBalanceSummary)
	values := make(map[string]decimal.Decimal, 8)

	for _, line := range lines {
		field, ok := tmpl.BalanceLabel(line)
		if !ok {
			continue
		}
		if _, done := values[field]; done {
			continue
		}

		token, ok := firstAmountToken(strings.Fields(line), 0)
		if !ok {
			return domain.BalanceSummary{}, &domain.FieldIntegrityError{Field: field, Region: region, Line: line}
		}
		value, err := parseAmount(token)
		if err != nil {
			return domain.BalanceSummary{}, &domain.FieldIntegrityError{Field: field, Region: region, Line: line}
		}
		values[field] = value
	}

	for _, field := range []string{
		"previous_balance", "purchases", "credits", "fees",
		"interest", "new_balance", "available_credit", "minimum_payment",
	} {
		if _, ok := values[field]; !ok {
			return domain.BalanceSummary{}, &domain.FieldIntegrityError{Field: field, Region: region}
		}
	}

	return domain.NewBalanceSummary(
		values["previous_balance"],
		values["purchases"],
		values["credits"],
		values["fees"],
		values["interest"],
		values["new_balance"],
		values["available_credit"],
		values["minimum_payment"],
	), nil
}
