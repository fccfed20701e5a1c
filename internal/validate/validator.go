// Package validate proves the arithmetic consistency of a parsed balance
// summary. This check is the pipeline's sole trust boundary: no statement
// is ever returned unless it passes.
package validate

import (
	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
)

// BalanceSummary checks the accounting identity
//
//	previous_balance + purchases - credits + fees + interest == new_balance
//
// at the summary's native 2-digit decimal scale. All operands are exact
// decimals, so the comparison is exact equality with no tolerance. A
// mismatch returns a BalanceMismatchError carrying both sides and the
// contributing fields.
func BalanceSummary(b domain.BalanceSummary) error {
	computed := b.PreviousBalance().
		Add(b.Purchases()).
		Sub(b.Credits()).
		Add(b.Fees()).
		Add(b.Interest())

	if !computed.Equal(b.NewBalance()) {
		return &domain.BalanceMismatchError{
			Computed:        computed,
			Stated:          b.NewBalance(),
			PreviousBalance: b.PreviousBalance(),
			Purchases:       b.Purchases(),
			Credits:         b.Credits(),
			Fees:            b.Fees(),
			Interest:        b.Interest(),
		}
	}
	return nil
}
