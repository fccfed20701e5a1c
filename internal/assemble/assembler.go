// Package assemble composes the classified line buffers into the final
// statement aggregate, enforcing cross-entity invariants and invoking the
// balance validator before anything is returned. Propagation is fail-fast:
// the first integrity problem aborts the parse and no partial statement is
// ever surfaced.
package assemble

import (
	"fmt"

	"github.com/rumor-ml/commons.systems/ccparse/internal/classify"
	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/parse"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
	"github.com/rumor-ml/commons.systems/ccparse/internal/validate"
)

// Statement builds the aggregate from the classified buffers.
//
// The header and balance summary regions are mandatory; an empty buffer
// means the region's marker never appeared and is a MissingRegionError.
// The transactions region may legitimately be empty (a period with no
// activity) and the rewards region may be absent entirely. Post dates are
// deliberately not constrained to the billing period: statements carry
// post dates into the next cycle.
func Statement(buffers *classify.Buffers, tmpl *template.Template) (*domain.Statement, error) {
	if buffers.Empty(template.RegionHeader) {
		return nil, &domain.MissingRegionError{Region: string(template.RegionHeader)}
	}
	if buffers.Empty(template.RegionBalanceSummary) {
		return nil, &domain.MissingRegionError{Region: string(template.RegionBalanceSummary)}
	}

	meta, err := parse.ParseMetadata(buffers.Texts(template.RegionHeader), tmpl)
	if err != nil {
		return nil, err
	}

	balance, err := parse.ParseBalanceSummary(buffers.Texts(template.RegionBalanceSummary), tmpl)
	if err != nil {
		return nil, err
	}

	points, err := parse.ParseRewards(buffers.Texts(template.RegionRewards), tmpl)
	if err != nil {
		return nil, err
	}

	transactions, err := parse.ParseTransactions(buffers.Texts(template.RegionTransactions), meta.BillingPeriodEnd)
	if err != nil {
		return nil, err
	}

	statement, err := domain.NewStatement(
		meta.EntityName,
		meta.PrimaryCardholder,
		meta.AccountSuffix,
		meta.BillingPeriodStart,
		meta.BillingPeriodEnd,
		balance,
		points,
		transactions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble statement: %w", err)
	}

	if err := validate.BalanceSummary(statement.BalanceSummary()); err != nil {
		return nil, err
	}

	return statement, nil
}
