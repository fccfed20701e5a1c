package parse

import (
	"strings"
	"time"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

// openRow accumulates one logical transaction between its row-start line
// and the next row-start (or buffer end). Continuation lines merge into
// the description only; dates, reference and amount are fixed by the
// row-start line.
type openRow struct {
	activityRaw string
	postRaw     string
	reference   string
	descParts   []string
	amountToken string
	line        string
}

// ParseTransactions consumes the transactions buffer in order and emits
// logical transaction records in the same order, never re-sorted by date.
//
// A line is a row-start when it opens with two date tokens followed by a
// reference token; any other line merges into the open row's description
// with one separating space. A row carrying no description tokens is
// accepted with an empty description. A row-start whose trailing token is
// not a monetary token is an integrity error: amounts are never defaulted,
// and a stray line that merely resembles a row-start surfaces here instead
// of being guessed at. Reference numbers are checked for document-wide
// uniqueness as each row finalizes.
func ParseTransactions(lines []string, billingEnd time.Time) ([]*domain.Transaction, error) {
	region := string(template.RegionTransactions)

	var transactions []*domain.Transaction
	seen := make(map[string]int)

	finalize := func(row *openRow) error {
		activityDate, err := resolveDate(row.activityRaw, billingEnd)
		if err != nil {
			return &domain.FieldIntegrityError{Field: "activity_date", Region: region, Line: row.line}
		}
		postDate, err := resolveDate(row.postRaw, billingEnd)
		if err != nil {
			return &domain.FieldIntegrityError{Field: "post_date", Region: region, Line: row.line}
		}
		amount, err := parseAmount(row.amountToken)
		if err != nil {
			return &domain.FieldIntegrityError{Field: "amount", Region: region, Line: row.line}
		}

		txn, err := domain.NewTransaction(activityDate, postDate, row.reference, strings.Join(row.descParts, " "), amount)
		if err != nil {
			return &domain.FieldIntegrityError{Field: "transaction", Region: region, Line: row.line}
		}

		if first, dup := seen[row.reference]; dup {
			return &domain.DuplicateReferenceError{
				Reference:   row.reference,
				FirstIndex:  first,
				SecondIndex: len(transactions),
			}
		}
		seen[row.reference] = len(transactions)
		transactions = append(transactions, txn)
		return nil
	}

	var open *openRow
	for _, line := range lines {
		tokens := strings.Fields(line)

		row, ok, err := tryRowStart(tokens, line)
		if err != nil {
			return nil, err
		}
		if ok {
			if open != nil {
				if err := finalize(open); err != nil {
					return nil, err
				}
			}
			open = row
			continue
		}

		// Continuation: merges into the open row's description. A stray
		// non-table line before the first row-start has no row to join
		// and is dropped, matching the best-effort contract of the
		// earlier stages.
		if open != nil {
			open.descParts = append(open.descParts, tokens...)
		}
	}

	if open != nil {
		if err := finalize(open); err != nil {
			return nil, err
		}
	}

	return transactions, nil
}

// tryRowStart decides whether the line opens a new logical transaction.
// Returns ok=false for continuations. A line shaped like a row-start but
// missing its trailing amount token is reported as an integrity error
// rather than guessed into a continuation.
func tryRowStart(tokens []string, line string) (*openRow, bool, error) {
	activityRaw, i, ok := takeDateToken(tokens, 0)
	if !ok {
		return nil, false, nil
	}
	postRaw, j, ok := takeDateToken(tokens, i)
	if !ok {
		return nil, false, nil
	}
	if j >= len(tokens) {
		return nil, false, nil
	}

	reference := tokens[j]
	if isAmountToken(reference) {
		return nil, false, nil
	}

	rest := tokens[j+1:]
	if len(rest) == 0 || !isAmountToken(rest[len(rest)-1]) {
		return nil, false, &domain.FieldIntegrityError{
			Field:  "amount",
			Region: string(template.RegionTransactions),
			Line:   line,
		}
	}

	return &openRow{
		activityRaw: activityRaw,
		postRaw:     postRaw,
		reference:   reference,
		descParts:   append([]string(nil), rest[:len(rest)-1]...),
		amountToken: rest[len(rest)-1],
		line:        line,
	}, true, nil
}
