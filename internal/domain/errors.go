package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// FieldIntegrityError reports a mandatory field that could not be located
// or parsed within its region. Line carries the offending text when the
// failure is tied to a specific line; it is empty when the field never
// appeared at all.
type FieldIntegrityError struct {
	Field  string
	Region string
	Line   string
}

func (e *FieldIntegrityError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("field %q in region %s could not be parsed from line %q", e.Field, e.Region, e.Line)
	}
	return fmt.Sprintf("field %q not found in region %s", e.Field, e.Region)
}

// DuplicateReferenceError reports two transactions sharing a reference
// number. Indices are zero-based positions in document order.
type DuplicateReferenceError struct {
	Reference   string
	FirstIndex  int
	SecondIndex int
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("duplicate reference number %q at transactions %d and %d",
		e.Reference, e.FirstIndex, e.SecondIndex)
}

// MissingRegionError reports that a mandatory region marker never appeared
// in the document.
type MissingRegionError struct {
	Region string
}

func (e *MissingRegionError) Error() string {
	return fmt.Sprintf("mandatory region %s not found in document", e.Region)
}

// BalanceMismatchError reports a structurally complete parse whose figures
// fail the accounting identity
//
//	previous + purchases - credits + fees + interest == new balance.
//
// It carries both sides of the comparison plus the contributing fields so
// callers can show exactly which figure disagrees.
type BalanceMismatchError struct {
	Computed        decimal.Decimal
	Stated          decimal.Decimal
	PreviousBalance decimal.Decimal
	Purchases       decimal.Decimal
	Credits         decimal.Decimal
	Fees            decimal.Decimal
	Interest        decimal.Decimal
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("balance mismatch: computed %s, stated %s (previous %s + purchases %s - credits %s + fees %s + interest %s)",
		e.Computed, e.Stated, e.PreviousBalance, e.Purchases, e.Credits, e.Fees, e.Interest)
}

// IsStructural reports whether err means the document does not fit the
// supported layout (missing region, unlocatable field, duplicated
// reference), as opposed to a BalanceMismatchError, where the layout parsed
// but the statement's own figures disagree.
func IsStructural(err error) bool {
	var fieldErr *FieldIntegrityError
	var dupErr *DuplicateReferenceError
	var regionErr *MissingRegionError
	return errors.As(err, &fieldErr) || errors.As(err, &dupErr) || errors.As(err, &regionErr)
}
