package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
)

var billingEnd = time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC)

func TestParseTransactions(t *testing.T) {
	lines := []string{
		"Jul20 Jul21 00123456 TIM HORTONS #4821 TORONTO $8.42",
		"Jul22 Jul23 00123457 AMAZON.CA MARKETPLACE $123.45",
		"Aug01 Aug02 00123460 PAYMENT - THANK YOU $200.00CR",
	}

	txns, err := ParseTransactions(lines, billingEnd)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	first := txns[0]
	assert.Equal(t, time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC), first.ActivityDate())
	assert.Equal(t, time.Date(2024, time.July, 21, 0, 0, 0, 0, time.UTC), first.PostDate())
	assert.Equal(t, "00123456", first.ReferenceNumber())
	assert.Equal(t, "TIM HORTONS #4821 TORONTO", first.Description())
	assert.Equal(t, "8.42", first.Amount().StringFixed(2))

	payment := txns[2]
	assert.Equal(t, "-200.00", payment.Amount().StringFixed(2))
}

// Output order must mirror row-start order in the input, never re-sorted
// by date.
func TestParseTransactions_PreservesDocumentOrder(t *testing.T) {
	lines := []string{
		"Aug01 Aug02 00000003 LATEST CHARGE $3.00",
		"Jul20 Jul21 00000001 EARLIEST CHARGE $1.00",
		"Jul25 Jul26 00000002 MIDDLE CHARGE $2.00",
	}

	txns, err := ParseTransactions(lines, billingEnd)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, "00000003", txns[0].ReferenceNumber())
	assert.Equal(t, "00000001", txns[1].ReferenceNumber())
	assert.Equal(t, "00000002", txns[2].ReferenceNumber())
}

// A description spanning three physical lines becomes one single-spaced
// string with no embedded line breaks.
func TestParseTransactions_ContinuationMerge(t *testing.T) {
	lines := []string{
		"Jul20 Jul21 00123456 ANNUAL MEMBERSHIP $99.00",
		"FEE - PRIMARY CARD",
		"RENEWAL PERIOD 2024-2025",
		"Jul22 Jul23 00123457 AMAZON.CA $5.00",
	}

	txns, err := ParseTransactions(lines, billingEnd)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "ANNUAL MEMBERSHIP FEE - PRIMARY CARD RENEWAL PERIOD 2024-2025", txns[0].Description())
	assert.NotContains(t, txns[0].Description(), "\n")
	assert.Equal(t, "AMAZON.CA", txns[1].Description())
}

// A row whose reference is immediately followed by the amount parses with
// an empty description rather than failing the whole statement.
func TestParseTransactions_EmptyDescription(t *testing.T) {
	lines := []string{
		"Jul20 Jul21 00123456 $8.42",
		"Jul22 Jul23 00123457 AMAZON.CA $5.00",
	}

	txns, err := ParseTransactions(lines, billingEnd)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "", txns[0].Description())
	assert.Equal(t, "8.42", txns[0].Amount().StringFixed(2))
	assert.Equal(t, "AMAZON.CA", txns[1].Description())
}

func TestParseTransactions_SplitDateTokens(t *testing.T) {
	lines := []string{
		"Jul 20 Jul 21 00123456 TIM HORTONS $8.42",
	}

	txns, err := ParseTransactions(lines, billingEnd)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC), txns[0].ActivityDate())
}

func TestParseTransactions_DuplicateReference(t *testing.T) {
	lines := []string{
		"Jul20 Jul21 00123456 TIM HORTONS $8.42",
		"Jul22 Jul23 00123457 AMAZON.CA $5.00",
		"Jul25 Jul26 00123456 SHELL CANADA $40.00",
	}

	_, err := ParseTransactions(lines, billingEnd)
	var dupErr *domain.DuplicateReferenceError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "00123456", dupErr.Reference)
	assert.Equal(t, 0, dupErr.FirstIndex)
	assert.Equal(t, 2, dupErr.SecondIndex)
}

// A row-start with no trailing amount token is an integrity error, never a
// zero-amount transaction.
func TestParseTransactions_RowStartWithoutAmount(t *testing.T) {
	lines := []string{
		"Jul20 Jul21 00123456 TIM HORTONS",
	}

	_, err := ParseTransactions(lines, billingEnd)
	var fieldErr *domain.FieldIntegrityError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "amount", fieldErr.Field)
	assert.Equal(t, "transactions", fieldErr.Region)
	assert.Equal(t, lines[0], fieldErr.Line)
}

func TestParseTransactions_YearBoundary(t *testing.T) {
	decEnd := time.Date(2024, time.December, 28, 0, 0, 0, 0, time.UTC)
	lines := []string{
		"Dec30 Jan02 00123456 BOXING WEEK SALE $50.00",
	}

	txns, err := ParseTransactions(lines, decEnd)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, 2024, txns[0].ActivityDate().Year())
	assert.Equal(t, 2025, txns[0].PostDate().Year())
}

func TestParseTransactions_EmptyBuffer(t *testing.T) {
	txns, err := ParseTransactions(nil, billingEnd)
	require.NoError(t, err)
	assert.Empty(t, txns)
}
