package assemble

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/ccparse/internal/classify"
	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
	"github.com/rumor-ml/commons.systems/ccparse/internal/normalize"
	"github.com/rumor-ml/commons.systems/ccparse/internal/template"
)

func loadTD(t *testing.T) *template.Template {
	t.Helper()
	tmpl, err := template.LoadEmbedded()
	require.NoError(t, err)
	return tmpl
}

// classified builds buffers the way the pipeline would, by running the
// classifier over one flat line sequence.
func classified(t *testing.T, tmpl *template.Template, texts ...string) *classify.Buffers {
	t.Helper()
	lines := make([]normalize.Line, len(texts))
	for i, text := range texts {
		lines[i] = normalize.Line{Page: 1, Text: text}
	}
	return classify.Classify(lines, tmpl)
}

func fullDocument() []string {
	return []string{
		"TD Rewards Visa Card",
		"Primary Cardholder: JOHN A SMITH",
		"Account Number Ending in: 4821",
		"Statement Period: July 15, 2024 - August 14, 2024",
		"Account Summary",
		"Previous Balance $1,516.49CR",
		"Payments & Credits $0.00",
		"Purchases $365.47",
		"Fees $0.00",
		"Interest $0.00",
		"New Balance $1,151.02CR",
		"Minimum Payment Due $0.00",
		"Available Credit $9,500.00",
		"TD Points Summary",
		"New Points Balance 12,345",
		"Transactions",
		"Jul20 Jul21 00123456 TIM HORTONS #1234 $8.42",
		"Jul22 Jul23 00123457 AMAZON.CA PURCHASE $357.05",
	}
}

func TestStatement_FullDocument(t *testing.T) {
	tmpl := loadTD(t)

	stmt, err := Statement(classified(t, tmpl, fullDocument()...), tmpl)
	require.NoError(t, err)

	assert.Equal(t, "TD Rewards Visa Card", stmt.EntityName())
	assert.Equal(t, "JOHN A SMITH", stmt.PrimaryCardholder())
	assert.Equal(t, "4821", stmt.AccountSuffix())
	assert.Equal(t, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), stmt.BillingPeriodStart())
	assert.Equal(t, time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC), stmt.BillingPeriodEnd())
	assert.Equal(t, 12345, stmt.CurrentPoints())

	balance := stmt.BalanceSummary()
	assert.True(t, balance.PreviousBalance().Equal(decimal.RequireFromString("-1516.49")))
	assert.True(t, balance.NewBalance().Equal(decimal.RequireFromString("-1151.02")))

	txns := stmt.Transactions()
	require.Len(t, txns, 2)
	assert.Equal(t, "00123456", txns[0].ReferenceNumber())
	assert.Equal(t, "TIM HORTONS #1234", txns[0].Description())
	assert.True(t, txns[0].Amount().Equal(decimal.RequireFromString("8.42")))
	assert.Equal(t, time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC), txns[0].ActivityDate())
	assert.Equal(t, "00123457", txns[1].ReferenceNumber())
}

// A period without activity is a valid statement when the figures balance.
func TestStatement_NoTransactions(t *testing.T) {
	tmpl := loadTD(t)
	buffers := classified(t, tmpl,
		"TD Rewards Visa Card",
		"Primary Cardholder: JOHN A SMITH",
		"Account Number Ending in: 4821",
		"Statement Period: July 15, 2024 - August 14, 2024",
		"Account Summary",
		"Previous Balance $100.00",
		"Payments & Credits $0.00",
		"Purchases $0.00",
		"Fees $0.00",
		"Interest $0.00",
		"New Balance $100.00",
		"Minimum Payment Due $10.00",
		"Available Credit $9,900.00",
	)

	stmt, err := Statement(buffers, tmpl)
	require.NoError(t, err)
	assert.Equal(t, 0, stmt.TransactionCount())
	assert.Equal(t, 0, stmt.CurrentPoints())
}

func TestStatement_MissingHeaderRegion(t *testing.T) {
	tmpl := loadTD(t)
	buffers := classified(t, tmpl,
		"Account Summary",
		"Previous Balance $0.00",
	)

	_, err := Statement(buffers, tmpl)
	require.Error(t, err)

	var missing *domain.MissingRegionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "header", missing.Region)
}

func TestStatement_MissingBalanceRegion(t *testing.T) {
	tmpl := loadTD(t)
	buffers := classified(t, tmpl, "TD Rewards Visa Card")

	_, err := Statement(buffers, tmpl)
	require.Error(t, err)

	var missing *domain.MissingRegionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "balance_summary", missing.Region)
}

func TestStatement_FieldErrorPropagates(t *testing.T) {
	tmpl := loadTD(t)
	doc := fullDocument()
	// Drop the cardholder line from the header.
	doc = append(doc[:1], doc[2:]...)

	_, err := Statement(classified(t, tmpl, doc...), tmpl)
	require.Error(t, err)

	var fieldErr *domain.FieldIntegrityError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "primary_cardholder", fieldErr.Field)
	assert.True(t, domain.IsStructural(err))
}

func TestStatement_BalanceMismatchRejected(t *testing.T) {
	tmpl := loadTD(t)
	doc := fullDocument()
	for i, line := range doc {
		if line == "New Balance $1,151.02CR" {
			doc[i] = "New Balance $1,151.03CR"
		}
	}

	_, err := Statement(classified(t, tmpl, doc...), tmpl)
	require.Error(t, err)

	var mismatch *domain.BalanceMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "-1151.02", mismatch.Computed.StringFixed(2))
	assert.Equal(t, "-1151.03", mismatch.Stated.StringFixed(2))
	assert.False(t, domain.IsStructural(err))
}

func TestStatement_DuplicateReferenceRejected(t *testing.T) {
	tmpl := loadTD(t)
	doc := append(fullDocument(),
		"Jul24 Jul25 00123456 TIM HORTONS #1234 $8.42",
	)

	_, err := Statement(classified(t, tmpl, doc...), tmpl)
	require.Error(t, err)

	var dup *domain.DuplicateReferenceError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "00123456", dup.Reference)
}
