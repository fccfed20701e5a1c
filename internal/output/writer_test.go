package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testStatement(t *testing.T) *domain.Statement {
	t.Helper()

	purchase, err := domain.NewTransaction(
		day(2024, time.July, 20), day(2024, time.July, 21),
		"00123456", "TIM HORTONS #1234, TORONTO", decimal.RequireFromString("8.42"))
	require.NoError(t, err)

	payment, err := domain.NewTransaction(
		day(2024, time.August, 1), day(2024, time.August, 1),
		"00123457", "PAYMENT - THANK YOU", decimal.RequireFromString("-500.00"))
	require.NoError(t, err)

	balance := domain.NewBalanceSummary(
		decimal.RequireFromString("591.58"), decimal.RequireFromString("8.42"),
		decimal.RequireFromString("500.00"), decimal.Zero, decimal.Zero,
		decimal.RequireFromString("100.00"), decimal.RequireFromString("9900.00"), decimal.RequireFromString("10.00"))

	stmt, err := domain.NewStatement(
		"TD Rewards Visa Card", "JOHN A SMITH", "4821",
		day(2024, time.July, 15), day(2024, time.August, 14),
		balance, 12345, []*domain.Transaction{purchase, payment})
	require.NoError(t, err)
	return stmt
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(testStatement(t), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"activity_date", "post_date", "reference_number", "description", "amount"}, records[0])
	assert.Equal(t, []string{"2024-07-20", "2024-07-21", "00123456", "TIM HORTONS #1234, TORONTO", "8.42"}, records[1])
	assert.Equal(t, []string{"2024-08-01", "2024-08-01", "00123457", "PAYMENT - THANK YOU", "-500.00"}, records[2])
}

// Descriptions containing commas and quotes must survive the round trip.
func TestWriteCSV_QuotesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(testStatement(t), &buf))

	assert.Contains(t, buf.String(), `"TIM HORTONS #1234, TORONTO"`)
}

func TestWriteCSV_NoTransactions(t *testing.T) {
	balance := domain.NewBalanceSummary(
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	stmt, err := domain.NewStatement(
		"TD Rewards Visa Card", "JOHN A SMITH", "4821",
		day(2024, time.July, 15), day(2024, time.August, 14),
		balance, 0, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(stmt, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "activity_date,post_date,reference_number,description,amount", lines[0])
}

func TestWriteCSV_NilStatement(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(nil, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement cannot be nil")
}

func TestWriteCSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, WriteCSVToFile(testStatement(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestWriteCSVToFile_BadPath(t *testing.T) {
	err := WriteCSVToFile(testStatement(t), filepath.Join(t.TempDir(), "missing", "export.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
