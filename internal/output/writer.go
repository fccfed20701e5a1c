// Package output maps a parsed statement to its tabular export form: one
// CSV row per transaction. The export never reaches into parser internals;
// everything it needs comes from the statement aggregate.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rumor-ml/commons.systems/ccparse/internal/domain"
)

// columns is the fixed export schema. Dates print as calendar dates and
// amounts as fixed-point numerics with two fractional digits.
var columns = []string{"activity_date", "post_date", "reference_number", "description", "amount"}

// WriteCSV serializes the statement's transactions to w, header first,
// rows in document order.
func WriteCSV(statement *domain.Statement, w io.Writer) error {
	if statement == nil {
		return fmt.Errorf("statement cannot be nil")
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range statement.Transactions() {
		row := []string{
			txn.ActivityDate().Format("2006-01-02"),
			txn.PostDate().Format("2006-01-02"),
			txn.ReferenceNumber(),
			txn.Description(),
			txn.Amount().StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for reference %s: %w", txn.ReferenceNumber(), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// WriteCSVToFile writes the export to path, or to stdout when path is
// empty. A failed close on the output file surfaces as an error.
func WriteCSVToFile(statement *domain.Statement, path string) (err error) {
	if path == "" {
		return WriteCSV(statement, os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", path, closeErr)
		}
	}()

	if err = WriteCSV(statement, f); err != nil {
		return fmt.Errorf("failed to write export to %s: %w", path, err)
	}
	return nil
}
