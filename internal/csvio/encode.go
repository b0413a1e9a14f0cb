package csvio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mverdeja/footfall/internal/model"
)

// Encode writes the loaded dataset back out as CSV in the same shape the
// feed arrives in. Used by the export endpoint.
func Encode(w io.Writer, transactions []model.Transaction) error {
	header := EncodeLine([]string{"User Email", "Merchant", "Date", "Transaction Amount"})
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, tx := range transactions {
		line := EncodeLine([]string{
			tx.Email,
			tx.Merchant,
			tx.Date.Format("2006-01-02"),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
		})
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
