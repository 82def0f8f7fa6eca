package cli

import (
	"fmt"
	"io"

	"github.com/Veraticus/paypal-ofx/internal/model"
)

// PrintStatement writes a statement header and one line per record.
func PrintStatement(w io.Writer, stmt *model.Statement) error {
	title := fmt.Sprintf("%s %s (%s)", stmt.BankID, stmt.AccountID, stmt.Currency)
	if _, err := fmt.Fprintln(w, StyleTitle(title)); err != nil {
		return err
	}

	for _, rec := range stmt.Records {
		style := CreditStyle
		if rec.TrnType() == model.TrnTypeDebit {
			style = DebitStyle
		}
		if _, err := fmt.Fprintln(w, style.Render(rec.String())); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d transactions, total %s", len(stmt.Records), stmt.Total().StringFixed(2))
	if stmt.Skipped > 0 {
		summary += fmt.Sprintf(", %d rows in other currencies skipped", stmt.Skipped)
	}
	if stmt.Balance != nil {
		summary += fmt.Sprintf(", balance %s", stmt.Balance.StringFixed(2))
	}
	_, err := fmt.Fprintln(w, StyleSubtle(summary))
	return err
}
