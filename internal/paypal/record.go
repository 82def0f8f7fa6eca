package paypal

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/Veraticus/paypal-ofx/internal/locale"
	"github.com/Veraticus/paypal-ofx/internal/model"
	"github.com/shopspring/decimal"
)

// DateLayout is the format of the Date column. Single-digit months and
// days are accepted as well.
const DateLayout = "2006/1/2"

// steamStorePayee gets its item title appended to the memo in analyze mode.
const steamStorePayee = "steamgameseu@steampowered.com"

// DateParseError reports a Date cell that does not match DateLayout.
type DateParseError struct {
	Err   error
	Input string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse date %q (want YYYY/MM/DD): %v", e.Input, e.Err)
}

// Unwrap exposes both common.ErrDateParse and the time package error.
func (e *DateParseError) Unwrap() []error {
	return []error{common.ErrDateParse, e.Err}
}

// MapOptions controls how a row becomes a record.
type MapOptions struct {
	Number  locale.NumberFormat
	Analyze bool
}

// MapRow converts one export row into a statement record.
func MapRow(row []string, opts MapOptions) (model.Record, error) {
	if len(row) < minRecordFields {
		return model.Record{}, fmt.Errorf("%w: row has %d fields, need at least %d",
			common.ErrSchemaMismatch, len(row), minRecordFields)
	}

	date, err := time.Parse(DateLayout, row[colDate])
	if err != nil {
		return model.Record{}, &DateParseError{Input: row[colDate], Err: err}
	}

	amount, err := parseAmount(row[colGross], opts.Number)
	if err != nil {
		return model.Record{}, fmt.Errorf("gross: %w", err)
	}

	// Becomes the FITID, which OFX requires.
	if strings.TrimSpace(row[colTxnID]) == "" {
		return model.Record{}, fmt.Errorf("%w: %s", common.ErrMissingField, ExpectedHeader[colTxnID])
	}

	rec := model.Record{
		ID:     row[colTxnID],
		Date:   date,
		Payee:  row[colToEmail],
		Memo:   row[colName],
		RefNum: row[colReferenceID],
		Amount: amount,
	}

	if opts.Analyze && strings.EqualFold(rec.Payee, steamStorePayee) {
		rec.Memo = fmt.Sprintf("%s / %s", rec.Memo, row[colItemTitle])
	}

	return rec, nil
}

// parseAmount removes all whitespace, which PayPal uses for digit grouping
// in some locales, before parsing.
func parseAmount(s string, f locale.NumberFormat) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return locale.ParseDecimal(clean, f)
}
