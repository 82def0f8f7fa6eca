package paypal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/paypal-ofx/internal/common"
)

// ExpectedHeader is the column layout of a PayPal activity export.
var ExpectedHeader = []string{
	"Date",
	"Time",
	"Time Zone",
	"Name",
	"Type",
	"Status",
	"Currency",
	"Gross",
	"Fee",
	"Net",
	"From Email Address",
	"To Email Address",
	"Transaction ID",
	"Counterparty Status",
	"Address Status",
	"Item Title",
	"Item ID",
	"Shipping and Handling Amount",
	"Insurance Amount",
	"Sales Tax",
	"Option 1 Name",
	"Option 1 Value",
	"Option 2 Name",
	"Option 2 Value",
	"Auction Site",
	"Buyer ID",
	"Item URL",
	"Closing Date",
	"Escrow Id",
	"Invoice Id",
	"Reference Txn ID",
	"Invoice Number",
	"Custom Number",
	"Receipt ID",
	"Balance",
	"Address Line 1",
	"Address Line 2/District/Neighborhood",
	"Town/City",
	"State/Province/Region/County/Territory/Prefecture/Republic",
	"Zip/Postal Code",
	"Country",
	"Contact Phone Number",
	"",
}

// Column positions used by the parser.
var (
	colDate        = mustColumn("Date")
	colName        = mustColumn("Name")
	colCurrency    = mustColumn("Currency")
	colGross       = mustColumn("Gross")
	colToEmail     = mustColumn("To Email Address")
	colTxnID       = mustColumn("Transaction ID")
	colItemTitle   = mustColumn("Item Title")
	colReferenceID = mustColumn("Reference Txn ID")
	colBalance     = mustColumn("Balance")
)

// minRecordFields is how many cells a row needs for every mapped column.
var minRecordFields = slices.Max([]int{
	colDate, colName, colCurrency, colGross, colToEmail,
	colTxnID, colItemTitle, colReferenceID, colBalance,
}) + 1

func mustColumn(name string) int {
	idx := slices.Index(ExpectedHeader, name)
	if idx < 0 {
		panic(fmt.Sprintf("paypal: unknown column %q", name))
	}
	return idx
}

// SchemaMismatchError reports a header that differs from ExpectedHeader.
type SchemaMismatchError struct {
	Expected []string
	Actual   []string
}

func (e *SchemaMismatchError) Error() string {
	return strings.Join([]string{
		"header template doesn't match:",
		fmt.Sprintf("expected: %q", e.Expected),
		fmt.Sprintf("actual  : %q", e.Actual),
	}, "\n")
}

func (e *SchemaMismatchError) Unwrap() error {
	return common.ErrSchemaMismatch
}

// ValidateHeader compares the trimmed cells of the first CSV row with
// ExpectedHeader. Names and order must match exactly.
func ValidateHeader(header []string) error {
	actual := make([]string, len(header))
	for i, cell := range header {
		actual[i] = strings.TrimSpace(cell)
	}

	if !slices.Equal(ExpectedHeader, actual) {
		return &SchemaMismatchError{
			Expected: slices.Clone(ExpectedHeader),
			Actual:   actual,
		}
	}
	return nil
}
