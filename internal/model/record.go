package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types written to OFX.
const (
	TrnTypeCredit = "CREDIT"
	TrnTypeDebit  = "DEBIT"
)

// Record is a single statement line derived from one export row.
type Record struct {
	Date   time.Time
	Amount decimal.Decimal
	ID     string
	Payee  string
	Memo   string
	RefNum string // ID of the transaction this one refers to, if any
}

// TrnType classifies the record by the sign of its amount.
func (r Record) TrnType() string {
	if r.Amount.IsNegative() {
		return TrnTypeDebit
	}
	return TrnTypeCredit
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %10s payee=%q memo=%q refnum=%q",
		r.Date.Format("2006-01-02"),
		r.ID,
		r.Amount.StringFixed(2),
		r.Payee,
		r.Memo,
		r.RefNum)
}
