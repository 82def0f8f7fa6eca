// Package model holds the statement types shared by the parser and the OFX writer.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is an account identity plus its ordered records.
type Statement struct {
	StartDate time.Time
	EndDate   time.Time
	Balance   *decimal.Decimal // closing balance, nil when the export has none
	BankID    string
	AccountID string
	Currency  string
	Records   []Record
	Skipped   int // rows dropped because of a different currency
}

// NewStatement creates an empty statement for an account.
func NewStatement(bankID, accountID, currency string) *Statement {
	return &Statement{
		BankID:    bankID,
		AccountID: accountID,
		Currency:  currency,
	}
}

// Add appends a record and widens the statement period to include it.
func (s *Statement) Add(r Record) {
	if len(s.Records) == 0 || r.Date.Before(s.StartDate) {
		s.StartDate = r.Date
	}
	if len(s.Records) == 0 || r.Date.After(s.EndDate) {
		s.EndDate = r.Date
	}
	s.Records = append(s.Records, r)
}

// Total sums the amounts of all records.
func (s *Statement) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Records {
		total = total.Add(r.Amount)
	}
	return total
}
