// Package paypal parses PayPal activity exports (CSV) into statements.
package paypal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/paypal-ofx/internal/charset"
	"github.com/Veraticus/paypal-ofx/internal/locale"
	"github.com/Veraticus/paypal-ofx/internal/model"
	"github.com/shopspring/decimal"
)

// BankID identifies PayPal as the institution in written statements.
const BankID = "PayPal"

// State tracks where a Parser is in its lifecycle.
type State int

// Parser states.
const (
	StateUnvalidated State = iota
	StateValidated
	StateStreaming
	StateDone
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "unvalidated"
	case StateValidated:
		return "validated"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures a Parser.
type Options struct {
	AccountID string
	Currency  string
	Encoding  string // charset of the input; empty selects charset.Default
	Number    locale.NumberFormat
	Analyze   bool
}

// RowError attaches the input line to a row that could not be mapped.
type RowError struct {
	Err  error
	Line int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type row struct {
	fields []string
	line   int
}

// Parser turns one PayPal export into a statement.
type Parser struct {
	err   error
	opts  Options
	rows  []row
	state State
}

// NewParser reads the whole export from r and validates its header.
// A header mismatch returns a *SchemaMismatchError.
func NewParser(r io.Reader, opts Options) (*Parser, error) {
	p := &Parser{opts: opts}

	decoded, err := charset.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	rows, err := readRows(decoded)
	if err != nil {
		return nil, err
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0].fields
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], "\ufeff")
		}
		rows = rows[1:]
	}

	if err := ValidateHeader(header); err != nil {
		p.state = StateInvalid
		p.err = err
		return nil, err
	}

	p.rows = rows
	p.state = StateValidated
	return p, nil
}

func readRows(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []row
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row{fields: fields, line: line})
	}
	return rows, nil
}

// State reports the lifecycle state of the parser.
func (p *Parser) State() State {
	return p.state
}

// Parse maps every row in the target currency to a record, in file order.
// Rows in other currencies are counted in Statement.Skipped. The first
// row that fails to map aborts the run and leaves the parser invalid.
// Parse can be called again after it succeeds and returns an equal statement.
// The closing balance is best effort: it comes from the latest dated row
// with a Balance cell and is left nil when that cell does not parse.
func (p *Parser) Parse() (*model.Statement, error) {
	if p.state == StateInvalid {
		return nil, p.err
	}
	p.state = StateStreaming

	mapOpts := MapOptions{Number: p.opts.Number, Analyze: p.opts.Analyze}
	stmt := model.NewStatement(BankID, p.opts.AccountID, p.opts.Currency)

	retained, skipped := filterRows(p.rows, p.opts.Currency)
	stmt.Skipped = skipped

	var (
		balance     *row
		balanceDate time.Time
	)
	for i := range retained {
		r := &retained[i]
		rec, err := MapRow(r.fields, mapOpts)
		if err != nil {
			return nil, p.fail(&RowError{Line: r.line, Err: err})
		}
		slog.Debug("Parsed PayPal transaction",
			"line", r.line,
			"id", rec.ID,
			"amount", rec.Amount.String())
		stmt.Add(rec)

		// Exports may be newest-first; the closing balance belongs to the
		// latest dated row, and the later row in the file wins a tie.
		if strings.TrimSpace(r.fields[colBalance]) != "" && !rec.Date.Before(balanceDate) {
			balance = r
			balanceDate = rec.Date
		}
	}

	if balance != nil {
		stmt.Balance = p.ledgerBalance(balance)
	}

	p.state = StateDone

	slog.Info("Parsed PayPal statement",
		"currency", p.opts.Currency,
		"retained", len(stmt.Records),
		"skipped", stmt.Skipped)

	return stmt, nil
}

// ledgerBalance parses the Balance cell of r. The column is informational,
// so a cell that does not parse is logged and the balance left unset.
func (p *Parser) ledgerBalance(r *row) *decimal.Decimal {
	amount, err := parseAmount(r.fields[colBalance], p.opts.Number)
	if err != nil {
		slog.Warn("Ignoring unparseable PayPal balance",
			"line", r.line,
			"balance", r.fields[colBalance],
			"error", err)
		return nil
	}
	return &amount
}

func (p *Parser) fail(err error) error {
	p.state = StateInvalid
	p.err = err
	return err
}

// filterRows keeps the rows whose Currency cell equals currency exactly.
func filterRows(rows []row, currency string) ([]row, int) {
	kept := make([]row, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if len(r.fields) > colCurrency && r.fields[colCurrency] == currency {
			kept = append(kept, r)
			continue
		}
		skipped++
	}
	return kept, skipped
}
