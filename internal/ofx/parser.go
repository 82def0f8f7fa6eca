// Package ofx writes statements as OFX documents and reads them back.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/paypal-ofx/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// amountPrecision is the number of fraction digits kept when reading amounts.
const amountPrecision = 8

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX file and returns one statement per bank or
// credit card statement it contains.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]*model.Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var statements []*model.Statement

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			s, err := p.processStatement(
				string(stmt.BankAcctFrom.BankID),
				string(stmt.BankAcctFrom.AcctID),
				stmt.CurDef.String(),
				stmt.BankTranList,
				stmt.BalAmt)
			if err != nil {
				return nil, fmt.Errorf("bank statement %s: %w", stmt.BankAcctFrom.AcctID, err)
			}
			statements = append(statements, s)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			s, err := p.processStatement(
				"",
				string(stmt.CCAcctFrom.AcctID),
				stmt.CurDef.String(),
				stmt.BankTranList,
				stmt.BalAmt)
			if err != nil {
				return nil, fmt.Errorf("credit card statement %s: %w", stmt.CCAcctFrom.AcctID, err)
			}
			statements = append(statements, s)
		}
	}

	slog.Debug("Parsed OFX file", "statements", len(statements))

	return statements, nil
}

// processStatement builds a statement from one OFX statement response.
// LEDGERBAL is mandatory in OFX, so the balance is taken as written.
func (p *Parser) processStatement(bankID, accountID, currency string, list *ofxgo.TransactionList, balance ofxgo.Amount) (*model.Statement, error) {
	stmt := model.NewStatement(bankID, accountID, currency)

	bal, err := toDecimal(balance)
	if err != nil {
		return nil, fmt.Errorf("ledger balance: %w", err)
	}
	stmt.Balance = &bal

	if list == nil {
		return stmt, nil
	}

	for _, tx := range list.Transactions {
		rec, err := p.convertTransaction(tx)
		if err != nil {
			return nil, err
		}
		stmt.Add(rec)
	}
	return stmt, nil
}

// convertTransaction converts an OFX transaction to our model.
func (p *Parser) convertTransaction(tx ofxgo.Transaction) (model.Record, error) {
	amount, err := toDecimal(tx.TrnAmt)
	if err != nil {
		return model.Record{}, fmt.Errorf("transaction %s: %w", tx.FiTID, err)
	}

	payee := string(tx.Name)
	// Prefer PAYEE if available
	if tx.Payee != nil && tx.Payee.Name != "" {
		payee = string(tx.Payee.Name)
	}

	return model.Record{
		ID:     string(tx.FiTID),
		Date:   tx.DtPosted.UTC(),
		Payee:  payee,
		Memo:   string(tx.Memo),
		RefNum: string(tx.RefNum),
		Amount: amount,
	}, nil
}

func toDecimal(a ofxgo.Amount) (decimal.Decimal, error) {
	return decimal.NewFromString(a.FloatString(amountPrecision))
}
