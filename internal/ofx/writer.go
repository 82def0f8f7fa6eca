package ofx

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/paypal-ofx/internal/model"
	"github.com/Veraticus/paypal-ofx/internal/service"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// uidNamespace scopes the name-based UUIDs used as TRNUID.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.paypal.com/ofx"))

var (
	_ service.StatementWriter = (*Writer)(nil)
	_ service.StatementReader = (*Parser)(nil)
)

// Writer serializes statements as OFX 2.0.3 documents.
type Writer struct{}

// NewWriter creates a new OFX writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write marshals stmt and writes the document to out.
// The output depends only on the statement, so equal statements produce
// byte-identical documents.
func (w *Writer) Write(ctx context.Context, out io.Writer, stmt *model.Statement) error {
	resp, err := w.Build(stmt)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	buf, err := resp.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal OFX: %w", err)
	}

	if _, err := buf.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write OFX: %w", err)
	}
	return nil
}

// Build converts a statement into an ofxgo response.
func (w *Writer) Build(stmt *model.Statement) (*ofxgo.Response, error) {
	curDef, err := ofxgo.NewCurrSymbol(stmt.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid statement currency %q: %w", stmt.Currency, err)
	}

	asOf := serverDate(stmt)

	stmtResp := ofxgo.StatementResponse{
		TrnUID: ofxgo.UID(statementUID(stmt)),
		Status: ofxgo.Status{
			Code:     0,
			Severity: "INFO",
		},
		CurDef: *curDef,
		BankAcctFrom: ofxgo.BankAcct{
			BankID:   ofxgo.String(stmt.BankID),
			AcctID:   ofxgo.String(stmt.AccountID),
			AcctType: ofxgo.AcctTypeChecking,
		},
		DtAsOf: ofxgo.Date{Time: asOf},
	}

	stmtResp.BalAmt.Set(ledgerBalance(stmt).Rat())

	if len(stmt.Records) > 0 {
		list := &ofxgo.TransactionList{
			DtStart:      ofxgo.Date{Time: stmt.StartDate},
			DtEnd:        ofxgo.Date{Time: stmt.EndDate},
			Transactions: make([]ofxgo.Transaction, 0, len(stmt.Records)),
		}
		for _, rec := range stmt.Records {
			list.Transactions = append(list.Transactions, convertRecord(rec))
		}
		stmtResp.BankTranList = list
	}

	return &ofxgo.Response{
		Version: ofxgo.OfxVersion203,
		Signon: ofxgo.SignonResponse{
			Status: ofxgo.Status{
				Code:     0,
				Severity: "INFO",
			},
			DtServer: ofxgo.Date{Time: asOf},
			Language: "ENG",
		},
		Bank: []ofxgo.Message{&stmtResp},
	}, nil
}

// convertRecord converts one statement record to an OFX transaction.
func convertRecord(rec model.Record) ofxgo.Transaction {
	tx := ofxgo.Transaction{
		TrnType:  ofxgo.TrnTypeCredit,
		DtPosted: ofxgo.Date{Time: rec.Date},
		FiTID:    ofxgo.String(rec.ID),
		RefNum:   ofxgo.String(rec.RefNum),
		Name:     ofxgo.String(rec.Payee),
		Memo:     ofxgo.String(rec.Memo),
	}
	if rec.TrnType() == model.TrnTypeDebit {
		tx.TrnType = ofxgo.TrnTypeDebit
	}
	tx.TrnAmt.Set(rec.Amount.Rat())
	return tx
}

// ledgerBalance is the closing balance reported in LEDGERBAL, which OFX
// requires. Without a balance from the export, the net of the statement's
// records is reported: it is what the account moved by over the period and
// is zero only when the records really sum to zero.
func ledgerBalance(stmt *model.Statement) decimal.Decimal {
	if stmt.Balance != nil {
		return *stmt.Balance
	}
	return stmt.Total()
}

// serverDate is reported as DTSERVER and DTASOF. It comes from the
// statement, never the clock, so an empty statement has nothing to report
// but the Unix epoch.
func serverDate(stmt *model.Statement) time.Time {
	if len(stmt.Records) == 0 {
		return time.Unix(0, 0).UTC()
	}
	return stmt.EndDate
}

// statementUID derives a stable transaction UID from the statement content.
func statementUID(stmt *model.Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s", stmt.BankID, stmt.AccountID, stmt.Currency)
	for _, rec := range stmt.Records {
		fmt.Fprintf(&b, "|%s:%s:%s", rec.ID, rec.Date.Format("20060102"), rec.Amount.String())
	}
	return uuid.NewSHA1(uidNamespace, []byte(b.String())).String()
}
