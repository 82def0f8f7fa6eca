package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/Veraticus/paypal-ofx/internal/ofx"
	"github.com/Veraticus/paypal-ofx/internal/paypal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRow(values map[string]string) []string {
	row := make([]string, len(paypal.ExpectedHeader))
	for name, v := range values {
		row[slices.Index(paypal.ExpectedHeader, name)] = v
	}
	return row
}

// writeExport writes a German-locale PayPal export and returns its path.
func writeExport(t *testing.T, dir string, header []string) string {
	t.Helper()

	rows := [][]string{
		exportRow(map[string]string{
			"Date": "2020/01/15", "Name": "John Doe", "Currency": "EUR", "Gross": "1 234,56",
			"To Email Address": "john@example.com", "Transaction ID": "TX1", "Reference Txn ID": "REF123",
		}),
		exportRow(map[string]string{
			"Date": "2020/01/16", "Name": "Dollar Shop", "Currency": "USD", "Gross": "-5,00",
			"To Email Address": "shop@example.com", "Transaction ID": "TX2",
		}),
		exportRow(map[string]string{
			"Date": "2020/01/17", "Name": "Steam Purchase", "Currency": "EUR", "Gross": "-59,99",
			"To Email Address": "SteamGamesEU@steampowered.com", "Transaction ID": "TX3",
			"Item Title": "Half-Life 3", "Balance": "1 174,57",
		}),
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(header, ", ") + "\n")
	w := csv.NewWriter(&buf)
	require.NoError(t, w.WriteAll(rows))

	path := filepath.Join(dir, "Download.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func convertArgs(path string, extra ...string) []string {
	args := []string{
		"convert", path,
		"--account-id", "me@example.com",
		"--currency", "EUR",
		"--locale", "de_DE",
		"--log-level", "error",
	}
	return append(args, extra...)
}

func TestConvertWritesOFX(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)

	_, err := runCLI(t, convertArgs(path, "--analyze", "true")...)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "Download.ofx"))
	require.NoError(t, err)
	defer f.Close()

	statements, err := ofx.NewParser().ParseFile(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	stmt := statements[0]
	assert.Equal(t, "PayPal", stmt.BankID)
	assert.Equal(t, "me@example.com", stmt.AccountID)
	assert.Equal(t, "EUR", stmt.Currency)
	require.Len(t, stmt.Records, 2)

	assert.Equal(t, "TX1", stmt.Records[0].ID)
	assert.Equal(t, "John Doe", stmt.Records[0].Memo)
	assert.Equal(t, "REF123", stmt.Records[0].RefNum)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(stmt.Records[0].Amount))

	assert.Equal(t, "TX3", stmt.Records[1].ID)
	assert.Equal(t, "Steam Purchase / Half-Life 3", stmt.Records[1].Memo)

	require.NotNil(t, stmt.Balance)
	assert.True(t, decimal.RequireFromString("1174.57").Equal(*stmt.Balance))
}

func TestConvertIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)
	output := filepath.Join(dir, "Download.ofx")

	_, err := runCLI(t, convertArgs(path)...)
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	_, err = runCLI(t, convertArgs(path)...)
	require.NoError(t, err)
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConvertDebugPrintsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)

	out, err := runCLI(t, convertArgs(path, "--debug")...)
	require.NoError(t, err)

	assert.Contains(t, out, "TX1")
	assert.Contains(t, out, "TX3")
	assert.NotContains(t, out, "TX2")
	assert.Contains(t, out, `memo="Steam Purchase"`)

	_, err = os.Stat(filepath.Join(dir, "Download.ofx"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertRejectsBadHeader(t *testing.T) {
	dir := t.TempDir()
	header := slices.Clone(paypal.ExpectedHeader)
	header[7], header[8] = header[8], header[7]
	path := writeExport(t, dir, header)

	_, err := runCLI(t, convertArgs(path)...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSchemaMismatch))

	_, statErr := os.Stat(filepath.Join(dir, "Download.ofx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertRejectsBadAnalyzeValue(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)

	_, err := runCLI(t, convertArgs(path, "--analyze", "maybe")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidConfig))
}

func TestConvertWrongLocaleFails(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)

	_, err := runCLI(t, "convert", path,
		"--account-id", "me@example.com",
		"--currency", "EUR",
		"--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNumberParse))
}

func TestConvertMissingFile(t *testing.T) {
	_, err := runCLI(t, convertArgs(filepath.Join(t.TempDir(), "missing.csv"))...)
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func TestConvertReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)

	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`paypal:
  account_id: cfg@example.com
  currency: EUR
  locale: de_DE
  analyze: "0"
logging:
  level: error
`), 0o600))

	out, err := runCLI(t, "convert", path, "--config", cfg, "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "cfg@example.com")
	assert.Contains(t, out, `memo="Steam Purchase"`)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := writeExport(t, dir, paypal.ExpectedHeader)

	_, err := runCLI(t, convertArgs(path)...)
	require.NoError(t, err)

	out, err := runCLI(t, "inspect", filepath.Join(dir, "Download.ofx"), "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "PayPal me@example.com (EUR)")
	assert.Contains(t, out, "TX1")
	assert.Contains(t, out, "2 transactions")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "paypal-ofx dev")
}
