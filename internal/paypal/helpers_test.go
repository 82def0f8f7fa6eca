package paypal

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeRow builds an export row with the named columns set.
func makeRow(values map[string]string) []string {
	row := make([]string, len(ExpectedHeader))
	for name, v := range values {
		row[mustColumn(name)] = v
	}
	return row
}

func usdRow(id, date, gross string) []string {
	return makeRow(map[string]string{
		"Date":             date,
		"Name":             "Name " + id,
		"Currency":         "USD",
		"Gross":            gross,
		"To Email Address": id + "@example.com",
		"Transaction ID":   id,
	})
}

// buildCSV renders a header and rows the way PayPal writes them.
func buildCSV(t *testing.T, header []string, rows ...[]string) string {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	for _, r := range rows {
		require.NoError(t, w.Write(r))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}
