package config

import (
	"errors"
	"testing"

	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoad(t *testing.T) {
	v := newViper(map[string]string{
		KeyAccountID: "me@example.com",
		KeyCurrency:  "EUR",
		KeyLocale:    "de_DE",
		KeyAnalyze:   "1",
	})

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", s.AccountID)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, "iso8859-1", s.Encoding)
	assert.True(t, s.Analyze)
	assert.Equal(t, ",", s.Number.Decimal)

	opts := s.ParserOptions()
	assert.Equal(t, "EUR", opts.Currency)
	assert.Equal(t, "me@example.com", opts.AccountID)
	assert.True(t, opts.Analyze)
	assert.Equal(t, s.Number, opts.Number)
}

func TestLoadDefaults(t *testing.T) {
	v := newViper(map[string]string{
		KeyAccountID: "me@example.com",
		KeyCurrency:  "USD",
	})

	s, err := Load(v)
	require.NoError(t, err)
	assert.False(t, s.Analyze)
	assert.Equal(t, ".", s.Number.Decimal)
	assert.Equal(t, "iso8859-1", s.Encoding)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		values    map[string]string
		wantKey   string
		wantErrIs error
	}{
		{
			name:      "bad analyze value",
			values:    map[string]string{KeyAccountID: "a", KeyCurrency: "EUR", KeyAnalyze: "yes"},
			wantKey:   KeyAnalyze,
			wantErrIs: common.ErrInvalidConfig,
		},
		{
			name:      "missing account",
			values:    map[string]string{KeyCurrency: "EUR"},
			wantErrIs: common.ErrMissingConfig,
		},
		{
			name:      "missing currency",
			values:    map[string]string{KeyAccountID: "a"},
			wantErrIs: common.ErrMissingConfig,
		},
		{
			name:      "unknown currency",
			values:    map[string]string{KeyAccountID: "a", KeyCurrency: "EURO"},
			wantKey:   KeyCurrency,
			wantErrIs: common.ErrInvalidConfig,
		},
		{
			name:      "lower case currency",
			values:    map[string]string{KeyAccountID: "a", KeyCurrency: "eur"},
			wantKey:   KeyCurrency,
			wantErrIs: common.ErrInvalidConfig,
		},
		{
			name:      "unknown locale",
			values:    map[string]string{KeyAccountID: "a", KeyCurrency: "EUR", KeyLocale: "xx_!!"},
			wantKey:   KeyLocale,
			wantErrIs: common.ErrInvalidConfig,
		},
		{
			name:      "unknown encoding",
			values:    map[string]string{KeyAccountID: "a", KeyCurrency: "EUR", KeyEncoding: "klingon-1"},
			wantKey:   KeyEncoding,
			wantErrIs: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(tt.values))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErrIs), "got %v", err)

			if tt.wantKey != "" {
				var cfgErr *common.ConfigError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, tt.wantKey, cfgErr.Key)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "True", "1"} {
		got, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.True(t, got, in)
	}
	for _, in := range []string{"false", "False", "0"} {
		got, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.False(t, got, in)
	}
	for _, in := range []string{"", "yes", "TRUE", "2", " true"} {
		_, err := ParseBool(in)
		assert.Error(t, err, in)
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/tmp/history.ofx", OutputPath("/tmp/history.csv"))
	assert.Equal(t, "history.ofx", OutputPath("history"))
	assert.Equal(t, "dir.v2/history.ofx", OutputPath("dir.v2/history.CSV"))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("PAYPAL_OFX_TEST_DIR", "/data")
	assert.Equal(t, "/data/export.csv", ExpandPath("$PAYPAL_OFX_TEST_DIR/export.csv"))
	assert.Equal(t, "", ExpandPath(""))
}
