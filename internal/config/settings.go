package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/Veraticus/paypal-ofx/internal/charset"
	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/Veraticus/paypal-ofx/internal/locale"
	"github.com/Veraticus/paypal-ofx/internal/paypal"
	"github.com/spf13/viper"
)

// Viper keys for the converter settings.
const (
	KeyAccountID = "paypal.account_id"
	KeyCurrency  = "paypal.currency"
	KeyLocale    = "paypal.locale"
	KeyEncoding  = "paypal.encoding"
	KeyAnalyze   = "paypal.analyze"
)

// Settings are the validated converter settings.
type Settings struct {
	Number    locale.NumberFormat
	AccountID string
	Currency  string
	Locale    string
	Encoding  string
	Analyze   bool
}

// SetDefaults registers default values for the converter settings.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyEncoding, charset.Default)
	v.SetDefault(KeyAnalyze, "false")
}

// Load reads the converter settings from v and validates them.
// It follows this precedence:
// 1. Command line flags bound to v
// 2. PAYPAL_OFX_ environment variables
// 3. The config file
// 4. Default values
func Load(v *viper.Viper) (*Settings, error) {
	analyze, err := ParseBool(v.GetString(KeyAnalyze))
	if err != nil {
		return nil, common.NewConfigError(KeyAnalyze, v.GetString(KeyAnalyze), err)
	}

	s := &Settings{
		AccountID: strings.TrimSpace(v.GetString(KeyAccountID)),
		Currency:  strings.TrimSpace(v.GetString(KeyCurrency)),
		Locale:    strings.TrimSpace(v.GetString(KeyLocale)),
		Encoding:  strings.TrimSpace(v.GetString(KeyEncoding)),
		Analyze:   analyze,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every setting and resolves the number format.
func (s *Settings) Validate() error {
	if s.AccountID == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyAccountID)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyCurrency)
	}
	// Rows match the currency verbatim.
	if money.GetCurrency(s.Currency) == nil || strings.ToUpper(s.Currency) != s.Currency {
		return common.NewConfigError(KeyCurrency, s.Currency, errors.New("not an ISO 4217 currency code"))
	}

	number, err := locale.Lookup(s.Locale)
	if err != nil {
		return common.NewConfigError(KeyLocale, s.Locale, err)
	}
	s.Number = number

	if _, err := charset.Lookup(s.Encoding); err != nil {
		return common.NewConfigError(KeyEncoding, s.Encoding, err)
	}

	return nil
}

// ParserOptions returns the options for a PayPal parser.
func (s *Settings) ParserOptions() paypal.Options {
	return paypal.Options{
		AccountID: s.AccountID,
		Currency:  s.Currency,
		Encoding:  s.Encoding,
		Number:    s.Number,
		Analyze:   s.Analyze,
	}
}

// ParseBool parses a boolean setting strictly.
func ParseBool(value string) (bool, error) {
	switch value {
	case "True", "true", "1":
		return true, nil
	case "False", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("can't parse boolean value: %q", value)
	}
}
