// Package locale parses locale-formatted decimal numbers without touching
// any process-wide state. Separators are resolved once from a locale
// identifier and passed explicitly to every parse call.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// ErrUnknownLocale is returned when a locale identifier has no known number format.
var ErrUnknownLocale = errors.New("unknown locale")

// NumberFormat describes how a locale writes decimal numbers.
type NumberFormat struct {
	Name      string
	Decimal   string
	Thousands string
}

// Ambient is the POSIX "C" number format: a dot separator and no grouping.
var Ambient = NumberFormat{Name: "C", Decimal: "."}

const (
	nbsp       = "\u00a0"
	narrowNBSP = "\u202f"
)

// Region-specific overrides, keyed by BCP 47 language-region.
var regionFormats = map[string]NumberFormat{
	"de-CH": {Decimal: ".", Thousands: "'"},
	"de-LI": {Decimal: ".", Thousands: "'"},
	"it-CH": {Decimal: ".", Thousands: "'"},
	"fr-CH": {Decimal: ".", Thousands: narrowNBSP},
	"es-MX": {Decimal: ".", Thousands: ","},
	"es-US": {Decimal: ".", Thousands: ","},
	"pt-BR": {Decimal: ",", Thousands: "."},
	"nl-BE": {Decimal: ",", Thousands: "."},
	"en-ZA": {Decimal: ",", Thousands: nbsp},
}

var languageFormats = map[string]NumberFormat{
	"en": {Decimal: ".", Thousands: ","},
	"ja": {Decimal: ".", Thousands: ","},
	"zh": {Decimal: ".", Thousands: ","},
	"ko": {Decimal: ".", Thousands: ","},
	"he": {Decimal: ".", Thousands: ","},
	"th": {Decimal: ".", Thousands: ","},
	"hi": {Decimal: ".", Thousands: ","},
	"de": {Decimal: ",", Thousands: "."},
	"nl": {Decimal: ",", Thousands: "."},
	"it": {Decimal: ",", Thousands: "."},
	"es": {Decimal: ",", Thousands: "."},
	"da": {Decimal: ",", Thousands: "."},
	"id": {Decimal: ",", Thousands: "."},
	"tr": {Decimal: ",", Thousands: "."},
	"el": {Decimal: ",", Thousands: "."},
	"pt": {Decimal: ",", Thousands: nbsp},
	"fr": {Decimal: ",", Thousands: narrowNBSP},
	"ru": {Decimal: ",", Thousands: nbsp},
	"uk": {Decimal: ",", Thousands: nbsp},
	"pl": {Decimal: ",", Thousands: nbsp},
	"cs": {Decimal: ",", Thousands: nbsp},
	"sk": {Decimal: ",", Thousands: nbsp},
	"sv": {Decimal: ",", Thousands: nbsp},
	"fi": {Decimal: ",", Thousands: nbsp},
	"nb": {Decimal: ",", Thousands: nbsp},
	"hu": {Decimal: ",", Thousands: nbsp},
}

// Lookup resolves a locale identifier such as "de_DE", "de_DE.UTF-8" or
// "en-US" to its number format. An empty identifier, "C" and "POSIX"
// resolve to Ambient.
func Lookup(id string) (NumberFormat, error) {
	name := id
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "", "C", "POSIX":
		f := Ambient
		if id != "" {
			f.Name = id
		}
		return f, nil
	}

	tag, err := language.Parse(name)
	if err != nil {
		return NumberFormat{}, fmt.Errorf("%w %q: %v", ErrUnknownLocale, id, err)
	}

	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.Exact {
		if f, ok := regionFormats[base.String()+"-"+region.String()]; ok {
			f.Name = id
			return f, nil
		}
	}
	if f, ok := languageFormats[base.String()]; ok {
		f.Name = id
		return f, nil
	}
	return NumberFormat{}, fmt.Errorf("%w %q", ErrUnknownLocale, id)
}

// NumberParseError reports a value that is not a valid number in a locale.
type NumberParseError struct {
	Err    error
	Input  string
	Locale string
}

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as a number in locale %q: %v", e.Input, e.Locale, e.Err)
}

// Unwrap exposes both common.ErrNumberParse and the underlying cause.
func (e *NumberParseError) Unwrap() []error {
	return []error{common.ErrNumberParse, e.Err}
}

// ParseDecimal parses s written in format f. Every thousands separator is
// removed and the decimal separator is replaced by a dot before parsing.
func ParseDecimal(s string, f NumberFormat) (decimal.Decimal, error) {
	clean := s
	if f.Thousands != "" {
		clean = strings.ReplaceAll(clean, f.Thousands, "")
	}
	if f.Decimal != "" && f.Decimal != "." {
		clean = strings.ReplaceAll(clean, f.Decimal, ".")
	}

	if clean == "" {
		return decimal.Decimal{}, &NumberParseError{Input: s, Locale: f.Name, Err: errors.New("empty value")}
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, &NumberParseError{Input: s, Locale: f.Name, Err: err}
	}
	return d, nil
}
