// Package charset resolves character encoding names for input files.
package charset

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Default is the encoding PayPal uses for its CSV exports.
const Default = "iso8859-1"

// ErrUnknownEncoding is returned for names neither IANA nor WHATWG know.
var ErrUnknownEncoding = errors.New("unknown encoding")

// isoPattern matches ISO 8859 names with or without the inner dashes,
// e.g. "iso8859-1", "iso-8859-15", "iso8859_2".
var isoPattern = regexp.MustCompile(`^iso-?8859-?(\d{1,2})$`)

// codecAliases maps codec spellings common in config files to IANA names.
var codecAliases = map[string]string{
	"latin-1": "ISO-8859-1",
	"latin1":  "ISO-8859-1",
	"l1":      "ISO-8859-1",
	"utf8":    "UTF-8",
	"u8":      "UTF-8",
	"ascii":   "US-ASCII",
	"cp1252":  "windows-1252",
	"cp1250":  "windows-1250",
}

// Lookup resolves an encoding name. Names are first normalized to their
// IANA spelling and looked up in the IANA index. WHATWG labels are only a
// fallback: WHATWG treats every Latin-1 label as windows-1252, which would
// decode bytes 0x80-0x9F as typographic characters instead of C1 controls.
// An empty name selects Default.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = Default
	}

	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	if key == "utf-8-sig" {
		return unicode.UTF8BOM, nil
	}

	if enc, err := ianaindex.IANA.Encoding(ianaName(key)); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// ianaName rewrites a lowercased, dash-separated name to its IANA form when
// it is a known alternative spelling. Other names are returned unchanged.
func ianaName(key string) string {
	if m := isoPattern.FindStringSubmatch(key); m != nil {
		return "ISO-8859-" + m[1]
	}
	if alias, ok := codecAliases[key]; ok {
		return alias
	}
	return key
}

// NewReader returns a reader that decodes r from the named encoding into UTF-8.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
