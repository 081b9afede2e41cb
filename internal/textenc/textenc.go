// Package textenc decodes statement files whose text encoding is unknown.
package textenc

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"fjacquet/finance-summary/internal/parsererror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names a supported input encoding.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Latin1      Encoding = "latin-1"
	Windows1252 Encoding = "cp1252"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw file bytes to a UTF-8 string.
//
// Encodings are tried in order: UTF-8, Latin-1, Windows-1252. Latin-1 accepts
// every byte, so it is skipped when the input contains C1 control bytes
// (0x80-0x9F), which Windows-1252 maps to printable characters such as € and
// curly quotes.
func Decode(data []byte) (string, Encoding, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), UTF8, nil
	}

	enc := Latin1
	var decoder encoding.Encoding = charmap.ISO8859_1
	if hasC1Controls(data) {
		enc = Windows1252
		decoder = charmap.Windows1252
	}

	out, _, err := transform.Bytes(decoder.NewDecoder(), data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", parsererror.ErrUnsupportedEncoding, enc, err)
	}
	return string(out), enc, nil
}

func hasC1Controls(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return true
		}
	}
	return false
}
