// Package textenc decodes the raw byte payloads the legacy database stores
// for every text column into UTF-8 strings, applying the per-field cleanup
// the output format needs.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Field identifies which post field a byte payload came from. Titles get
// extra cleanup: all double quotes are stripped so the title can sit inside
// a quoted front-matter value.
type Field string

const (
	FieldTitle   Field = "title"
	FieldBody    Field = "body"
	FieldTag     Field = "tag"
	FieldAuthor  Field = "author"
	FieldComment Field = "comment"
	FieldReply   Field = "reply"
)

// DecodeError reports a byte payload that is not valid under the assumed
// charset. Decoding is strict: bad input fails the field instead of being
// replaced with placeholder runes.
type DecodeError struct {
	Field   Field
	Charset string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s field is not valid %s", e.Field, e.Charset)
}

// Codec decodes legacy byte payloads under a single assumed charset.
type Codec struct {
	charset string
	enc     encoding.Encoding // nil when the charset is UTF-8
}

// NewCodec returns a codec for the given IANA charset name, e.g. "utf-8" or
// "windows-1251".
func NewCodec(charset string) (*Codec, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown charset %q", charset)
	}
	if enc == unicode.UTF8 {
		enc = nil
	}
	return &Codec{charset: charset, enc: enc}, nil
}

// Charset returns the IANA name the codec was built with.
func (c *Codec) Charset() string {
	return c.charset
}

// Decode converts raw bytes from the given field into a UTF-8 string.
// Returns a *DecodeError when the bytes are not valid under the codec's
// charset.
func (c *Codec) Decode(raw []byte, field Field) (string, error) {
	var s string
	if c.enc == nil {
		if !utf8.Valid(raw) {
			return "", &DecodeError{Field: field, Charset: c.charset}
		}
		s = string(raw)
	} else {
		decoded, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", &DecodeError{Field: field, Charset: c.charset}
		}
		s = string(decoded)
		// Charmap decoders substitute U+FFFD for undefined bytes instead of
		// returning an error.
		if strings.ContainsRune(s, utf8.RuneError) {
			return "", &DecodeError{Field: field, Charset: c.charset}
		}
	}

	if field == FieldTitle {
		s = strings.ReplaceAll(s, `"`, "")
	}
	return s, nil
}

// FinalizeNewlines converts Windows line endings to bare newlines. It runs
// exactly once, on the fully rendered document, so content already using
// "\n" is not touched twice.
func FinalizeNewlines(doc string) string {
	return strings.ReplaceAll(doc, "\r\n", "\n")
}
