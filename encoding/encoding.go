// Package encoding implements HTML5 encoding label resolution and byte
// decoding.
package encoding

import (
	"bytes"
	"errors"
	"strings"

	xtextencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/havenwisp/htmlspan/internal/constants"
)

// ErrInvalidEncoding is returned when the specified encoding is not supported.
var ErrInvalidEncoding = errors.New("unsupported or invalid encoding")

// Encoding represents a character encoding recognized by HTML5 label
// resolution. The byte-to-rune transcoding itself is delegated to an
// golang.org/x/text/encoding codec; this type only carries the label table
// and canonical name the HTML algorithm needs.
type Encoding struct {
	// Name is the canonical name of the encoding.
	Name string

	// Labels are the encoding labels that map to this encoding.
	Labels []string

	codec xtextencoding.Encoding
}

// Common encodings. Labels follow the WHATWG Encoding Standard's "get an
// encoding" table (https://encoding.spec.whatwg.org/#names-and-labels); the
// label set is kept as our own table rather than delegated to
// golang.org/x/text/encoding/htmlindex because htmlindex collapses the
// generic "utf-16" label into the same encoding as "utf-16le", while this
// module treats "utf-16" as its own BOM-sniffing variant (see decode for
// utf-16).
var (
	UTF8 = &Encoding{
		Name: "UTF-8",
		Labels: []string{
			"utf-8", "utf8", "unicode-1-1-utf-8",
			"unicode11utf8", "unicode20utf8", "x-unicode20utf8",
		},
	}
	Windows1252 = &Encoding{
		Name: "windows-1252",
		Labels: []string{
			"windows-1252", "windows1252", "cp1252", "x-cp1252",
			"ansi_x3.4-1968", "ascii", "us-ascii",
			"iso-ir-100", "csisolatin1",
		},
		codec: charmap.Windows1252,
	}
	ISO88591 = &Encoding{
		Name: "ISO-8859-1",
		Labels: []string{
			"iso-8859-1", "iso8859-1", "iso88591",
			"iso_8859-1", "iso_8859-1:1987",
			"latin1", "latin-1", "l1",
			"cp819", "ibm819",
		},
		codec: charmap.ISO8859_1,
	}
	ISO88592 = &Encoding{
		Name: "iso-8859-2",
		Labels: []string{
			"iso-8859-2", "iso8859-2", "iso88592",
			"iso_8859-2", "iso_8859-2:1987",
			"iso-ir-101", "csisolatin2",
			"latin2", "latin-2", "l2",
		},
		codec: charmap.ISO8859_2,
	}
	EUCJP = &Encoding{
		Name: "euc-jp",
		Labels: []string{
			"euc-jp", "eucjp",
			"cseucpkdfmtjapanese", "x-euc-jp",
		},
		codec: japanese.EUCJP,
	}
	UTF16   = &Encoding{Name: "utf-16", Labels: []string{"utf-16", "utf16"}}
	UTF16LE = &Encoding{Name: "utf-16le", Labels: []string{"utf-16le", "utf16le"}, codec: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	UTF16BE = &Encoding{Name: "utf-16be", Labels: []string{"utf-16be", "utf16be"}, codec: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
)

// SniffBOM reports the encoding implied by a leading byte-order mark, and
// how many bytes it occupies. It returns (nil, 0) if data has no BOM.
func SniffBOM(data []byte) (*Encoding, int) {
	if enc := detectBOM(data); enc != nil {
		return enc, bomLength(enc)
	}
	return nil, 0
}

// NormalizeLabel resolves an encoding label (case- and whitespace-insensitive)
// to its canonical Encoding, or nil if the label is not recognized.
func NormalizeLabel(label string) *Encoding {
	return normalizeEncodingLabel(label)
}

// PrescanMetaCharset scans the first 1024 bytes of non-comment content of
// data for a <meta charset> or <meta http-equiv=Content-Type> declaration.
func PrescanMetaCharset(data []byte) *Encoding {
	return prescanForMetaCharset(data)
}

// DecodeWith decodes data, already known to be in enc, to text.
func DecodeWith(data []byte, enc *Encoding) (string, error) {
	return decodeWithEncoding(data, enc)
}

// Decode decodes HTML bytes to a string using encoding detection.
//
// Detection order:
// 1. Provided encoding hint, if recognised (leading BOM bytes are stripped)
// 2. BOM (Byte Order Mark)
// 3. <meta charset> in the first 1024 bytes (non-comment content)
// 4. Fallback to windows-1252
func Decode(data []byte, hint string) (string, *Encoding, error) {
	// Use hint if provided (transport encoding)
	if hint != "" {
		if enc := normalizeEncodingLabel(hint); enc != nil {
			bom := detectBOM(data)
			bomLen := 0
			if bom != nil {
				bomLen = bomLength(bom)
			}
			decoded, err := decodeWithEncoding(data[bomLen:], enc)
			return decoded, enc, err
		}
	}

	// Check for BOM
	if enc := detectBOM(data); enc != nil {
		bomLen := bomLength(enc)
		decoded, err := decodeWithEncoding(data[bomLen:], enc)
		return decoded, enc, err
	}

	// Scan for meta charset
	if enc := prescanForMetaCharset(data); enc != nil {
		decoded, err := decodeWithEncoding(data, enc)
		return decoded, enc, err
	}

	// Fallback to windows-1252
	decoded, err := decodeWithEncoding(data, Windows1252)
	return decoded, Windows1252, err
}

// detectBOM checks for a Byte Order Mark and returns the corresponding encoding.
func detectBOM(data []byte) *Encoding {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return UTF8
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return UTF16LE
	}
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return UTF16BE
	}
	return nil
}

const (
	utf16BEName = "utf-16be"
	utf16LEName = "utf-16le"
)

// bomLength returns the length of the BOM for the given encoding.
func bomLength(enc *Encoding) int {
	switch enc.Name {
	case "UTF-8":
		return 3
	case utf16LEName, utf16BEName:
		return 2
	default:
		return 0
	}
}

// normalizeEncodingLabel normalizes an encoding label to a canonical encoding.
// Returns nil if the label is not recognized.
func normalizeEncodingLabel(label string) *Encoding {
	if label == "" {
		return nil
	}

	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return nil
	}

	// Security: never allow utf-7
	if label == "utf-7" || label == "utf7" || label == "x-utf-7" {
		return Windows1252
	}

	// Try all known encodings
	encodings := []*Encoding{UTF8, Windows1252, ISO88591, ISO88592, EUCJP, UTF16, UTF16LE, UTF16BE}
	for _, enc := range encodings {
		for _, l := range enc.Labels {
			if l == label {
				// HTML treats ISO-8859-1 labels as windows-1252
				if enc == ISO88591 {
					return Windows1252
				}
				return enc
			}
		}
	}

	return nil
}

// normalizeMetaDeclaredEncoding normalizes a meta-declared encoding.
// UTF-16 variants declared in a meta tag are treated as UTF-8; UTF-32
// labels are not in the label table and yield nil.
func normalizeMetaDeclaredEncoding(label []byte) *Encoding {
	enc := normalizeEncodingLabel(string(label))
	if enc == nil {
		return nil
	}

	// Per HTML meta charset handling: ignore UTF-16/UTF-32 declarations
	switch enc.Name {
	case "utf-16", utf16LEName, utf16BEName, "utf-32", "utf-32le", "utf-32be":
		return UTF8
	}

	return enc
}

// asciiLower converts an ASCII letter to lowercase.
func asciiLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b | 0x20
	}
	return b
}

// skipASCIIWhitespace skips ASCII whitespace starting at position i.
func skipASCIIWhitespace(data []byte, i int) int {
	n := len(data)
	for i < n && constants.IsWhitespace(rune(data[i])) {
		i++
	}
	return i
}

// stripASCIIWhitespace removes leading and trailing ASCII whitespace.
func stripASCIIWhitespace(value []byte) []byte {
	start := 0
	end := len(value)
	for start < end && constants.IsWhitespace(rune(value[start])) {
		start++
	}
	for end > start && constants.IsWhitespace(rune(value[end-1])) {
		end--
	}
	return value[start:end]
}

// extractCharsetFromContent extracts a charset value from a Content-Type meta content attribute.
func extractCharsetFromContent(contentBytes []byte) []byte {
	if len(contentBytes) == 0 {
		return nil
	}

	// Normalize whitespace to spaces and convert to lowercase
	b := make([]byte, len(contentBytes))
	for i, ch := range contentBytes {
		if constants.IsWhitespace(rune(ch)) {
			b[i] = ' '
		} else {
			b[i] = asciiLower(ch)
		}
	}

	idx := bytes.Index(b, []byte("charset"))
	if idx == -1 {
		return nil
	}

	i := idx + len("charset")
	n := len(b)

	// Skip whitespace
	for i < n && b[i] == ' ' {
		i++
	}

	// Expect '='
	if i >= n || b[i] != '=' {
		return nil
	}
	i++

	// Skip whitespace
	for i < n && b[i] == ' ' {
		i++
	}

	if i >= n {
		return nil
	}

	// Check for quote
	var quote byte
	if b[i] == '"' || b[i] == '\'' {
		quote = b[i]
		i++
	}

	start := i
	for i < n {
		ch := b[i]
		if quote != 0 {
			if ch == quote {
				break
			}
		} else {
			if ch == ' ' || ch == ';' {
				break
			}
		}
		i++
	}

	// If quoted, we must find the closing quote
	if quote != 0 && (i >= n || b[i] != quote) {
		return nil
	}

	return b[start:i]
}

// prescanForMetaCharset scans the first 1024 bytes of non-comment content
// for a meta charset declaration per HTML5 spec.
//
//nolint:gocognit,gocyclo,nestif,cyclop,funlen,maintidx // Complexity required by HTML5 spec algorithm
func prescanForMetaCharset(data []byte) *Encoding {
	// Scan up to 1024 bytes of non-comment input, but allow skipping
	// arbitrarily large comments (bounded by a hard cap).
	const maxNonComment = 1024
	const maxTotalScan = 65536

	n := len(data)
	i := 0
	nonComment := 0

	for i < n && i < maxTotalScan && nonComment < maxNonComment {
		if data[i] != '<' {
			i++
			nonComment++
			continue
		}

		// Check for comment
		if i+3 < n && data[i+1] == '!' && data[i+2] == '-' && data[i+3] == '-' {
			end := bytes.Index(data[i+4:], []byte("-->"))
			if end == -1 {
				return nil
			}
			i = i + 4 + end + 3
			continue
		}

		// Tag open
		j := i + 1
		if j < n && data[j] == '/' {
			// End tag - skip it
			k := i
			var quote byte
			for k < n && k < maxTotalScan && nonComment < maxNonComment {
				ch := data[k]
				if quote == 0 {
					if ch == '"' || ch == '\'' {
						quote = ch
					} else if ch == '>' {
						k++
						nonComment++
						break
					}
				} else {
					if ch == quote {
						quote = 0
					}
				}
				k++
				nonComment++
			}
			i = k
			continue
		}

		if j >= n || !constants.IsASCIIAlpha(rune(data[j])) {
			i++
			nonComment++
			continue
		}

		// Read tag name
		nameStart := j
		for j < n && constants.IsASCIIAlpha(rune(data[j])) {
			j++
		}

		tagName := data[nameStart:j]
		if !bytes.Equal(bytes.ToLower(tagName), []byte("meta")) {
			// Skip the rest of this tag
			k := i
			var quote byte
			for k < n && k < maxTotalScan && nonComment < maxNonComment {
				ch := data[k]
				if quote == 0 {
					if ch == '"' || ch == '\'' {
						quote = ch
					} else if ch == '>' {
						k++
						nonComment++
						break
					}
				} else {
					if ch == quote {
						quote = 0
					}
				}
				k++
				nonComment++
			}
			i = k
			continue
		}

		// Parse attributes until '>'
		var charset []byte
		var httpEquiv []byte
		var content []byte

		k := j
		sawGT := false
		startI := i

		for k < n && k < maxTotalScan {
			ch := data[k]

			if ch == '>' {
				sawGT = true
				k++
				break
			}

			if ch == '<' {
				// Restart scanning from here
				break
			}

			if constants.IsWhitespace(rune(ch)) || ch == '/' {
				k++
				continue
			}

			// Attribute name
			attrStart := k
			for k < n {
				ch = data[k]
				if constants.IsWhitespace(rune(ch)) || ch == '=' || ch == '>' || ch == '/' || ch == '<' {
					break
				}
				k++
			}
			attrName := bytes.ToLower(data[attrStart:k])
			k = skipASCIIWhitespace(data, k)

			var value []byte
			if k < n && data[k] == '=' {
				k++
				k = skipASCIIWhitespace(data, k)
				if k >= n {
					break
				}

				var quote byte
				if data[k] == '"' || data[k] == '\'' {
					quote = data[k]
					k++
					valStart := k
					endQuote := bytes.IndexByte(data[k:], quote)
					if endQuote == -1 {
						// Unclosed quote: ignore this meta
						i++
						nonComment++
						charset = nil
						httpEquiv = nil
						content = nil
						sawGT = false
						break
					}
					value = data[valStart : k+endQuote]
					k = k + endQuote + 1
				} else {
					valStart := k
					for k < n {
						ch = data[k]
						if constants.IsWhitespace(rune(ch)) || ch == '>' || ch == '<' {
							break
						}
						k++
					}
					value = data[valStart:k]
				}
			}

			switch {
			case bytes.Equal(attrName, []byte("charset")):
				charset = stripASCIIWhitespace(value)
			case bytes.Equal(attrName, []byte("http-equiv")):
				httpEquiv = value
			case bytes.Equal(attrName, []byte("content")):
				content = value
			}
		}

		if sawGT {
			// Check for charset attribute
			if charset != nil {
				enc := normalizeMetaDeclaredEncoding(charset)
				if enc != nil {
					return enc
				}
			}

			// Check for http-equiv="Content-Type" content="..."
			if httpEquiv != nil && bytes.Equal(bytes.ToLower(httpEquiv), []byte("content-type")) && content != nil {
				extracted := extractCharsetFromContent(content)
				if extracted != nil {
					enc := normalizeMetaDeclaredEncoding(extracted)
					if enc != nil {
						return enc
					}
				}
			}

			// Continue scanning after this tag
			i = k
			consumed := i - startI
			nonComment += consumed
		} else {
			// Continue scanning
			i++
			nonComment++
		}
	}

	return nil
}

// decodeWithEncoding decodes data using the specified encoding, delegating
// the byte-to-rune transcoding to golang.org/x/text/encoding codecs. UTF-8
// needs no codec (it is this module's internal representation); generic
// "utf-16" sniffs its own BOM and redispatches to the LE/BE codec.
func decodeWithEncoding(data []byte, enc *Encoding) (string, error) {
	switch enc.Name {
	case "UTF-8":
		return string(data), nil

	case "utf-16":
		// UTF-16 with BOM detection in the data itself; defaults to LE
		// when no BOM is present, per this module's own label table
		// (see the Labels block above for why this isn't delegated to
		// golang.org/x/text/encoding/htmlindex).
		if len(data) >= 2 {
			if data[0] == 0xFF && data[1] == 0xFE {
				return decodeWithEncoding(data[2:], UTF16LE)
			} else if data[0] == 0xFE && data[1] == 0xFF {
				return decodeWithEncoding(data[2:], UTF16BE)
			}
		}
		return decodeWithEncoding(data, UTF16LE)

	default:
		if enc.codec == nil {
			return "", ErrInvalidEncoding
		}
		out, err := enc.codec.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
