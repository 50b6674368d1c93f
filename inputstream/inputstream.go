// Package inputstream resolves an HTML byte source to a decoded character
// stream, implementing the full encoding-sniffing precedence chain of the
// WHATWG HTML parsing algorithm (more levels than encoding.Decode alone
// covers: caller override, transport, meta pre-scan, same-origin parent,
// "likely", and default all participate, each tagged certain or tentative).
package inputstream

import (
	"errors"
	"strings"

	"github.com/havenwisp/htmlspan/encoding"
)

// ErrDecodeFault is wrapped into the error returned by Resolve when a
// Certain-confidence encoding (BOM, caller override, transport) decodes
// bytes it cannot represent. Unlike a Tentative mismatch, this can't be
// corrected by a Reparse, so the fault is surfaced rather than silently
// swallowed; Result.Text still contains the best-effort decode with
// U+FFFD standing in for each faulty site.
var ErrDecodeFault = errors.New("inputstream: invalid byte sequence for certain encoding")

// CodepointError records one site where decoding substituted the Unicode
// replacement character for bytes invalid under the chosen encoding.
type CodepointError struct {
	// Offset is the byte index into Result.Text where U+FFFD appears.
	Offset int
}

func scanDecodeFaults(text string) []CodepointError {
	var faults []CodepointError
	for i, r := range text {
		if r == '�' {
			faults = append(faults, CodepointError{Offset: i})
		}
	}
	return faults
}

// Confidence records how sure the resolver is of the chosen encoding,
// mirroring the HTML spec's "confidence" concept. A Tentative choice may
// later be overturned by Reparse; a Certain one never is.
type Confidence int

const (
	Tentative Confidence = iota
	Certain
)

func (c Confidence) String() string {
	if c == Certain {
		return "certain"
	}
	return "tentative"
}

// Options carries every input to the encoding precedence chain, in the
// order the chain consults them.
type Options struct {
	// Override is the caller's explicit encoding choice. Certain.
	Override string
	// Transport is an encoding declared out-of-band (e.g. HTTP
	// Content-Type's charset parameter). Certain.
	Transport string
	// SameOriginParentEncoding is a parent document's resolved encoding,
	// for frame/iframe inheritance. Rejected outright if it names a
	// UTF-16 variant. Tentative.
	SameOriginParentEncoding string
	// Likely is a caller-supplied locale- or history-based guess.
	// Tentative.
	Likely string
	// Default overrides the windows-1252 fallback used when nothing else
	// resolves. Tentative.
	Default string
}

// Result is the outcome of resolving a byte source to text.
type Result struct {
	Text       string
	Encoding   *encoding.Encoding
	Confidence Confidence
	// Errors lists replacement-character sites from a Certain-confidence
	// decode that could not be corrected by a Reparse. Empty for Tentative
	// results, since those are expected to be retried.
	Errors []CodepointError
}

// Reparse signals that a meta pre-scan or in-document discovery
// contradicted a Tentative encoding choice, per HTML5 §13.2.3.5. The
// facade catches this, re-resolves with Override set to Encoding, and
// restarts the pipeline. It is never raised once Confidence is Certain.
type Reparse struct {
	Encoding *encoding.Encoding
}

func (r *Reparse) Error() string {
	return "inputstream: reparse required with encoding " + r.Encoding.Name
}

// Resolve decodes data to text, applying the precedence chain:
//  1. BOM                                        (certain)
//  2. Options.Override                           (certain)
//  3. Options.Transport                          (certain)
//  4. <meta charset> pre-scan of the first 1024 bytes (tentative)
//  5. Options.SameOriginParentEncoding, UTF-16 rejected (tentative)
//  6. Options.Likely                             (tentative)
//  7. Options.Default, else windows-1252         (tentative)
func Resolve(data []byte, opts Options) (Result, error) {
	if enc, bomLen := encoding.SniffBOM(data); enc != nil {
		text, err := encoding.DecodeWith(data[bomLen:], enc)
		return certainResult(text, enc, err)
	}

	if opts.Override != "" {
		if enc := encoding.NormalizeLabel(opts.Override); enc != nil {
			text, err := encoding.DecodeWith(data, enc)
			return certainResult(text, enc, err)
		}
	}

	if opts.Transport != "" {
		if enc := encoding.NormalizeLabel(opts.Transport); enc != nil {
			text, err := encoding.DecodeWith(data, enc)
			return certainResult(text, enc, err)
		}
	}

	if enc := encoding.PrescanMetaCharset(data); enc != nil {
		text, err := encoding.DecodeWith(data, enc)
		return Result{Text: text, Encoding: enc, Confidence: Tentative}, err
	}

	if opts.SameOriginParentEncoding != "" {
		if enc := encoding.NormalizeLabel(opts.SameOriginParentEncoding); enc != nil && !isUTF16(enc) {
			text, err := encoding.DecodeWith(data, enc)
			return Result{Text: text, Encoding: enc, Confidence: Tentative}, err
		}
	}

	if opts.Likely != "" {
		if enc := encoding.NormalizeLabel(opts.Likely); enc != nil {
			text, err := encoding.DecodeWith(data, enc)
			return Result{Text: text, Encoding: enc, Confidence: Tentative}, err
		}
	}

	fallback := encoding.NormalizeLabel(opts.Default)
	if fallback == nil {
		fallback = encoding.Windows1252
	}
	text, err := encoding.DecodeWith(data, fallback)
	return Result{Text: text, Encoding: fallback, Confidence: Tentative}, err
}

// CheckReparse inspects a <meta> charset discovered mid-tokenize (the
// tokenizer hands the facade the raw attribute value) against the encoding
// a Tentative Result was decoded with. It returns a *Reparse when the two
// disagree and nil otherwise. Callers must not call this once a Result's
// Confidence is Certain.
func CheckReparse(current Result, declaredLabel string) *Reparse {
	if current.Confidence == Certain {
		return nil
	}
	declared := encoding.NormalizeLabel(declaredLabel)
	if declared == nil {
		return nil
	}
	if declared.Name == current.Encoding.Name {
		return nil
	}
	return &Reparse{Encoding: declared}
}

func isUTF16(enc *encoding.Encoding) bool {
	return strings.HasPrefix(strings.ToLower(enc.Name), "utf-16")
}

// certainResult builds the Result for a Certain-confidence decode, surfacing
// ErrDecodeFault when the decode needed replacement characters. The caller's
// own decode error, if any, still takes precedence.
func certainResult(text string, enc *encoding.Encoding, err error) (Result, error) {
	res := Result{Text: text, Encoding: enc, Confidence: Certain}
	if err != nil {
		return res, err
	}
	if faults := scanDecodeFaults(text); len(faults) > 0 {
		res.Errors = faults
		return res, ErrDecodeFault
	}
	return res, nil
}
