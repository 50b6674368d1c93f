// Package htmlspan provides a pure Go HTML5 parser implementing the WHATWG HTML5 specification.
//
// htmlspan is a complete HTML5 parser that handles malformed HTML exactly as browsers do.
// It passes all 9,000+ tests in the official html5lib-tests suite.
//
// # Basic Usage
//
//	doc, err := htmlspan.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Query with CSS selectors (blank-import selector to register it)
//	paragraphs, err := doc.Query("p")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, p := range paragraphs {
//		fmt.Println(p.Text())
//	}
//
// # Features
//
//   - WHATWG HTML5 compliant
//   - CSS selector support via the optional selector package
//   - Streaming API for memory-efficient processing
//   - Full encoding-sniffing precedence chain with meta-charset reparse
//   - Fragment parsing for innerHTML-style use cases
//
// For more information, see https://github.com/havenwisp/htmlspan
package htmlspan

import (
	"errors"

	"github.com/havenwisp/htmlspan/dom"
	htmlerrors "github.com/havenwisp/htmlspan/errors"
	"github.com/havenwisp/htmlspan/inputstream"
	"github.com/havenwisp/htmlspan/tokenizer"
	"github.com/havenwisp/htmlspan/treebuilder"
)

// Version is the current version of htmlspan.
const Version = "0.1.0-dev"

// Parse parses an HTML string and returns a Document.
//
// The parser handles malformed HTML according to the WHATWG HTML5 specification,
// ensuring the same behavior as web browsers.
//
// Example:
//
//	doc, err := htmlspan.Parse("<html><body><p>Hello!</p></body></html>")
//	if err != nil {
//		// err contains parse errors if WithCollectErrors() was used
//	}
func Parse(html string, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)
	doc, _, err := parse(html, cfg)
	return doc, err
}

// ParseBytes parses HTML from a byte slice, resolving its character
// encoding per the HTML5 sniffing algorithm (BOM, caller override,
// transport, meta pre-scan, same-origin parent, likely, default). If a
// <meta charset> discovered while tokenizing contradicts a tentative
// choice, parsing restarts once with the corrected encoding.
//
// Example:
//
//	data, _ := os.ReadFile("page.html")
//	doc, err := htmlspan.ParseBytes(data)
func ParseBytes(html []byte, opts ...Option) (*dom.Document, error) {
	cfg := newConfig(opts...)

	res, err := inputstream.Resolve(html, resolveOptions(cfg))
	if err := logDecodeFault(res, err); err != nil {
		return nil, err
	}

	doc, meta, err := parse(res.Text, cfg)
	if err != nil {
		return nil, err
	}
	if meta.reparseLabel != "" {
		if reparse := inputstream.CheckReparse(res, meta.reparseLabel); reparse != nil {
			logger.WithFields(map[string]interface{}{
				"from": res.Encoding.Name,
				"to":   reparse.Encoding.Name,
			}).Debug("reparse triggered by meta charset")
			cfg2 := newConfig(opts...)
			retry, err := inputstream.Resolve(html, resolveOptionsOverride(cfg, reparse.Encoding.Name))
			if err := logDecodeFault(retry, err); err != nil {
				return nil, err
			}
			doc, _, err = parse(retry.Text, cfg2)
			return doc, err
		}
	}

	return doc, nil
}

// logDecodeFault reports a Certain-confidence decode fault (invalid bytes
// under an encoding that can no longer be corrected by a Reparse) without
// aborting the parse, since the decoded text already has its best-effort
// replacement characters in place. Any other error is returned unchanged.
func logDecodeFault(res inputstream.Result, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, inputstream.ErrDecodeFault) {
		return err
	}
	logger.WithFields(map[string]interface{}{
		"encoding": res.Encoding.Name,
		"faults":   len(res.Errors),
	}).Warn("decode fault: invalid bytes for certain encoding")
	return nil
}

// ParseFragment parses an HTML fragment in a specific context element.
//
// This is equivalent to setting element.innerHTML in browsers. The context
// determines how the fragment is parsed (e.g., parsing "<td>" in a "tr" context
// vs. in a "div" context produces different results).
//
// Example:
//
//	nodes, err := htmlspan.ParseFragment("<td>Cell</td>", "tr")
func ParseFragment(html string, context string, opts ...Option) ([]*dom.Element, error) {
	cfg := newConfig(opts...)
	cfg.fragmentContext = &treebuilder.FragmentContext{
		TagName:   context,
		Namespace: "html",
	}
	logger.WithField("context", context).Debug("fragment context established")
	return parseFragment(html, cfg)
}

func resolveOptions(cfg *config) inputstream.Options {
	return inputstream.Options{
		Override:                 firstNonEmpty(cfg.overrideEncoding, cfg.encoding),
		Transport:                cfg.transportEncoding,
		SameOriginParentEncoding: cfg.sameOriginParentEncoding,
		Likely:                   cfg.likelyEncoding,
		Default:                  cfg.defaultEncoding,
	}
}

func resolveOptionsOverride(cfg *config, label string) inputstream.Options {
	opts := resolveOptions(cfg)
	opts.Override = label
	return opts
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseMeta carries information discovered while parsing that the facade
// needs after the token loop has finished, without growing ProcessToken's
// signature.
type parseMeta struct {
	reparseLabel string
}

// parse is the internal parsing implementation.
func parse(html string, cfg *config) (*dom.Document, parseMeta, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treebuilder.New(tok)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	var meta parseMeta
	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		if tt.Type == tokenizer.StartTag && tt.Name == "meta" && meta.reparseLabel == "" {
			if label := metaCharsetLabel(tt.Attrs); label != "" {
				meta.reparseLabel = label
			}
		}
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if cfg.strict || cfg.collectErrors {
		parseErrs := convertTokenizerErrors(tok.Errors())
		if len(parseErrs) > 0 && cfg.strict {
			return nil, meta, parseErrs[0]
		}
		if len(parseErrs) > 0 && cfg.collectErrors {
			return tb.Document(), meta, htmlerrors.ParseErrors(parseErrs)
		}
	}

	return tb.Document(), meta, nil
}

// metaCharsetLabel extracts a charset label from a <meta> tag's attributes,
// following the same charset / http-equiv+content precedence the meta
// pre-scan uses.
func metaCharsetLabel(attrs []tokenizer.Attr) string {
	var charset, httpEquiv, content string
	for _, a := range attrs {
		switch a.Name {
		case "charset":
			charset = a.Value
		case "http-equiv":
			httpEquiv = a.Value
		case "content":
			content = a.Value
		}
	}
	if charset != "" {
		return charset
	}
	if httpEquiv == "content-type" && content != "" {
		if idx := indexCaseInsensitive(content, "charset="); idx >= 0 {
			return content[idx+len("charset="):]
		}
	}
	return ""
}

func indexCaseInsensitive(s, substr string) int {
	ls, lsub := []rune(s), []rune(substr)
	n, m := len(ls), len(lsub)
	for i := 0; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			if toLowerASCII(ls[i+j]) != toLowerASCII(lsub[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// parseFragment is the internal fragment parsing implementation.
func parseFragment(html string, cfg *config) ([]*dom.Element, error) {
	tok := tokenizer.New(html)
	if cfg.xmlCoercion {
		tok.SetXMLCoercion(true)
	}
	tb := treebuilder.NewFragment(tok, cfg.fragmentContext)
	if cfg.iframeSrcdoc {
		tb.SetIframeSrcdoc(true)
	}

	for {
		tok.SetAllowCDATA(tb.AllowCDATA())
		tt := tok.Next()
		tb.ProcessToken(tt)
		if tt.Type == tokenizer.EOF {
			break
		}
	}

	if cfg.strict || cfg.collectErrors {
		parseErrs := convertTokenizerErrors(tok.Errors())
		if len(parseErrs) > 0 && cfg.strict {
			return nil, parseErrs[0]
		}
		if len(parseErrs) > 0 && cfg.collectErrors {
			return tb.FragmentNodes(), htmlerrors.ParseErrors(parseErrs)
		}
	}

	return tb.FragmentNodes(), nil
}

func convertTokenizerErrors(errs []tokenizer.ParseError) []*htmlerrors.ParseError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]*htmlerrors.ParseError, 0, len(errs))
	for _, e := range errs {
		out = append(out, &htmlerrors.ParseError{
			Code:    e.Code,
			Message: htmlerrors.Message(e.Code),
			Line:    e.Line,
			Column:  e.Column,
		})
	}
	return out
}
