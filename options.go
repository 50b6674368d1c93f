package htmlspan

import (
	"github.com/havenwisp/htmlspan/treebuilder"
)

// config holds parser configuration.
type config struct {
	encoding        string
	fragmentContext *treebuilder.FragmentContext
	iframeSrcdoc    bool
	strict          bool
	collectErrors   bool
	xmlCoercion     bool

	overrideEncoding         string
	transportEncoding        string
	sameOriginParentEncoding string
	likelyEncoding           string
	defaultEncoding          string
	namespaceHTMLElements    bool
	fullTree                 bool
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures the parser behavior.
type Option func(*config)

// WithEncoding sets the character encoding to use for parsing.
// ParseBytes uses it as the override encoding when WithOverrideEncoding is
// not given; a byte-order mark still takes precedence over it.
//
// Common values: "utf-8", "windows-1252", "iso-8859-1"
func WithEncoding(enc string) Option {
	return func(c *config) {
		c.encoding = enc
	}
}

// WithFragment sets the parsing context for fragment parsing.
// This is typically used internally by ParseFragment.
func WithFragment(tagName string) Option {
	return func(c *config) {
		c.fragmentContext = &treebuilder.FragmentContext{
			TagName:   tagName,
			Namespace: "html",
		}
	}
}

// WithFragmentNS sets the parsing context with a specific namespace.
// Use this for parsing SVG or MathML fragments.
func WithFragmentNS(tagName, namespace string) Option {
	return func(c *config) {
		c.fragmentContext = &treebuilder.FragmentContext{
			TagName:   tagName,
			Namespace: namespace,
		}
	}
}

// WithIframeSrcdoc enables iframe srcdoc parsing mode.
// In this mode, the parser treats the input as the srcdoc attribute value.
func WithIframeSrcdoc() Option {
	return func(c *config) {
		c.iframeSrcdoc = true
	}
}

// WithStrictMode enables strict parsing mode.
// In this mode, the first parse error causes Parse to return an error.
// By default, parse errors are handled according to the HTML5 spec
// and parsing continues.
func WithStrictMode() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithCollectErrors enables error collection mode.
// Parse errors are collected and returned as a ParseErrors error
// (which can be unwrapped to get individual errors).
// Without this option, parse errors are silently recovered from.
func WithCollectErrors() Option {
	return func(c *config) {
		c.collectErrors = true
	}
}

// WithXMLCoercion enables XML-compatible serialization coercion in the
// tokenizer (e.g. for producing output usable by strict XML consumers).
func WithXMLCoercion() Option {
	return func(c *config) {
		c.xmlCoercion = true
	}
}

// WithOverrideEncoding pins the caller's explicit encoding choice, the
// highest-precedence input after a byte-order mark per the HTML5 encoding
// sniffing algorithm. It takes priority even over a transport-declared
// encoding.
func WithOverrideEncoding(label string) Option {
	return func(c *config) {
		c.overrideEncoding = label
	}
}

// WithTransportEncoding supplies the encoding a network transport declared
// (e.g. an HTTP Content-Type charset parameter), consulted after a BOM and
// any caller override but before the in-document meta pre-scan.
func WithTransportEncoding(label string) Option {
	return func(c *config) {
		c.transportEncoding = label
	}
}

// WithSameOriginParentEncoding supplies the encoding of a same-origin
// parent document, used for frames/iframes that inherit their parent's
// encoding when nothing stronger is available. A UTF-16 parent encoding is
// never inherited.
func WithSameOriginParentEncoding(label string) Option {
	return func(c *config) {
		c.sameOriginParentEncoding = label
	}
}

// WithLikelyEncoding supplies a locale- or history-based "likely encoding"
// hint, consulted after the meta pre-scan and same-origin parent encoding
// but before the hard-coded windows-1252 default.
func WithLikelyEncoding(label string) Option {
	return func(c *config) {
		c.likelyEncoding = label
	}
}

// WithDefaultEncoding overrides the final windows-1252 fallback used when
// no other precedence level resolves an encoding.
func WithDefaultEncoding(label string) Option {
	return func(c *config) {
		c.defaultEncoding = label
	}
}

// WithNamespaceHTMLElements records a request for HTML elements to carry
// their namespace URI. The option is stored in the configuration only: the
// tree builder gives every HTML element dom.NamespaceHTML whether or not it
// is set, and never leaves the namespace empty.
func WithNamespaceHTMLElements() Option {
	return func(c *config) {
		c.namespaceHTMLElements = true
	}
}

// WithFullTree records a request for ParseFragment to return the synthetic
// html/head/body wrapper tree around a fragment. The option is stored in the
// configuration only: ParseFragment does not read it and always returns just
// the fragment's child nodes.
func WithFullTree() Option {
	return func(c *config) {
		c.fullTree = true
	}
}
