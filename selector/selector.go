// Package selector implements CSS selector parsing and matching.
//
// A selector string goes through a small tokenizer and a recursive-descent
// parser (both in parser.go) that build a selectorAST,
// and a matcher (matcher.go) that tests a selectorAST against a *dom.Element.
// This file wires those three stages behind the public Selector/Parse/Match
// API and registers Match/MatchFirst as the dom package's selector engine.
package selector

import (
	"github.com/havenwisp/htmlspan/dom"
)

// Selector represents a parsed CSS selector.
type Selector interface {
	// Match returns true if the element matches this selector.
	Match(element *dom.Element) bool

	// String returns the original selector string.
	String() string
}

// parsedSelector wraps a selectorAST so it satisfies Selector.
type parsedSelector struct {
	ast selectorAST
	raw string
}

func (s *parsedSelector) Match(element *dom.Element) bool {
	return matchAST(element, s.ast)
}

func (s *parsedSelector) String() string {
	return s.raw
}

// Parse parses a CSS selector string into a matchable Selector.
func Parse(selector string) (Selector, error) {
	tokens, err := newTokenizer(selector).tokenize()
	if err != nil {
		return nil, err
	}
	ast, err := newParser(tokens, selector).parse()
	if err != nil {
		return nil, err
	}
	return &parsedSelector{ast: ast, raw: selector}, nil
}

func init() {
	dom.SetSelectorMatch(Match)
	dom.SetSelectorMatchFirst(MatchFirst)
}

// Match returns all elements in the subtree that match the selector.
func Match(root *dom.Element, selector string) ([]*dom.Element, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}

	var results []*dom.Element
	walkElements(root, func(elem *dom.Element) bool {
		if sel.Match(elem) {
			results = append(results, elem)
		}
		return false
	})
	return results, nil
}

// MatchFirst returns the first element that matches the selector.
func MatchFirst(root *dom.Element, selector string) (*dom.Element, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}

	var found *dom.Element
	walkElements(root, func(elem *dom.Element) bool {
		if sel.Match(elem) {
			found = elem
			return true
		}
		return false
	})
	return found, nil
}

// walkElements visits elem and each of its descendant elements in document
// order, stopping early once visit reports true.
func walkElements(elem *dom.Element, visit func(*dom.Element) bool) bool {
	if visit(elem) {
		return true
	}
	for _, child := range elem.Children() {
		if childElem, ok := child.(*dom.Element); ok {
			if walkElements(childElem, visit) {
				return true
			}
		}
	}
	return false
}
