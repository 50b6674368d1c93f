// This file holds the selectorAST node types parser.go builds and
// matcher.go evaluates: simple/compound/complex selectors, selector lists,
// and the small enums (SelectorKind, AttrOperator, Combinator) tagging them.
package selector

// SelectorKind identifies the type of simple selector.
type SelectorKind int

const (
	KindTag       SelectorKind = iota // div, span, etc.
	KindUniversal                     // *
	KindID                            // #foo
	KindClass                         // .bar
	KindAttr                          // [attr], [attr="val"]
	KindPseudo                        // :first-child, :nth-child()
)

// selectorKindNames maps a SelectorKind to its debug name.
var selectorKindNames = map[SelectorKind]string{
	KindTag:       "Tag",
	KindUniversal: "Universal",
	KindID:        "ID",
	KindClass:     "Class",
	KindAttr:      "Attr",
	KindPseudo:    "Pseudo",
}

// String returns a string representation of the selector kind.
func (k SelectorKind) String() string {
	if name, ok := selectorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// AttrOperator represents attribute comparison operators.
type AttrOperator int

const (
	AttrExists      AttrOperator = iota // [attr]
	AttrEquals                          // [attr="val"]
	AttrIncludes                        // [attr~="val"] - word match
	AttrDashPrefix                      // [attr|="val"] - prefix match (hyphen-separated)
	AttrPrefixMatch                     // [attr^="val"] - starts with
	AttrSuffixMatch                     // [attr$="val"] - ends with
	AttrSubstring                       // [attr*="val"] - contains
)

// attrOperatorNames maps an AttrOperator to its selector-syntax spelling.
var attrOperatorNames = map[AttrOperator]string{
	AttrExists:      "",
	AttrEquals:      "=",
	AttrIncludes:    "~=",
	AttrDashPrefix:  "|=",
	AttrPrefixMatch: "^=",
	AttrSuffixMatch: "$=",
	AttrSubstring:   "*=",
}

// String returns a string representation of the attribute operator.
func (op AttrOperator) String() string {
	if s, ok := attrOperatorNames[op]; ok {
		return s
	}
	return "?"
}

// Combinator represents the relationship between compound selectors.
type Combinator int

const (
	CombinatorNone       Combinator = iota // No combinator (first in chain)
	CombinatorDescendant                   // space (descendant)
	CombinatorChild                        // > (direct child)
	CombinatorAdjacent                     // + (adjacent sibling)
	CombinatorGeneral                      // ~ (general sibling)
)

// combinatorNames maps a Combinator to its selector-syntax spelling.
var combinatorNames = map[Combinator]string{
	CombinatorNone:       "",
	CombinatorDescendant: " ",
	CombinatorChild:      ">",
	CombinatorAdjacent:   "+",
	CombinatorGeneral:    "~",
}

// String returns a string representation of the combinator.
func (c Combinator) String() string {
	if s, ok := combinatorNames[c]; ok {
		return s
	}
	return "?"
}

// SimpleSelector represents a single atomic selector.
type SimpleSelector struct {
	Kind     SelectorKind // Type of selector
	Name     string       // Tag name, ID, class name, attr name, or pseudo-class name
	Operator AttrOperator // For attribute selectors
	Value    string       // For attribute selectors or functional pseudo-class arguments
}

// CompoundSelector is a sequence of simple selectors (e.g., div.foo#bar).
// All simple selectors must match for the compound to match.
type CompoundSelector struct {
	Selectors []SimpleSelector
}

// ComplexPart represents one step in a complex selector chain.
type ComplexPart struct {
	Combinator Combinator
	Compound   CompoundSelector
}

// ComplexSelector chains compound selectors with combinators.
// Represented as a list of (combinator, compound) pairs where the first
// combinator is always CombinatorNone.
type ComplexSelector struct {
	Parts []ComplexPart
}

// SelectorList represents comma-separated selectors.
// An element matches if it matches any selector in the list.
type SelectorList struct {
	Selectors []ComplexSelector
}

// selectorAST is a marker interface for parsed selector AST nodes.
type selectorAST interface {
	isSelectorAST()
}

func (ComplexSelector) isSelectorAST() {}
func (SelectorList) isSelectorAST()    {}
