package treebuilder

// InsertionMode represents the current insertion mode of the tree builder.
// These modes determine how tokens are processed during tree construction.
type InsertionMode int

// Insertion modes as defined by the HTML5 specification.
// See: https://html.spec.whatwg.org/multipage/parsing.html#insertion-mode
const (
	Initial InsertionMode = iota
	BeforeHTML
	BeforeHead
	InHead
	InHeadNoscript
	AfterHead
	InBody
	Text
	InTable
	InTableText
	InCaption
	InColumnGroup
	InTableBody
	InRow
	InCell
	InSelect
	InSelectInTable
	InTemplate
	AfterBody
	InFrameset
	AfterFrameset
	AfterAfterBody
	AfterAfterFrameset
)

var insertionModeNames = map[InsertionMode]string{
	Initial:             "initial",
	BeforeHTML:          "before html",
	BeforeHead:          "before head",
	InHead:              "in head",
	InHeadNoscript:      "in head noscript",
	AfterHead:           "after head",
	InBody:              "in body",
	Text:                "text",
	InTable:             "in table",
	InTableText:         "in table text",
	InCaption:           "in caption",
	InColumnGroup:       "in column group",
	InTableBody:         "in table body",
	InRow:               "in row",
	InCell:              "in cell",
	InSelect:            "in select",
	InSelectInTable:     "in select in table",
	InTemplate:          "in template",
	AfterBody:           "after body",
	InFrameset:          "in frameset",
	AfterFrameset:       "after frameset",
	AfterAfterBody:      "after after body",
	AfterAfterFrameset:  "after after frameset",
}

// String returns the name of the insertion mode for debugging.
func (m InsertionMode) String() string {
	if name, ok := insertionModeNames[m]; ok {
		return name
	}
	return "unknown"
}
