// This file holds post-parse population of <selectedcontent> elements: a
// <select>'s designated selected <option> (or its first option, if none is
// marked) has its contents cloned into each <selectedcontent> descendant.
package treebuilder

import "github.com/havenwisp/htmlspan/dom"

func (tb *TreeBuilder) populateSelectedContent(root dom.Node) {
	var selects []*dom.Element
	findElements(root, "select", &selects)

	for _, sel := range selects {
		selectedcontent := findElement(sel, "selectedcontent")
		if selectedcontent == nil {
			continue
		}

		var options []*dom.Element
		findElements(sel, "option", &options)
		if len(options) == 0 {
			continue
		}

		var selected *dom.Element
		for _, opt := range options {
			if opt.Namespace == dom.NamespaceHTML && opt.HasAttr("selected") {
				selected = opt
				break
			}
		}
		if selected == nil {
			selected = options[0]
		}

		cloneChildren(selected, selectedcontent)
	}
}

// walkElements visits every HTML-namespace element under node, including
// template contents, stopping early once visit returns true.
func walkElements(node dom.Node, visit func(*dom.Element) bool) bool {
	if el, ok := node.(*dom.Element); ok {
		if el.Namespace == dom.NamespaceHTML && visit(el) {
			return true
		}
		if el.TemplateContent != nil {
			for _, child := range el.TemplateContent.Children() {
				if walkElements(child, visit) {
					return true
				}
			}
		}
	}
	for _, child := range node.Children() {
		if walkElements(child, visit) {
			return true
		}
	}
	return false
}

func findElements(node dom.Node, name string, out *[]*dom.Element) {
	walkElements(node, func(el *dom.Element) bool {
		if el.TagName == name {
			*out = append(*out, el)
		}
		return false
	})
}

func findElement(node dom.Node, name string) *dom.Element {
	var found *dom.Element
	walkElements(node, func(el *dom.Element) bool {
		if el.TagName == name {
			found = el
			return true
		}
		return false
	})
	return found
}

func cloneChildren(source, target *dom.Element) {
	for _, child := range append([]dom.Node(nil), target.Children()...) {
		target.RemoveChild(child)
	}
	for _, child := range source.Children() {
		target.AppendChild(child.Clone(true))
	}
}
