// This file holds the arena-style allocator that backs node creation: DOM
// nodes are carved out of fixed-size slabs instead of allocated one at a
// time, which matters on documents with large element counts.
package dom

import "strings"

const (
	elementChunkSize   = 128
	textChunkSize      = 256
	commentChunkSize   = 64
	doctypeChunkSize   = 32
	documentChunkSize  = 8
	fragmentChunkSize  = 64
	attributeChunkSize = 128
)

// chunkPool hands out pointers into fixed-size slabs of T, growing a fresh
// slab once the current one is exhausted. It backs NodeAllocator's arena:
// nodes are allocated in bulk instead of one heap object at a time.
type chunkPool[T any] struct {
	chunk    []T
	at       int
	slabSize int
}

func (p *chunkPool[T]) next() *T {
	if p.at >= len(p.chunk) {
		p.chunk = make([]T, p.slabSize)
		p.at = 0
	}
	v := &p.chunk[p.at]
	p.at++
	return v
}

// NodeAllocator provides arena-style allocation for DOM nodes.
// It reduces per-node allocations by handing out pointers from fixed-size chunks.
type NodeAllocator struct {
	elements   chunkPool[Element]
	texts      chunkPool[Text]
	comments   chunkPool[Comment]
	doctypes   chunkPool[DocumentType]
	documents  chunkPool[Document]
	fragments  chunkPool[DocumentFragment]
	attributes chunkPool[Attributes]
}

// NewNodeAllocator creates a new allocator for DOM nodes.
func NewNodeAllocator() *NodeAllocator {
	return &NodeAllocator{
		elements:   chunkPool[Element]{slabSize: elementChunkSize},
		texts:      chunkPool[Text]{slabSize: textChunkSize},
		comments:   chunkPool[Comment]{slabSize: commentChunkSize},
		doctypes:   chunkPool[DocumentType]{slabSize: doctypeChunkSize},
		documents:  chunkPool[Document]{slabSize: documentChunkSize},
		fragments:  chunkPool[DocumentFragment]{slabSize: fragmentChunkSize},
		attributes: chunkPool[Attributes]{slabSize: attributeChunkSize},
	}
}

// NewDocument creates a new document node.
func (a *NodeAllocator) NewDocument() *Document {
	d := a.documents.next()
	d.baseNode = baseNode{}
	d.Doctype = nil
	d.QuirksMode = NoQuirks
	d.init(d)
	return d
}

// NewDocumentFragment creates a new document fragment.
func (a *NodeAllocator) NewDocumentFragment() *DocumentFragment {
	df := a.fragments.next()
	df.baseNode = baseNode{}
	df.init(df)
	return df
}

// NewElement creates a new HTML element with lowercase tag name.
func (a *NodeAllocator) NewElement(tagName string) *Element {
	e := a.elements.next()
	e.baseNode = baseNode{}
	e.TagName = strings.ToLower(tagName)
	e.Namespace = NamespaceHTML
	e.Attributes = a.newAttributes()
	e.TemplateContent = nil
	e.init(e)
	return e
}

// NewElementNS creates a new element with the given namespace.
func (a *NodeAllocator) NewElementNS(tagName, namespace string) *Element {
	e := a.elements.next()
	e.baseNode = baseNode{}
	e.TagName = tagName
	e.Namespace = namespace
	e.Attributes = a.newAttributes()
	e.TemplateContent = nil
	e.init(e)
	return e
}

// NewText creates a new text node.
func (a *NodeAllocator) NewText(data string) *Text {
	t := a.texts.next()
	t.parent = nil
	t.Data = data
	return t
}

// NewComment creates a new comment node.
func (a *NodeAllocator) NewComment(data string) *Comment {
	c := a.comments.next()
	c.parent = nil
	c.Data = data
	return c
}

// NewDocumentType creates a new DOCTYPE node.
func (a *NodeAllocator) NewDocumentType(name, publicID, systemID string) *DocumentType {
	dt := a.doctypes.next()
	dt.parent = nil
	dt.Name = name
	dt.PublicID = publicID
	dt.SystemID = systemID
	return dt
}

func (a *NodeAllocator) newAttributes() *Attributes {
	attr := a.attributes.next()
	attr.items = attr.items[:0]
	return attr
}
