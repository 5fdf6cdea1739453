// Package ast defines the typed syntax tree the parser produces and every
// pipeline pass rewrites. Nodes are created fresh per compile and never shared
// across compiles.
package ast

// Pos is a 1-based position in the original template source. Every node
// carries one; rewrites must preserve it.
type Pos struct {
	Line   int
	Column int
}

// Node is the tagged-variant base of the tree.
type Node interface {
	Position() Pos
	SetPosition(Pos)
	// Parent returns the enclosing node, set by the pipeline during
	// traversal. Non-owning; serves diagnostics and sibling scans only.
	Parent() Node
	SetParent(Node)
}

type base struct {
	Pos    Pos
	parent Node
}

func (b *base) Position() Pos     { return b.Pos }
func (b *base) SetPosition(p Pos) { b.Pos = p }
func (b *base) Parent() Node      { return b.parent }
func (b *base) SetParent(p Node)  { b.parent = p }

// Document is the root. Every pass must return exactly one Document.
type Document struct {
	base
	Children []Node
}

// Element is a markup element, static or reconstructed.
type Element struct {
	base
	Tag         string
	Attributes  []*Attribute
	Children    []Node
	SelfClosing bool
}

// Component is a named reference to an externally expanded component. This
// compiler produces Component nodes; it never expands them.
type Component struct {
	base
	Name       string
	Attributes []*Attribute
	Children   []Node
}

// Fragment carries attributes without rendering a wrapper tag.
type Fragment struct {
	base
	Attributes []*Attribute
	Children   []Node
}

// Directive is a declarative control-flow or attribute transform extracted
// from a marker attribute or wrapper tag.
type Directive struct {
	base
	Name       string
	Expression string
	// Children is the primary branch; Alternate the paired partner's branch
	// (else, empty, finally).
	Children  []Node
	Alternate []Node
	// Pair links the sibling directive that contributed Alternate; Consumed
	// marks that partner so it is not compiled freestanding. Non-owning.
	Pair     *Directive
	Consumed bool
	// Claimed holds the host element captured by a custom extraction hook
	// instead of being wrapped as a child.
	Claimed *Element
}

// Text is literal markup text.
type Text struct {
	base
	Value string
}

// Output is a dynamic expression emitted through a context escaper.
type Output struct {
	base
	Expression string
	// Escape is false only for expressions explicitly marked raw.
	Escape bool
	// Context is assigned by context analysis before generation.
	Context OutputContext
	// Filters apply inside-out around Expression, before the escaper.
	Filters []string
}

// RawCode is opaque host-language code emitted verbatim.
type RawCode struct {
	base
	Code string
}

// RawBody is opaque markup emitted verbatim (raw elements, unescaped regions).
type RawBody struct {
	base
	Value string
}

// Comment is a markup comment, passed through when configured.
type Comment struct {
	base
	Value string
}

// OutputContext is the syntactic position of a dynamic expression, which
// determines its escaper. Chosen at compile time, never from runtime values.
type OutputContext int

const (
	// ContextUnset means analysis has not run yet.
	ContextUnset OutputContext = iota
	// ContextBody escapes for HTML element body text.
	ContextBody
	// ContextAttr escapes for a quoted HTML attribute value.
	ContextAttr
	// ContextJS escapes for a script literal (on* attributes).
	ContextJS
	// ContextURL escapes a URL component (href, src, ...).
	ContextURL
	// ContextData encodes the value as structured data (| json).
	ContextData
	// ContextRaw applies no escaping (| raw).
	ContextRaw
)

func (c OutputContext) String() string {
	switch c {
	case ContextBody:
		return "body"
	case ContextAttr:
		return "attr"
	case ContextJS:
		return "js"
	case ContextURL:
		return "url"
	case ContextData:
		return "data"
	case ContextRaw:
		return "raw"
	default:
		return "unset"
	}
}

// At stamps a node's source position and returns it, for fluent construction.
func At[N Node](n N, line, column int) N {
	n.SetPosition(Pos{Line: line, Column: column})
	return n
}

// IsWhitespaceText reports whether n is a Text node containing only
// whitespace. Pairing and wrapper-mode detection skip such nodes.
func IsWhitespaceText(n Node) bool {
	t, ok := n.(*Text)
	if !ok {
		return false
	}
	for _, r := range t.Value {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// CloneElementWithout returns a shallow copy of el with the attribute at the
// given index removed. Children are shared, not copied; extraction hands
// ownership of them to the clone.
func CloneElementWithout(el *Element, attrIndex int) *Element {
	clone := &Element{
		Tag:         el.Tag,
		Children:    el.Children,
		SelfClosing: el.SelfClosing,
	}
	clone.Pos = el.Pos
	clone.Attributes = make([]*Attribute, 0, len(el.Attributes)-1)
	for i, a := range el.Attributes {
		if i != attrIndex {
			clone.Attributes = append(clone.Attributes, a)
		}
	}
	return clone
}
