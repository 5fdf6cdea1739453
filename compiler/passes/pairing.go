package passes

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/directive"
	"github.com/sproutlang/sprout/compiler/pipeline"
)

// Pairing links partner directives (else, empty, finally) to the primary that
// precedes them as a sibling. It runs on each container before anything
// descends into it, rewriting the child list in place: the primary becomes a
// Directive carrying the partner's children as its alternate branch, and the
// partner stays behind consumed, to be dropped at compile time.
//
// Only whitespace text may separate the pair; any other sibling blocks the
// link and the partner later fails as freestanding.
type Pairing struct {
	pipeline.Hooks
	registry *directive.Registry
	// primaryOf maps a partner directive name to its primary's name.
	primaryOf map[string]string
}

// NewPairing builds the pairing stage over a directive registry.
func NewPairing(reg *directive.Registry) *Pairing {
	p := &Pairing{registry: reg, primaryOf: make(map[string]string)}
	for _, name := range reg.Names() {
		if desc, ok := reg.Lookup(name); ok && desc.PairedWith != "" {
			p.primaryOf[desc.PairedWith] = name
		}
	}
	return p
}

func (p *Pairing) Name() string { return "pair" }

func (p *Pairing) Before(n ast.Node, ctx *core.Context) (pipeline.Action, error) {
	var err error
	switch t := n.(type) {
	case *ast.Document:
		t.Children, err = p.pair(t.Children, ctx)
	case *ast.Element:
		t.Children, err = p.pair(t.Children, ctx)
	case *ast.Fragment:
		t.Children, err = p.pair(t.Children, ctx)
	case *ast.Directive:
		t.Children, err = p.pair(t.Children, ctx)
		if err == nil {
			t.Alternate, err = p.pair(t.Alternate, ctx)
		}
	}
	return pipeline.None(), err
}

// pair walks one sibling list and links adjacent primary/partner pairs.
func (p *Pairing) pair(children []ast.Node, ctx *core.Context) ([]ast.Node, error) {
	prev := -1 // index of the last non-whitespace sibling
	for j, child := range children {
		if ast.IsWhitespaceText(child) {
			continue
		}
		pname, ok := p.partnerName(child, ctx)
		if !ok || prev < 0 {
			prev = j
			continue
		}
		primary, ok := p.asPrimary(children[prev], p.primaryOf[pname], ctx)
		if !ok {
			prev = j
			continue
		}
		partner, err := p.asDirective(child, ctx)
		if err != nil {
			return nil, err
		}
		if partner == nil {
			prev = j
			continue
		}
		primary.Pair = partner
		primary.Alternate = partner.Children
		partner.Children = nil
		partner.Consumed = true
		children[prev] = primary
		children[j] = partner
		prev = j
	}
	return children, nil
}

// partnerName reports whether a node is an unclaimed partner directive and
// returns its name.
func (p *Pairing) partnerName(n ast.Node, ctx *core.Context) (string, bool) {
	name, ok := p.markerName(n, ctx)
	if !ok {
		return "", false
	}
	if _, ok := p.primaryOf[name]; !ok {
		return "", false
	}
	if d, isDirective := n.(*ast.Directive); isDirective && d.Consumed {
		return "", false
	}
	return name, true
}

// asPrimary returns n as a Directive of the wanted primary name, extracting it
// from its raw element form if needed.
func (p *Pairing) asPrimary(n ast.Node, want string, ctx *core.Context) (*ast.Directive, bool) {
	name, ok := p.markerName(n, ctx)
	if !ok || name != want {
		return nil, false
	}
	if d, isDirective := n.(*ast.Directive); isDirective {
		if d.Consumed || d.Pair != nil {
			return nil, false
		}
		return d, true
	}
	d, err := p.asDirective(n, ctx)
	if err != nil || d == nil {
		return nil, false
	}
	return d, true
}

// asDirective extracts a raw marked node into its directive form, or returns
// the node unchanged when extraction already ran.
func (p *Pairing) asDirective(n ast.Node, ctx *core.Context) (*ast.Directive, error) {
	if d, ok := n.(*ast.Directive); ok {
		return d, nil
	}
	switch t := n.(type) {
	case *ast.Element:
		d, _, err := extractElement(p.registry, t, ctx)
		return d, err
	case *ast.Fragment:
		d, _, err := extractFragment(p.registry, t, ctx)
		return d, err
	}
	return nil, nil
}

// markerName identifies the directive a node carries: an extracted Directive's
// own name, a wrapper tag, or the first registered directive attribute.
func (p *Pairing) markerName(n ast.Node, ctx *core.Context) (string, bool) {
	cfg := ctx.Config
	switch t := n.(type) {
	case *ast.Directive:
		return t.Name, true
	case *ast.Element:
		if name, ok := cfg.DirectiveTag(t.Tag); ok {
			if _, known := p.registry.Lookup(name); known {
				return name, true
			}
			return "", false
		}
		return p.firstMarker(t.Attributes, cfg)
	case *ast.Fragment:
		return p.firstMarker(t.Attributes, cfg)
	}
	return "", false
}

func (p *Pairing) firstMarker(attrs []*ast.Attribute, cfg core.Config) (string, bool) {
	for _, a := range attrs {
		name, ok := cfg.DirectiveAttr(a.Name)
		if !ok {
			continue
		}
		desc, known := p.registry.Lookup(name)
		if !known || desc.Kind == directive.PassThrough {
			continue
		}
		return name, true
	}
	return "", false
}
