// Package passes holds the built-in pipeline stages: pairing, directive
// extraction, output-context analysis, and directive compilation. Stages are
// registered on a pipeline in that priority order; each runs during the same
// single depth-first traversal.
package passes

import (
	"strings"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/directive"
	"github.com/sproutlang/sprout/compiler/parser"
	"github.com/sproutlang/sprout/compiler/pipeline"
)

// Extraction lifts directive markers, both prefixed attributes and wrapper
// tags, into Directive nodes. One marker is extracted per visit; the replacement
// restarts through this pass, so stacked markers on one element chain until
// none remain.
type Extraction struct {
	pipeline.Hooks
	registry *directive.Registry
}

// NewExtraction builds the extraction stage over a directive registry.
func NewExtraction(reg *directive.Registry) *Extraction {
	return &Extraction{registry: reg}
}

func (x *Extraction) Name() string { return "extract" }

func (x *Extraction) Before(n ast.Node, ctx *core.Context) (pipeline.Action, error) {
	switch t := n.(type) {
	case *ast.Element:
		d, ok, err := extractElement(x.registry, t, ctx)
		if err != nil {
			return pipeline.None(), err
		}
		if ok {
			return pipeline.Replace(true, d), nil
		}
	case *ast.Fragment:
		d, ok, err := extractFragment(x.registry, t, ctx)
		if err != nil {
			return pipeline.None(), err
		}
		if ok {
			return pipeline.Replace(true, d), nil
		}
	}
	return pipeline.None(), nil
}

// extractElement builds a Directive from el's first directive marker. A
// wrapper tag (<s:if test="...">) takes precedence; otherwise the first
// prefixed attribute wins and later markers surface on the next visit.
func extractElement(reg *directive.Registry, el *ast.Element, ctx *core.Context) (*ast.Directive, bool, error) {
	cfg := ctx.Config
	if name, ok := cfg.DirectiveTag(el.Tag); ok {
		desc, err := resolve(reg, name, el.Position().Line, el.Position().Column, cfg)
		if err != nil {
			return nil, false, err
		}
		if desc.Kind == directive.PassThrough {
			return nil, false, nil
		}
		d := &ast.Directive{Name: name, Children: el.Children}
		d.SetPosition(el.Position())
		if desc.ClaimAttr != "" {
			if i := attrIndex(el.Attributes, desc.ClaimAttr); i >= 0 {
				d.Expression = attrExpr(el.Attributes[i].Value)
			}
		}
		return d, true, nil
	}

	for i, a := range el.Attributes {
		name, ok := cfg.DirectiveAttr(a.Name)
		if !ok {
			continue
		}
		desc, err := resolve(reg, name, a.Line, a.Column, cfg)
		if err != nil {
			return nil, false, err
		}
		if desc.Kind == directive.PassThrough {
			continue
		}
		if desc.Extract != nil {
			d, err := desc.Extract(el, i, ctx)
			if err != nil {
				return nil, false, err
			}
			return d, true, nil
		}
		d := &ast.Directive{Name: name, Expression: attrExpr(a.Value)}
		d.SetPosition(ast.Pos{Line: a.Line, Column: a.Column})
		d.Children = []ast.Node{ast.CloneElementWithout(el, i)}
		return d, true, nil
	}
	return nil, false, nil
}

// extractFragment lifts directive markers off a fragment. The fragment clone
// stays as the directive's child so its remaining attributes survive.
func extractFragment(reg *directive.Registry, f *ast.Fragment, ctx *core.Context) (*ast.Directive, bool, error) {
	cfg := ctx.Config
	for i, a := range f.Attributes {
		name, ok := cfg.DirectiveAttr(a.Name)
		if !ok {
			continue
		}
		desc, err := resolve(reg, name, a.Line, a.Column, cfg)
		if err != nil {
			return nil, false, err
		}
		if desc.Kind == directive.PassThrough {
			continue
		}
		clone := &ast.Fragment{Children: f.Children}
		clone.SetPosition(f.Position())
		clone.Attributes = make([]*ast.Attribute, 0, len(f.Attributes)-1)
		for j, other := range f.Attributes {
			if j != i {
				clone.Attributes = append(clone.Attributes, other)
			}
		}
		d := &ast.Directive{Name: name, Expression: attrExpr(a.Value)}
		d.SetPosition(ast.Pos{Line: a.Line, Column: a.Column})
		d.Children = []ast.Node{clone}
		return d, true, nil
	}
	return nil, false, nil
}

// resolve looks a directive name up, turning an unknown name into a syntax
// error with a closest-match suggestion.
func resolve(reg *directive.Registry, name string, line, column int, cfg core.Config) (*directive.Descriptor, error) {
	desc, ok := reg.Lookup(name)
	if ok {
		return desc, nil
	}
	err := diag.Syntax(line, column, "unknown directive %q", cfg.Prefix+":"+name)
	if match := suggest(name, reg.Names()); match != "" {
		err = err.WithSuggestion(cfg.Prefix + ":" + match)
	}
	return nil, err
}

// attrExpr reads a directive expression out of a marker attribute value.
func attrExpr(v *ast.AttributeValue) string {
	switch v.Kind {
	case ast.ValueStatic:
		return strings.TrimSpace(v.Static)
	case ast.ValueOutput:
		return parser.ApplyFilters(v.Output.Expression, v.Output.Filters)
	default:
		return ""
	}
}

// attrIndex returns the index of a named attribute, or -1.
func attrIndex(attrs []*ast.Attribute, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}
