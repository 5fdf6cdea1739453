package passes

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/directive"
	"github.com/sproutlang/sprout/compiler/pipeline"
)

// Compile replaces every Directive node with the nodes its descriptor
// generates. It fires before descent, so a directive's children reach its
// compile function untouched; the replacement re-enters traversal and any
// markers it contains are extracted and compiled in turn.
type Compile struct {
	pipeline.Hooks
	registry *directive.Registry
}

// NewCompile builds the directive-compilation stage.
func NewCompile(reg *directive.Registry) *Compile {
	return &Compile{registry: reg}
}

func (c *Compile) Name() string { return "compile" }

func (c *Compile) Before(n ast.Node, ctx *core.Context) (pipeline.Action, error) {
	d, ok := n.(*ast.Directive)
	if !ok {
		return pipeline.None(), nil
	}
	if d.Consumed {
		// Its children already moved into the primary's alternate branch.
		return pipeline.Replace(false), nil
	}
	desc, ok := c.registry.Lookup(d.Name)
	if !ok || desc.Compile == nil {
		pos := d.Position()
		return pipeline.None(), diag.Unsupported(pos.Line, pos.Column,
			"directive %q has no compiler", d.Name)
	}
	nodes, err := desc.Compile(d, ctx)
	if err != nil {
		return pipeline.None(), err
	}
	return pipeline.Replace(false, nodes...), nil
}
