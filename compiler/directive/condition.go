package directive

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
)

// If compiles a conditional wrapping its children, with an optional paired
// else branch.
func If() *Descriptor {
	return &Descriptor{
		Name:       "if",
		Kind:       ControlFlow,
		PairedWith: "else",
		ClaimAttr:  "test",
		Compile:    compileIf,
	}
}

// Else contributes the alternate branch of a paired if. Freestanding use is
// a syntax error.
func Else() *Descriptor {
	return &Descriptor{
		Name:    "else",
		Kind:    ControlFlow,
		Compile: compileOrphan("else", "if"),
	}
}

func compileIf(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
	expr, err := expression(d)
	if err != nil {
		return nil, err
	}
	nodes := []ast.Node{rawf(d, "if render.Truthy(%s) {", expr)}
	nodes = append(nodes, d.Children...)
	if d.Pair != nil || len(d.Alternate) > 0 {
		nodes = append(nodes, rawf(d, "} else {"))
		nodes = append(nodes, d.Alternate...)
	}
	nodes = append(nodes, rawf(d, "}"))
	return nodes, nil
}

// compileOrphan rejects a pairing-only directive that was never claimed by
// its primary.
func compileOrphan(name, partner string) CompileFunc {
	return func(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
		pos := d.Position()
		return nil, diag.Syntax(pos.Line, pos.Column,
			"%q has no preceding %q to pair with", name, partner)
	}
}
