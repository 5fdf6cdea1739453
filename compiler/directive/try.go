package directive

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
)

// Try compiles a recovery block: a panic inside its children is swallowed so
// rendering continues, and an optional paired finally branch always runs.
func Try() *Descriptor {
	return &Descriptor{
		Name:       "try",
		Kind:       ControlFlow,
		PairedWith: "finally",
		Compile:    compileTry,
	}
}

// Finally contributes the cleanup branch of a paired try.
func Finally() *Descriptor {
	return &Descriptor{
		Name:    "finally",
		Kind:    ControlFlow,
		Compile: compileOrphan("finally", "try"),
	}
}

func compileTry(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
	rec := ctx.FreshVar("rec")

	nodes := []ast.Node{
		rawf(d, "func() {"),
		rawf(d, "defer func() {"),
		rawf(d, "%s := recover()", rec),
		rawf(d, "_ = %s", rec),
	}
	nodes = append(nodes, d.Alternate...)
	nodes = append(nodes, rawf(d, "}()"))
	nodes = append(nodes, d.Children...)
	nodes = append(nodes, rawf(d, "}()"))
	return nodes, nil
}
