package directive

import (
	"strings"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
)

// For compiles a repetition directive. The clause is "item in expr" or
// "key, item in expr"; the body exposes per-iteration metadata as `loop`.
func For() *Descriptor {
	return &Descriptor{
		Name:       "for",
		Kind:       ControlFlow,
		PairedWith: "empty",
		ClaimAttr:  "each",
		Compile:    compileFor,
	}
}

// Empty contributes the empty-collection branch of a paired for.
func Empty() *Descriptor {
	return &Descriptor{
		Name:    "empty",
		Kind:    ControlFlow,
		Compile: compileOrphan("empty", "for"),
	}
}

func compileFor(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
	clause, err := expression(d)
	if err != nil {
		return nil, err
	}
	keyVar, valueVar, collection, err := splitLoopClause(d, clause)
	if err != nil {
		return nil, err
	}

	wrapper, body := loopShape(d)

	items := ctx.FreshVar("items")
	ent := ctx.FreshVar("ent")

	var loop []ast.Node
	loop = append(loop, rawf(d, "loop := render.NewLoop(len(%s))", items))
	loop = append(loop, rawf(d, "_ = loop"))
	loop = append(loop, rawf(d, "for _, %s := range %s {", ent, items))
	loop = append(loop, rawf(d, "loop.Advance(%s.Index)", ent))
	if keyVar != "" {
		loop = append(loop, rawf(d, "%s := %s.Key", keyVar, ent))
		loop = append(loop, rawf(d, "_ = %s", keyVar))
	}
	loop = append(loop, rawf(d, "%s := %s.Value", valueVar, ent))
	loop = append(loop, rawf(d, "_ = %s", valueVar))
	loop = append(loop, body...)
	loop = append(loop, rawf(d, "}"))

	// The wrapper element stays inside the non-empty branch: on an empty
	// collection neither the container nor the alternate-inside-container
	// appears, and the empty branch renders as a true sibling.
	repeated := loop
	if wrapper != nil {
		wrapper.Children = loop
		repeated = []ast.Node{wrapper}
	}

	var nodes []ast.Node
	nodes = append(nodes, rawf(d, "{"))
	nodes = append(nodes, rawf(d, "%s := render.Entries(%s)", items, collection))
	if len(d.Alternate) > 0 {
		nodes = append(nodes, rawf(d, "if len(%s) == 0 {", items))
		nodes = append(nodes, d.Alternate...)
		nodes = append(nodes, rawf(d, "} else {"))
	}
	nodes = append(nodes, repeated...)
	if len(d.Alternate) > 0 {
		nodes = append(nodes, rawf(d, "}"))
	}
	nodes = append(nodes, rawf(d, "}"))
	return nodes, nil
}

// loopShape decides wrapper versus repeat mode. In wrapper mode the single
// element child becomes a once-emitted container and its own children repeat;
// that applies only when the child has at least one element-typed grandchild.
// Otherwise the directive's children repeat verbatim per iteration.
func loopShape(d *ast.Directive) (wrapper *ast.Element, body []ast.Node) {
	var only *ast.Element
	for _, child := range d.Children {
		if ast.IsWhitespaceText(child) {
			continue
		}
		el, ok := child.(*ast.Element)
		if !ok || only != nil {
			return nil, d.Children
		}
		only = el
	}
	if only == nil {
		return nil, d.Children
	}
	for _, grand := range only.Children {
		if _, ok := grand.(*ast.Element); ok {
			return only, only.Children
		}
	}
	return nil, d.Children
}

// splitLoopClause parses "item in expr" / "key, item in expr".
func splitLoopClause(d *ast.Directive, clause string) (keyVar, valueVar, collection string, err error) {
	pos := d.Position()
	idx := strings.Index(clause, " in ")
	if idx < 0 {
		return "", "", "", diag.Syntax(pos.Line, pos.Column,
			"loop is missing its iteration clause, want \"item in collection\"")
	}
	vars := strings.TrimSpace(clause[:idx])
	collection = strings.TrimSpace(clause[idx+len(" in "):])
	if vars == "" || collection == "" {
		return "", "", "", diag.Syntax(pos.Line, pos.Column,
			"loop is missing its iteration clause, want \"item in collection\"")
	}
	if comma := strings.IndexByte(vars, ','); comma >= 0 {
		keyVar = strings.TrimSpace(vars[:comma])
		valueVar = strings.TrimSpace(vars[comma+1:])
		if keyVar == "" || valueVar == "" {
			return "", "", "", diag.Syntax(pos.Line, pos.Column,
				"loop variables must be \"key, item\"")
		}
		return keyVar, valueVar, collection, nil
	}
	return "", vars, collection, nil
}
