// Package codegen turns the fully rewritten tree into host source: the body
// of a render function writing to a render.Buffer. By the time a tree reaches
// this package every directive has compiled away; what remains is literal
// markup, contextual outputs, and raw code.
package codegen

import (
	"strconv"
	"strings"
	"time"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/parser"
)

// Generate renders the document as the source text of a render function
// literal, `func(out *render.Buffer) { ... }`.
func Generate(doc *ast.Document, ctx *core.Context) (string, error) {
	g := &generator{cfg: ctx.Config}
	if ctx.Config.Debug {
		g.line("// sprout: compiled from " + ctx.Path + " at " +
			ctx.CompiledAt.UTC().Format(time.RFC3339))
	}
	g.line("func(out *render.Buffer) {")
	for _, child := range doc.Children {
		if err := g.gen(child); err != nil {
			return "", err
		}
	}
	g.flush()
	g.line("}")
	return g.out.String(), nil
}

// generator accumulates generated lines, coalescing adjacent literal markup
// into single out.Text calls so static templates compile to one write.
type generator struct {
	cfg core.Config
	out strings.Builder
	lit strings.Builder
}

func (g *generator) line(s string) {
	g.out.WriteString(s)
	g.out.WriteByte('\n')
}

func (g *generator) literal(s string) {
	g.lit.WriteString(s)
}

// flush emits the pending literal run, if any.
func (g *generator) flush() {
	if g.lit.Len() == 0 {
		return
	}
	g.line("out.Text(" + strconv.Quote(g.lit.String()) + ")")
	g.lit.Reset()
}

func (g *generator) call(method, arg string) {
	g.flush()
	g.line("out." + method + "(" + arg + ")")
}

func (g *generator) gen(n ast.Node) error {
	switch t := n.(type) {
	case *ast.Text:
		g.literal(t.Value)
	case *ast.RawBody:
		g.literal(t.Value)
	case *ast.Comment:
		g.literal("<!--" + t.Value + "-->")
	case *ast.Output:
		g.call(escaperFor(t), parser.ApplyFilters(t.Expression, t.Filters))
	case *ast.RawCode:
		g.flush()
		g.line(t.Code)
	case *ast.Element:
		return g.genElement(t)
	case *ast.Fragment:
		for _, child := range t.Children {
			if err := g.gen(child); err != nil {
				return err
			}
		}
	default:
		pos := n.Position()
		return diag.Unsupported(pos.Line, pos.Column,
			"no generation rule for %T", n)
	}
	return nil
}

func (g *generator) genElement(el *ast.Element) error {
	g.literal("<" + el.Tag)
	for _, a := range el.Attributes {
		if err := g.genAttribute(a); err != nil {
			return err
		}
	}
	if el.SelfClosing && len(el.Children) == 0 {
		// Void tags close as written; an explicit slash survives on the rest.
		if g.cfg.VoidTags[el.Tag] {
			g.literal(">")
		} else {
			g.literal("/>")
		}
		return nil
	}
	g.literal(">")
	for _, child := range el.Children {
		if err := g.gen(child); err != nil {
			return err
		}
	}
	g.literal("</" + el.Tag + ">")
	return nil
}

func (g *generator) genAttribute(a *ast.Attribute) error {
	// A nameless attribute carries injected raw attribute text (spreads,
	// conditional boolean attributes); its expression already produces the
	// leading space.
	if a.Name == "" {
		if a.Value.Kind != ast.ValueOutput {
			return diag.Unsupported(a.Line, a.Column,
				"injected attribute must carry an expression")
		}
		out := a.Value.Output
		g.call("Raw", parser.ApplyFilters(out.Expression, out.Filters))
		return nil
	}

	switch a.Value.Kind {
	case ast.ValueBoolean:
		g.literal(" " + a.Name)
	case ast.ValueStatic:
		g.literal(" " + a.Name + `="` + staticAttrText(a.Value.Static) + `"`)
	case ast.ValueOutput:
		g.literal(" " + a.Name + `="`)
		out := a.Value.Output
		g.call(escaperFor(out), parser.ApplyFilters(out.Expression, out.Filters))
		g.literal(`"`)
	case ast.ValueParts:
		g.literal(" " + a.Name + `="`)
		for _, part := range a.Value.Parts {
			if part.Output != nil {
				g.call(escaperFor(part.Output), parser.ApplyFilters(part.Output.Expression, part.Output.Filters))
			} else {
				g.literal(staticAttrText(part.Static))
			}
		}
		g.literal(`"`)
	}
	return nil
}

// staticAttrText keeps literal attribute text as written, only neutralizing
// the delimiter the generator re-quotes with.
func staticAttrText(s string) string {
	return strings.ReplaceAll(s, `"`, "&#34;")
}

// escaperFor maps an output's context to the Buffer method that writes it.
func escaperFor(out *ast.Output) string {
	switch out.Context {
	case ast.ContextAttr:
		return "AttrVal"
	case ast.ContextJS:
		return "JS"
	case ast.ContextURL:
		return "URL"
	case ast.ContextData:
		return "JSON"
	case ast.ContextRaw:
		return "Raw"
	default:
		return "HTML"
	}
}
