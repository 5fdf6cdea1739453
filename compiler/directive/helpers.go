package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/parser"
)

// rawf builds a RawCode node at the directive's position.
func rawf(d *ast.Directive, format string, args ...any) *ast.RawCode {
	code := &ast.RawCode{Code: fmt.Sprintf(format, args...)}
	code.SetPosition(d.Position())
	return code
}

// expression returns the directive's trimmed expression, failing when the
// directive requires one and none was written.
func expression(d *ast.Directive) (string, error) {
	expr := strings.TrimSpace(d.Expression)
	if expr == "" {
		pos := d.Position()
		return "", diag.Syntax(pos.Line, pos.Column, "directive %q requires an expression", d.Name)
	}
	return expr, nil
}

// hostElement returns the single element child default extraction wrapped,
// for attribute directives that rewrite their host.
func hostElement(d *ast.Directive) (*ast.Element, error) {
	var host *ast.Element
	for _, child := range d.Children {
		if ast.IsWhitespaceText(child) {
			continue
		}
		el, ok := child.(*ast.Element)
		if !ok || host != nil {
			pos := d.Position()
			return nil, diag.Syntax(pos.Line, pos.Column,
				"directive %q must sit on a single element", d.Name)
		}
		host = el
	}
	if host == nil {
		pos := d.Position()
		return nil, diag.Syntax(pos.Line, pos.Column,
			"directive %q must sit on an element", d.Name)
	}
	return host, nil
}

// valueExprs flattens an attribute value into generated-code expression
// strings, one per segment: literals become quoted strings, dynamic segments
// their filtered expressions.
func valueExprs(v *ast.AttributeValue) []string {
	switch v.Kind {
	case ast.ValueBoolean:
		return nil
	case ast.ValueStatic:
		return []string{strconv.Quote(v.Static)}
	case ast.ValueOutput:
		return []string{parser.ApplyFilters(v.Output.Expression, v.Output.Filters)}
	default:
		exprs := make([]string, 0, len(v.Parts))
		for _, p := range v.Parts {
			if p.Output != nil {
				exprs = append(exprs, parser.ApplyFilters(p.Output.Expression, p.Output.Filters))
			} else {
				exprs = append(exprs, strconv.Quote(p.Static))
			}
		}
		return exprs
	}
}

// findAttr returns the index of a named attribute, or -1.
func findAttr(el *ast.Element, name string) int {
	for i, a := range el.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// removeAttr deletes the attribute at index i in place.
func removeAttr(el *ast.Element, i int) {
	el.Attributes = append(el.Attributes[:i], el.Attributes[i+1:]...)
}

// rawAttrOutput builds the empty-name raw attribute carrying injected
// attribute text (spreads, conditional boolean attributes). The empty name
// tells the generator to emit the expression verbatim inside the open tag.
func rawAttrOutput(expr string, pos ast.Pos) *ast.Attribute {
	out := &ast.Output{Expression: expr, Escape: false, Context: ast.ContextRaw}
	out.SetPosition(pos)
	return &ast.Attribute{
		Name:   "",
		Value:  ast.OutputValue(out),
		Line:   pos.Line,
		Column: pos.Column,
	}
}
