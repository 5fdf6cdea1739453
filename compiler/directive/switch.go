package directive

import (
	"strings"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
)

// Switch compiles a multi-way branch. Its element children carry case and
// default markers; the switch claims them directly, so case and default
// never compile freestanding.
func Switch() *Descriptor {
	return &Descriptor{
		Name:      "switch",
		Kind:      ControlFlow,
		ClaimAttr: "on",
		Compile:   compileSwitch,
	}
}

// Case marks one branch of an enclosing switch.
func Case() *Descriptor {
	return &Descriptor{
		Name:    "case",
		Kind:    ControlFlow,
		Compile: compileOrphan("case", "switch"),
	}
}

// CaseDefault marks the default branch of an enclosing switch.
func CaseDefault() *Descriptor {
	return &Descriptor{
		Name:    "default",
		Kind:    ControlFlow,
		Compile: compileOrphan("default", "switch"),
	}
}

func compileSwitch(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
	expr, err := expression(d)
	if err != nil {
		return nil, err
	}
	prefix := ctx.Config.Prefix + ":"
	caseAttr := prefix + "case"
	defaultAttr := prefix + "default"

	// Attribute form: the host element is emitted once and the switch runs
	// over its children. Wrapper-tag form switches over the directive's own
	// children directly.
	branches := d.Children
	var wrapper *ast.Element
	if host, err := hostElement(d); err == nil &&
		findAttr(host, caseAttr) < 0 && findAttr(host, defaultAttr) < 0 {
		wrapper = host
		branches = host.Children
	}

	nodes := []ast.Node{rawf(d, "switch %s {", expr)}
	seenDefault := false
	for _, child := range branches {
		if ast.IsWhitespaceText(child) {
			continue
		}
		el, ok := child.(*ast.Element)
		if !ok {
			pos := child.Position()
			return nil, diag.Syntax(pos.Line, pos.Column,
				"switch accepts only elements marked with %s or %s", caseAttr, defaultAttr)
		}
		if i := findAttr(el, caseAttr); i >= 0 {
			value := strings.TrimSpace(caseValue(el.Attributes[i].Value))
			if value == "" {
				return nil, diag.Syntax(el.Attributes[i].Line, el.Attributes[i].Column,
					"case requires a value")
			}
			removeAttr(el, i)
			nodes = append(nodes, rawf(d, "case %s:", value))
			nodes = append(nodes, el)
			continue
		}
		if i := findAttr(el, defaultAttr); i >= 0 {
			if seenDefault {
				return nil, diag.Syntax(el.Attributes[i].Line, el.Attributes[i].Column,
					"switch has more than one default branch")
			}
			seenDefault = true
			removeAttr(el, i)
			nodes = append(nodes, rawf(d, "default:"))
			nodes = append(nodes, el)
			continue
		}
		pos := el.Position()
		return nil, diag.Syntax(pos.Line, pos.Column,
			"switch accepts only elements marked with %s or %s", caseAttr, defaultAttr)
	}
	nodes = append(nodes, rawf(d, "}"))
	if wrapper != nil {
		wrapper.Children = nodes
		return []ast.Node{wrapper}, nil
	}
	return nodes, nil
}

// caseValue reads the case expression: a static literal compiles to a quoted
// string, a dynamic value to its expression.
func caseValue(v *ast.AttributeValue) string {
	exprs := valueExprs(v)
	if len(exprs) != 1 {
		return ""
	}
	return exprs[0]
}
