package directive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
)

// Class compiles a dynamic class attribute. A static class the element already
// carries is not replaced; both are combined through render.Classes, so
// `class="card" s:class="{active}"` keeps "card".
func Class() *Descriptor {
	return &Descriptor{
		Name: "class",
		Kind: Attribute,
		Merge: &MergePolicy{
			Target:     "class",
			Mode:       MergeCombine,
			Combinator: "render.Classes",
		},
	}
}

// Spread compiles an attribute spread: a map rendered as attribute pairs,
// excluding names the element already carries explicitly.
func Spread() *Descriptor {
	return &Descriptor{
		Name: "attrs",
		Kind: Attribute,
		Merge: &MergePolicy{
			Mode:       MergeSpreadExclude,
			Combinator: "render.Attrs",
		},
	}
}

// BoolAttr builds the descriptor for a conditional boolean attribute such as
// disabled or checked: present when the expression is truthy, absent otherwise.
func BoolAttr(name string) *Descriptor {
	return &Descriptor{
		Name: name,
		Kind: Attribute,
		Merge: &MergePolicy{
			Target:     name,
			Mode:       MergeReplace,
			Combinator: "render.BoolAttr",
		},
	}
}

// mergeCompile derives an attribute compiler from a declared policy. Every
// Attribute directive that states a MergePolicy, built-in or registered by a
// caller, compiles through here.
func mergeCompile(policy *MergePolicy) CompileFunc {
	return func(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
		expr, err := expression(d)
		if err != nil {
			return nil, err
		}
		host, err := hostElement(d)
		if err != nil {
			return nil, err
		}
		pos := d.Position()

		switch policy.Mode {
		case MergeCombine:
			var args []string
			if i := findAttr(host, policy.Target); i >= 0 {
				args = append(args, valueExprs(host.Attributes[i].Value)...)
				removeAttr(host, i)
			}
			args = append(args, expr)
			out := &ast.Output{
				Expression: fmt.Sprintf("%s(%s)", policy.Combinator, strings.Join(args, ", ")),
				Escape:     true,
			}
			out.SetPosition(pos)
			host.Attributes = append(host.Attributes, &ast.Attribute{
				Name:   policy.Target,
				Value:  ast.OutputValue(out),
				Line:   pos.Line,
				Column: pos.Column,
			})

		case MergeSpreadExclude:
			// Explicit attributes win over spread entries of the same name.
			args := []string{expr}
			for _, a := range host.Attributes {
				if a.Name != "" {
					args = append(args, strconv.Quote(a.Name))
				}
			}
			call := fmt.Sprintf("%s(%s)", policy.Combinator, strings.Join(args, ", "))
			host.Attributes = append(host.Attributes, rawAttrOutput(call, pos))

		case MergeReplace:
			// The dynamic form replaces any static attribute of the same name.
			if i := findAttr(host, policy.Target); i >= 0 {
				removeAttr(host, i)
			}
			call := fmt.Sprintf("%s(%q, %s)", policy.Combinator, policy.Target, expr)
			host.Attributes = append(host.Attributes, rawAttrOutput(call, pos))
		}
		return []ast.Node{host}, nil
	}
}
