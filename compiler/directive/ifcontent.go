package directive

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
)

// IfContent compiles a conditional wrapper: the host element's body is
// rendered into a capture first, and the wrapper tag is emitted only when
// that body came out non-empty. Extraction keeps the host element aside
// instead of wrapping it, since the element and its children are emitted
// under different conditions.
func IfContent() *Descriptor {
	return &Descriptor{
		Name:    "ifcontent",
		Kind:    ControlFlow,
		Extract: extractIfContent,
		Compile: compileIfContent,
	}
}

func extractIfContent(el *ast.Element, attrIndex int, ctx *core.Context) (*ast.Directive, error) {
	d := &ast.Directive{Name: "ifcontent"}
	d.SetPosition(el.Position())
	d.Children = el.Children
	d.Claimed = ast.CloneElementWithout(el, attrIndex)
	d.Claimed.Children = nil
	return d, nil
}

func compileIfContent(d *ast.Directive, ctx *core.Context) ([]ast.Node, error) {
	wrapper := d.Claimed
	children := d.Children
	if wrapper == nil {
		// Wrapper-tag form: the single element child is the conditional
		// wrapper and its children are the captured body.
		host, err := hostElement(d)
		if err != nil {
			return nil, err
		}
		wrapper = host
		children = host.Children
		wrapper.Children = nil
	}

	body := ctx.FreshVar("body")
	nodes := []ast.Node{rawf(d, "out.BeginCapture()")}
	nodes = append(nodes, children...)
	nodes = append(nodes, rawf(d, "if %s := out.EndCapture(); %s != \"\" {", body, body))
	wrapper.Children = []ast.Node{rawf(d, "out.Raw(%s)", body)}
	wrapper.SelfClosing = false
	nodes = append(nodes, wrapper)
	nodes = append(nodes, rawf(d, "}"))
	return nodes, nil
}
