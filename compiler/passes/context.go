package passes

import (
	"strings"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/pipeline"
)

// urlAttrs are the attribute names whose dynamic values escape as URL
// components.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
}

// ContextAnalysis assigns each dynamic output its escaping context from the
// syntactic position it appears in. Explicit raw and json markers were already
// decided at parse time and are never overridden.
type ContextAnalysis struct {
	pipeline.Hooks
}

// NewContextAnalysis builds the context-analysis stage.
func NewContextAnalysis() *ContextAnalysis {
	return &ContextAnalysis{}
}

func (c *ContextAnalysis) Name() string { return "context" }

func (c *ContextAnalysis) Before(n ast.Node, ctx *core.Context) (pipeline.Action, error) {
	switch t := n.(type) {
	case *ast.Output:
		// Outputs reached through traversal sit in body position; attribute
		// outputs hang off elements and are assigned below.
		if t.Context == ast.ContextUnset {
			t.Context = ast.ContextBody
		}
	case *ast.Element:
		assignAttrContexts(t.Attributes)
	case *ast.Fragment:
		assignAttrContexts(t.Attributes)
	case *ast.Component:
		assignAttrContexts(t.Attributes)
	}
	return pipeline.None(), nil
}

func assignAttrContexts(attrs []*ast.Attribute) {
	for _, a := range attrs {
		octx := attrContext(a.Name)
		switch a.Value.Kind {
		case ast.ValueOutput:
			setContext(a.Value.Output, octx)
		case ast.ValueParts:
			for _, part := range a.Value.Parts {
				if part.Output != nil {
					setContext(part.Output, octx)
				}
			}
		}
	}
}

// attrContext picks the escaper for a dynamic value inside the named
// attribute: event handlers escape as script text, navigation attributes as
// URL components, everything else as attribute text.
func attrContext(name string) ast.OutputContext {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "on") && len(lower) > 2 {
		return ast.ContextJS
	}
	if urlAttrs[lower] {
		return ast.ContextURL
	}
	return ast.ContextAttr
}

func setContext(out *ast.Output, octx ast.OutputContext) {
	if out.Context == ast.ContextUnset {
		out.Context = octx
	}
}
