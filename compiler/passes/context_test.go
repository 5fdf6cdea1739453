package passes

import (
	"testing"

	"github.com/sproutlang/sprout/compiler/ast"
)

func TestAttrContext(t *testing.T) {
	tests := []struct {
		name string
		want ast.OutputContext
	}{
		{"class", ast.ContextAttr},
		{"data-id", ast.ContextAttr},
		{"onclick", ast.ContextJS},
		{"ONCLICK", ast.ContextJS},
		{"on", ast.ContextAttr}, // literally named "on", not a handler
		{"href", ast.ContextURL},
		{"src", ast.ContextURL},
		{"action", ast.ContextURL},
		{"formaction", ast.ContextURL},
	}
	for _, tc := range tests {
		if got := attrContext(tc.name); got != tc.want {
			t.Errorf("attrContext(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestContextAnalysisDoesNotOverrideMarkers(t *testing.T) {
	out := &ast.Output{Expression: "x", Context: ast.ContextRaw}
	attrs := []*ast.Attribute{{Name: "href", Value: ast.OutputValue(out)}}
	assignAttrContexts(attrs)
	if out.Context != ast.ContextRaw {
		t.Errorf("raw marker overridden to %v", out.Context)
	}
}

func TestContextAnalysisAssignsBody(t *testing.T) {
	doc, ctx := parseDoc(t, "{ name }")
	c := NewContextAnalysis()
	out := doc.Children[0].(*ast.Output)
	if _, err := c.Before(out, ctx); err != nil {
		t.Fatal(err)
	}
	if out.Context != ast.ContextBody {
		t.Errorf("body output context = %v, want body", out.Context)
	}
}
