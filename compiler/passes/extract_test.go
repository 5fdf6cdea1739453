package passes

import (
	"strings"
	"testing"

	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/directive"
)

func firstElement(t *testing.T, doc *ast.Document) *ast.Element {
	t.Helper()
	for _, n := range doc.Children {
		if el, ok := n.(*ast.Element); ok {
			return el
		}
	}
	t.Fatal("no element in document")
	return nil
}

func TestExtractAttributeDirective(t *testing.T) {
	doc, ctx := parseDoc(t, `<div s:if="ok" class="c">x</div>`)
	el := firstElement(t, doc)

	d, ok, err := extractElement(directive.Default(), el, ctx)
	if err != nil || !ok {
		t.Fatalf("extractElement = %v, %t", err, ok)
	}
	if d.Name != "if" || d.Expression != "ok" {
		t.Fatalf("directive = %q expr %q", d.Name, d.Expression)
	}
	clone, ok := d.Children[0].(*ast.Element)
	if !ok {
		t.Fatalf("directive child = %T, want element", d.Children[0])
	}
	if len(clone.Attributes) != 1 || clone.Attributes[0].Name != "class" {
		t.Errorf("marker attribute survived on clone: %+v", clone.Attributes)
	}
}

func TestExtractWrapperTag(t *testing.T) {
	doc, ctx := parseDoc(t, `<s:if test="ok">x</s:if>`)
	el := firstElement(t, doc)

	d, ok, err := extractElement(directive.Default(), el, ctx)
	if err != nil || !ok {
		t.Fatalf("extractElement = %v, %t", err, ok)
	}
	if d.Name != "if" || d.Expression != "ok" {
		t.Fatalf("directive = %q expr %q", d.Name, d.Expression)
	}
	if len(d.Children) != 1 {
		t.Fatalf("wrapper children = %d, want 1", len(d.Children))
	}
	if _, isText := d.Children[0].(*ast.Text); !isText {
		t.Errorf("wrapper tag was kept as a child: %T", d.Children[0])
	}
}

func TestExtractDynamicExpression(t *testing.T) {
	doc, ctx := parseDoc(t, `<div s:if={user.Active}>x</div>`)
	el := firstElement(t, doc)

	d, _, err := extractElement(directive.Default(), el, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Expression != "user.Active" {
		t.Errorf("expression = %q, want %q", d.Expression, "user.Active")
	}
}

func TestExtractSkipsPassThrough(t *testing.T) {
	doc, ctx := parseDoc(t, `<div s:slot="body">x</div>`)
	el := firstElement(t, doc)

	_, ok, err := extractElement(directive.Default(), el, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("pass-through marker was extracted")
	}
}

func TestExtractUnknownDirectiveSuggests(t *testing.T) {
	doc, ctx := parseDoc(t, `<div s:fro="x in xs">y</div>`)
	el := firstElement(t, doc)

	_, _, err := extractElement(directive.Default(), el, ctx)
	de, ok := err.(*diag.Error)
	if !ok || de.Kind != diag.SyntaxError {
		t.Fatalf("error = %v, want syntax error", err)
	}
	if de.Suggestion != "s:for" {
		t.Errorf("suggestion = %q, want %q", de.Suggestion, "s:for")
	}
	if !strings.Contains(de.Error(), "did you mean") {
		t.Errorf("rendered error lacks suggestion: %s", de.Error())
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"if", "for", "switch", "class"}
	tests := []struct {
		in, want string
	}{
		{"fro", "for"},
		{"swich", "switch"},
		{"clas", "class"},
		{"banana", ""},
	}
	for _, tc := range tests {
		if got := suggest(tc.in, names); got != tc.want {
			t.Errorf("suggest(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
