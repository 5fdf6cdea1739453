package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/token"
)

func lex(t *testing.T, source string) []token.Token {
	t.Helper()
	return New(core.DefaultConfig()).Lex(source)
}

func TestLexBasics(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []token.Token
	}{
		{
			name:   "plain text",
			source: "Hello",
			want: []token.Token{
				{Type: token.Text, Lexeme: "Hello", Line: 1, Column: 1},
				{Type: token.EOF, Line: 1, Column: 6},
			},
		},
		{
			name:   "output with filter pipe stays one expression",
			source: "{ name | upper }",
			want: []token.Token{
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 1},
				{Type: token.Expression, Lexeme: "name | upper", Line: 1, Column: 3},
				{Type: token.OutputClose, Lexeme: "}", Line: 1, Column: 16},
				{Type: token.EOF, Line: 1, Column: 17},
			},
		},
		{
			name:   "escaped brace is literal text",
			source: `\{literal}`,
			want: []token.Token{
				{Type: token.Text, Lexeme: "{literal}", Line: 1, Column: 1},
				{Type: token.EOF, Line: 1, Column: 11},
			},
		},
		{
			name:   "output terminator ignores braces in strings",
			source: `{ f("}") }`,
			want: []token.Token{
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 1},
				{Type: token.Expression, Lexeme: `f("}")`, Line: 1, Column: 3},
				{Type: token.OutputClose, Lexeme: "}", Line: 1, Column: 10},
				{Type: token.EOF, Line: 1, Column: 11},
			},
		},
		{
			name:   "output terminator tracks nested braces",
			source: "{ map[string]int{} }",
			want: []token.Token{
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 1},
				{Type: token.Expression, Lexeme: "map[string]int{}", Line: 1, Column: 3},
				{Type: token.OutputClose, Lexeme: "}", Line: 1, Column: 20},
				{Type: token.EOF, Line: 1, Column: 21},
			},
		},
		{
			name:   "code block",
			source: "{% x := 1 %}",
			want: []token.Token{
				{Type: token.CodeBlockOpen, Lexeme: "{%", Line: 1, Column: 1},
				{Type: token.Code, Lexeme: "x := 1", Line: 1, Column: 4},
				{Type: token.EOF, Line: 1, Column: 13},
			},
		},
		{
			name:   "double percent is not a code open",
			source: "{%% x",
			want: []token.Token{
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 1},
				{Type: token.Expression, Lexeme: "%% x", Line: 1, Column: 2},
				{Type: token.EOF, Line: 1, Column: 6},
			},
		},
		{
			name:   "comment",
			source: "<!-- hi -->",
			want: []token.Token{
				{Type: token.Comment, Lexeme: " hi ", Line: 1, Column: 1},
				{Type: token.EOF, Line: 1, Column: 12},
			},
		},
		{
			name:   "doctype is one opaque token",
			source: "<!DOCTYPE html>",
			want: []token.Token{
				{Type: token.SpecialTag, Lexeme: "<!DOCTYPE html>", Line: 1, Column: 1},
				{Type: token.EOF, Line: 1, Column: 16},
			},
		},
		{
			name:   "lone angle bracket stays text",
			source: "a < b",
			want: []token.Token{
				{Type: token.Text, Lexeme: "a < b", Line: 1, Column: 1},
				{Type: token.EOF, Line: 1, Column: 6},
			},
		},
		{
			name:   "unterminated output flushes",
			source: "{ name",
			want: []token.Token{
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 1},
				{Type: token.Expression, Lexeme: "name", Line: 1, Column: 3},
				{Type: token.EOF, Line: 1, Column: 7},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lex(t, tc.source)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexTags(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []token.Token
	}{
		{
			name:   "attribute with embedded output",
			source: `<a href="/u/{id}">x</a>`,
			want: []token.Token{
				{Type: token.TagOpen, Lexeme: "<", Line: 1, Column: 1},
				{Type: token.TagName, Lexeme: "a", Line: 1, Column: 2},
				{Type: token.AttributeName, Lexeme: "href", Line: 1, Column: 4},
				{Type: token.Equals, Lexeme: "=", Line: 1, Column: 8},
				{Type: token.QuoteOpen, Lexeme: `"`, Line: 1, Column: 9},
				{Type: token.AttributeText, Lexeme: "/u/", Line: 1, Column: 10},
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 13},
				{Type: token.Expression, Lexeme: "id", Line: 1, Column: 14},
				{Type: token.OutputClose, Lexeme: "}", Line: 1, Column: 16},
				{Type: token.QuoteClose, Lexeme: `"`, Line: 1, Column: 17},
				{Type: token.TagClose, Lexeme: ">", Line: 1, Column: 18},
				{Type: token.Text, Lexeme: "x", Line: 1, Column: 19},
				{Type: token.TagOpen, Lexeme: "<", Line: 1, Column: 20},
				{Type: token.Slash, Lexeme: "/", Line: 1, Column: 21},
				{Type: token.TagName, Lexeme: "a", Line: 1, Column: 22},
				{Type: token.TagClose, Lexeme: ">", Line: 1, Column: 23},
				{Type: token.EOF, Line: 1, Column: 24},
			},
		},
		{
			name:   "boolean and unquoted attributes",
			source: `<input disabled value=3>`,
			want: []token.Token{
				{Type: token.TagOpen, Lexeme: "<", Line: 1, Column: 1},
				{Type: token.TagName, Lexeme: "input", Line: 1, Column: 2},
				{Type: token.AttributeName, Lexeme: "disabled", Line: 1, Column: 8},
				{Type: token.AttributeName, Lexeme: "value", Line: 1, Column: 17},
				{Type: token.Equals, Lexeme: "=", Line: 1, Column: 22},
				{Type: token.AttributeValueUnquoted, Lexeme: "3", Line: 1, Column: 23},
				{Type: token.TagClose, Lexeme: ">", Line: 1, Column: 24},
				{Type: token.EOF, Line: 1, Column: 25},
			},
		},
		{
			name:   "unquoted output value",
			source: `<div s:if={ok}/>`,
			want: []token.Token{
				{Type: token.TagOpen, Lexeme: "<", Line: 1, Column: 1},
				{Type: token.TagName, Lexeme: "div", Line: 1, Column: 2},
				{Type: token.AttributeName, Lexeme: "s:if", Line: 1, Column: 6},
				{Type: token.Equals, Lexeme: "=", Line: 1, Column: 10},
				{Type: token.OutputOpen, Lexeme: "{", Line: 1, Column: 11},
				{Type: token.Expression, Lexeme: "ok", Line: 1, Column: 12},
				{Type: token.OutputClose, Lexeme: "}", Line: 1, Column: 14},
				{Type: token.Slash, Lexeme: "/", Line: 1, Column: 15},
				{Type: token.TagClose, Lexeme: ">", Line: 1, Column: 16},
				{Type: token.EOF, Line: 1, Column: 17},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := lex(t, tc.source)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexRawRegions(t *testing.T) {
	source := `<script>var a = "<div>";</script>`
	want := []token.Token{
		{Type: token.TagOpen, Lexeme: "<", Line: 1, Column: 1},
		{Type: token.TagName, Lexeme: "script", Line: 1, Column: 2},
		{Type: token.TagClose, Lexeme: ">", Line: 1, Column: 8},
		{Type: token.RawBody, Lexeme: `var a = "<div>";`, Line: 1, Column: 9},
		{Type: token.TagOpen, Lexeme: "<", Line: 1, Column: 25},
		{Type: token.Slash, Lexeme: "/", Line: 1, Column: 26},
		{Type: token.TagName, Lexeme: "script", Line: 1, Column: 27},
		{Type: token.TagClose, Lexeme: ">", Line: 1, Column: 33},
		{Type: token.EOF, Line: 1, Column: 34},
	}
	got := lex(t, source)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestLexRawRegionOutputsAreOpaque(t *testing.T) {
	got := lex(t, "<style>a { color: red }</style>")
	for _, tok := range got {
		if tok.Type == token.OutputOpen {
			t.Fatalf("style body produced an output token: %+v", got)
		}
	}
}

func TestLexerIsReentrant(t *testing.T) {
	l := New(core.DefaultConfig())
	first := l.Lex("a")
	second := l.Lex("bb")
	if len(first) != 2 || first[0].Lexeme != "a" {
		t.Errorf("first lex corrupted: %+v", first)
	}
	if len(second) != 2 || second[0].Lexeme != "bb" {
		t.Errorf("second lex: %+v", second)
	}
}
