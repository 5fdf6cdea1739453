// Package parser turns a token stream into the typed syntax tree. The parser
// consumes one token of lookahead, never backtracks, and recovers from
// invalid sequences by skipping tokens; semantic validation is deferred to
// the directive compilers.
package parser

import (
	"github.com/sproutlang/sprout/compiler/ast"
	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/diag"
	"github.com/sproutlang/sprout/compiler/token"
)

// MaxDepth caps element nesting; exceeding it is the parser's only error.
const MaxDepth = 512

type parser struct {
	cfg   core.Config
	s     *token.Stream
	depth int
	err   error
}

// Parse consumes tokens into a Document. The only failure mode is
// pathological nesting; all other malformed input is recovered by skipping.
func Parse(tokens []token.Token, ctx *core.Context) (*ast.Document, error) {
	p := &parser{cfg: ctx.Config, s: token.NewStream(tokens)}
	doc := &ast.Document{}
	doc.SetPosition(ast.Pos{Line: 1, Column: 1})
	doc.Children = p.parseNodes("")
	if p.err != nil {
		return nil, p.err
	}
	return doc, nil
}

// parseNodes parses siblings until the closing tag named stop (consumed) or
// EOF. An empty stop parses to EOF.
func (p *parser) parseNodes(stop string) []ast.Node {
	var nodes []ast.Node
	for !p.s.AtEOF() && p.err == nil {
		t := p.s.Current()
		switch t.Type {
		case token.Text:
			p.s.Next()
			nodes = append(nodes, ast.At(&ast.Text{Value: t.Lexeme}, t.Line, t.Column))
		case token.RawBody:
			p.s.Next()
			nodes = append(nodes, ast.At(&ast.RawBody{Value: t.Lexeme}, t.Line, t.Column))
		case token.SpecialTag:
			p.s.Next()
			nodes = append(nodes, ast.At(&ast.RawBody{Value: t.Lexeme}, t.Line, t.Column))
		case token.Comment:
			p.s.Next()
			if p.cfg.KeepComments {
				nodes = append(nodes, ast.At(&ast.Comment{Value: t.Lexeme}, t.Line, t.Column))
			}
		case token.OutputOpen:
			if out := p.parseOutput(); out != nil {
				nodes = append(nodes, out)
			}
		case token.CodeBlockOpen:
			if code := p.parseCodeBlock(); code != nil {
				nodes = append(nodes, code)
			}
		case token.TagOpen:
			if p.s.Peek().Type == token.Slash {
				// closesWith consumes the closing tag either way; a
				// mismatched one is skipped as recovery.
				if p.closesWith(stop) {
					return nodes
				}
				continue
			}
			if el := p.parseTag(); el != nil {
				nodes = append(nodes, el)
			}
		default:
			// Unexpected token; skip and keep going.
			p.s.Next()
		}
	}
	return nodes
}

// closesWith consumes "</stop ...>" when the upcoming closing tag matches,
// reporting whether it did.
func (p *parser) closesWith(stop string) bool {
	p.s.Next() // <
	p.s.Next() // /
	name := ""
	if p.s.Current().Type == token.TagName {
		name = p.s.Current().Lexeme
		p.s.Next()
	}
	for p.s.Current().Type != token.TagClose && !p.s.AtEOF() {
		p.s.Next()
	}
	if p.s.Current().Type == token.TagClose {
		p.s.Next()
	}
	if name == stop {
		return true
	}
	// Mismatched close; it was skipped as recovery either way.
	return false
}

// parseOutput parses "{ expr }" into an Output node, running the filter-chain
// sub-parser on the expression text.
func (p *parser) parseOutput() ast.Node {
	open := p.s.Next() // OutputOpen
	expr := ""
	if p.s.Current().Type == token.Expression {
		expr = p.s.Next().Lexeme
	}
	if p.s.Current().Type == token.OutputClose {
		p.s.Next()
	}
	if expr == "" {
		return nil
	}
	parsed := ParseExpression(expr)
	out := &ast.Output{
		Expression: parsed.Inner,
		Escape:     !parsed.Raw,
		Filters:    parsed.Filters,
	}
	switch {
	case parsed.Raw:
		out.Context = ast.ContextRaw
	case parsed.Data:
		out.Context = ast.ContextData
	}
	return ast.At(out, open.Line, open.Column)
}

func (p *parser) parseCodeBlock() ast.Node {
	open := p.s.Next() // CodeBlockOpen
	if p.s.Current().Type != token.Code {
		return nil
	}
	code := p.s.Next()
	return ast.At(&ast.RawCode{Code: code.Lexeme}, open.Line, open.Column)
}

// parseTag parses an open tag and classifies it as fragment, component, or
// element; non-self-closing forms recurse into children.
func (p *parser) parseTag() ast.Node {
	if p.depth >= MaxDepth {
		t := p.s.Current()
		p.err = diag.Limit(t.Line, t.Column, "element nesting exceeds %d levels", MaxDepth)
		return nil
	}
	open := p.s.Next() // TagOpen
	if p.s.Current().Type != token.TagName {
		return nil // recover: "<" with no name was lexed as text anyway
	}
	name := p.s.Next().Lexeme
	attrs, selfSlash := p.parseAttributes()

	if name == p.cfg.FragmentTag {
		frag := &ast.Fragment{Attributes: attrs}
		if !selfSlash {
			p.depth++
			frag.Children = p.parseNodes(name)
			p.depth--
		}
		return ast.At(frag, open.Line, open.Column)
	}
	if comp, ok := p.cfg.ComponentTag(name); ok {
		c := &ast.Component{Name: comp, Attributes: attrs}
		if !selfSlash {
			p.depth++
			c.Children = p.parseNodes(name)
			p.depth--
		}
		return ast.At(c, open.Line, open.Column)
	}

	el := &ast.Element{Tag: name, Attributes: attrs}
	el.SelfClosing = selfSlash || p.cfg.VoidTags[name]
	if !el.SelfClosing {
		p.depth++
		el.Children = p.parseNodes(name)
		p.depth--
	}
	return ast.At(el, open.Line, open.Column)
}

// parseAttributes reads attributes until the tag closes, reporting whether an
// explicit self-closing slash was present.
func (p *parser) parseAttributes() (attrs []*ast.Attribute, selfClosing bool) {
	for !p.s.AtEOF() {
		switch t := p.s.Current(); t.Type {
		case token.TagClose:
			p.s.Next()
			return attrs, selfClosing
		case token.Slash:
			p.s.Next()
			selfClosing = true
		case token.AttributeName:
			attrs = append(attrs, p.parseAttribute())
		default:
			// Tag never closed; stop at the next construct.
			return attrs, selfClosing
		}
	}
	return attrs, selfClosing
}

func (p *parser) parseAttribute() *ast.Attribute {
	name := p.s.Next() // AttributeName
	attr := &ast.Attribute{Name: name.Lexeme, Line: name.Line, Column: name.Column}
	if p.s.Current().Type != token.Equals {
		attr.Value = ast.BooleanValue()
		return attr
	}
	p.s.Next() // =

	switch p.s.Current().Type {
	case token.AttributeValueUnquoted:
		attr.Value = ast.StaticValue(p.s.Next().Lexeme)
	case token.OutputOpen:
		if out, ok := p.parseOutput().(*ast.Output); ok && out != nil {
			attr.Value = ast.OutputValue(out)
		} else {
			attr.Value = ast.BooleanValue()
		}
	case token.QuoteOpen:
		attr.Value = p.parseQuotedValue()
	default:
		attr.Value = ast.BooleanValue()
	}
	return attr
}

// parseQuotedValue collapses the interleaved literal and output tokens of a
// quoted value into the simplest AttributeValue shape.
func (p *parser) parseQuotedValue() *ast.AttributeValue {
	p.s.Next() // QuoteOpen
	var parts []ast.ValuePart
	for !p.s.AtEOF() {
		switch p.s.Current().Type {
		case token.QuoteClose:
			p.s.Next()
			return ast.PartsValue(parts)
		case token.AttributeText:
			parts = append(parts, ast.ValuePart{Static: p.s.Next().Lexeme})
		case token.OutputOpen:
			if out, ok := p.parseOutput().(*ast.Output); ok && out != nil {
				parts = append(parts, ast.ValuePart{Output: out})
			}
		default:
			// Unterminated value; take what we have.
			return ast.PartsValue(parts)
		}
	}
	return ast.PartsValue(parts)
}
