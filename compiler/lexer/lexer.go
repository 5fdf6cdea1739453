// Package lexer converts template source text into a flat token sequence. The
// lexer never fails: malformed or unterminated input flushes as whatever token
// was in progress, and validity is judged by later stages.
package lexer

import (
	"strings"

	"github.com/sproutlang/sprout/compiler/core"
	"github.com/sproutlang/sprout/compiler/token"
)

// Lexer tokenizes one source string per Lex call. All per-source state resets
// at each call, so a single Lexer is re-entrant across sequential compiles;
// concurrent compiles take separate instances.
type Lexer struct {
	cfg core.Config

	input   string
	pos     int
	line    int
	column  int
	tokens  []token.Token
	offsets *offsetTable
	raw     map[int]rawRegion
}

// New creates a lexer for the given syntax configuration.
func New(cfg core.Config) *Lexer {
	return &Lexer{cfg: cfg}
}

// Lex converts source into a token sequence ending in EOF.
func (l *Lexer) Lex(source string) []token.Token {
	l.input = source
	l.pos = 0
	l.line = 1
	l.column = 1
	l.tokens = nil
	l.offsets = sharedOffsets.get(source)
	l.raw = l.scanRawRegions()

	for l.pos < len(l.input) {
		l.lexNext()
	}
	l.emitAt(token.EOF, "", l.line, l.column)
	return l.tokens
}

func (l *Lexer) lexNext() {
	if region, ok := l.raw[l.pos]; ok {
		line, col := l.line, l.column
		body := l.input[region.bodyStart:region.bodyEnd]
		if body != "" {
			l.emitAt(token.RawBody, body, line, col)
		}
		l.jump(region.bodyEnd)
		return
	}

	ch := l.input[l.pos]
	switch {
	case ch == '{' && l.isCodeOpen():
		l.lexCodeBlock()
	case ch == '{':
		l.lexOutput()
	case ch == '<' && strings.HasPrefix(l.input[l.pos:], "<!--"):
		l.lexComment()
	case ch == '<' && l.pos+1 < len(l.input) && (l.input[l.pos+1] == '!' || l.input[l.pos+1] == '?'):
		l.lexSpecialTag()
	case ch == '<' && l.isTagStart():
		l.lexTag()
	default:
		l.lexText()
	}
}

// isCodeOpen reports whether a code block starts at the cursor. A "{%"
// immediately followed by '%' or '=' belongs to a longer marker and is not a
// code open.
func (l *Lexer) isCodeOpen() bool {
	if !strings.HasPrefix(l.input[l.pos:], "{%") {
		return false
	}
	if l.pos+2 < len(l.input) {
		next := l.input[l.pos+2]
		if next == '%' || next == '=' {
			return false
		}
	}
	return true
}

func (l *Lexer) isTagStart() bool {
	if l.pos+1 >= len(l.input) {
		return false
	}
	next := l.input[l.pos+1]
	return isNameStart(next) || next == '/'
}

// lexText accumulates literal text up to the next markup or output boundary.
// "\{" escapes a literal brace; a "<" that cannot start a tag stays text.
func (l *Lexer) lexText() {
	line, col := l.line, l.column
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '{' {
			b.WriteByte('{')
			l.advance(2)
			continue
		}
		if ch == '{' {
			break
		}
		if ch == '<' {
			if _, inRaw := l.raw[l.pos]; inRaw {
				break
			}
			if l.isTagStart() || strings.HasPrefix(l.input[l.pos:], "<!") ||
				strings.HasPrefix(l.input[l.pos:], "<?") {
				break
			}
		}
		b.WriteByte(ch)
		l.advance(1)
	}
	if b.Len() > 0 {
		l.emitAt(token.Text, b.String(), line, col)
	}
}

// lexOutput lexes "{ expr }" into OutputOpen, Expression, OutputClose. The
// terminator search tracks nested braces and quoted strings; leading and
// trailing whitespace around the expression is trimmed. Unterminated output
// flushes the remaining input as the expression.
func (l *Lexer) lexOutput() {
	l.emitAt(token.OutputOpen, "{", l.line, l.column)
	l.advance(1)
	l.skipSpace()

	exprLine, exprCol := l.line, l.column
	start := l.pos
	depth := 0
	var quote byte
	end := -1
	for i := l.pos; i < len(l.input); i++ {
		ch := l.input[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '{':
			depth++
		case '}':
			if depth == 0 {
				end = i
			} else {
				depth--
			}
		}
		if end >= 0 {
			break
		}
	}

	if end < 0 {
		expr := strings.TrimRight(l.input[start:], " \t\r\n")
		if expr != "" {
			l.emitAt(token.Expression, expr, exprLine, exprCol)
		}
		l.jump(len(l.input))
		return
	}
	expr := strings.TrimRight(l.input[start:end], " \t\r\n")
	if expr != "" {
		l.emitAt(token.Expression, expr, exprLine, exprCol)
	}
	l.jump(end)
	l.emitAt(token.OutputClose, "}", l.line, l.column)
	l.advance(1)
}

// lexCodeBlock lexes "{% stmts %}" into CodeBlockOpen and Code.
func (l *Lexer) lexCodeBlock() {
	l.emitAt(token.CodeBlockOpen, "{%", l.line, l.column)
	l.advance(2)
	l.skipSpace()
	line, col := l.line, l.column
	rel := strings.Index(l.input[l.pos:], "%}")
	if rel < 0 {
		code := strings.TrimRight(l.input[l.pos:], " \t\r\n")
		if code != "" {
			l.emitAt(token.Code, code, line, col)
		}
		l.jump(len(l.input))
		return
	}
	code := strings.TrimRight(l.input[l.pos:l.pos+rel], " \t\r\n")
	if code != "" {
		l.emitAt(token.Code, code, line, col)
	}
	l.jump(l.pos + rel + 2)
}

func (l *Lexer) lexComment() {
	line, col := l.line, l.column
	body := l.input[l.pos+4:]
	rel := strings.Index(body, "-->")
	if rel < 0 {
		l.emitAt(token.Comment, body, line, col)
		l.jump(len(l.input))
		return
	}
	l.emitAt(token.Comment, body[:rel], line, col)
	l.jump(l.pos + 4 + rel + 3)
}

// lexSpecialTag flushes "<!DOCTYPE ...>" and "<?...?>" as one opaque token.
func (l *Lexer) lexSpecialTag() {
	line, col := l.line, l.column
	if strings.HasPrefix(l.input[l.pos:], "<?") {
		rel := strings.Index(l.input[l.pos:], "?>")
		if rel < 0 {
			l.emitAt(token.SpecialTag, l.input[l.pos:], line, col)
			l.jump(len(l.input))
			return
		}
		l.emitAt(token.SpecialTag, l.input[l.pos:l.pos+rel+2], line, col)
		l.jump(l.pos + rel + 2)
		return
	}
	end := tagEnd(l.input, l.pos)
	if end < 0 {
		l.emitAt(token.SpecialTag, l.input[l.pos:], line, col)
		l.jump(len(l.input))
		return
	}
	l.emitAt(token.SpecialTag, l.input[l.pos:end+1], line, col)
	l.jump(end + 1)
}

// lexTag lexes a tag from "<" through ">": name, attributes, slashes. EOF in
// mid-tag flushes whatever was read; the parser recovers.
func (l *Lexer) lexTag() {
	l.emitAt(token.TagOpen, "<", l.line, l.column)
	l.advance(1)
	if l.pos < len(l.input) && l.input[l.pos] == '/' {
		l.emitAt(token.Slash, "/", l.line, l.column)
		l.advance(1)
	}
	l.lexTagName()

	for l.pos < len(l.input) {
		l.skipSpace()
		if l.pos >= len(l.input) {
			return
		}
		switch ch := l.input[l.pos]; {
		case ch == '>':
			l.emitAt(token.TagClose, ">", l.line, l.column)
			l.advance(1)
			return
		case ch == '/':
			l.emitAt(token.Slash, "/", l.line, l.column)
			l.advance(1)
		case ch == '<':
			// Unterminated tag; let the next construct lex normally.
			return
		default:
			l.lexAttribute()
		}
	}
}

func (l *Lexer) lexTagName() {
	line, col := l.line, l.column
	start := l.pos
	for l.pos < len(l.input) && isNameChar(l.input[l.pos]) {
		l.advance(1)
	}
	if l.pos > start {
		l.emitAt(token.TagName, l.input[start:l.pos], line, col)
	}
}

func (l *Lexer) lexAttribute() {
	line, col := l.line, l.column
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '=' || ch == '>' || ch == '/' || ch == '<' || isSpace(ch) {
			break
		}
		l.advance(1)
	}
	if l.pos == start {
		// Not a name character; skip it so the tag loop cannot stall.
		l.advance(1)
		return
	}
	l.emitAt(token.AttributeName, l.input[start:l.pos], line, col)

	l.skipSpace()
	if l.pos >= len(l.input) || l.input[l.pos] != '=' {
		return // boolean attribute
	}
	l.emitAt(token.Equals, "=", l.line, l.column)
	l.advance(1)
	l.skipSpace()
	if l.pos >= len(l.input) {
		return
	}

	switch ch := l.input[l.pos]; {
	case ch == '"' || ch == '\'':
		l.lexQuotedValue(ch)
	case ch == '{':
		// Inline output expression as the whole value; no quote scanning.
		l.lexOutput()
	default:
		l.lexUnquotedValue()
	}
}

// lexQuotedValue interleaves literal AttributeText with embedded output
// expressions, tracking escaped quotes, until the closing quote.
func (l *Lexer) lexQuotedValue(quote byte) {
	l.emitAt(token.QuoteOpen, string(quote), l.line, l.column)
	l.advance(1)

	line, col := l.line, l.column
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			l.emitAt(token.AttributeText, b.String(), line, col)
			b.Reset()
		}
	}
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == '\\' && l.pos+1 < len(l.input) &&
			(l.input[l.pos+1] == quote || l.input[l.pos+1] == '\\' || l.input[l.pos+1] == '{'):
			b.WriteByte(l.input[l.pos+1])
			l.advance(2)
		case ch == quote:
			flush()
			l.emitAt(token.QuoteClose, string(quote), l.line, l.column)
			l.advance(1)
			return
		case ch == '{':
			flush()
			l.lexOutput()
			line, col = l.line, l.column
		default:
			b.WriteByte(ch)
			l.advance(1)
		}
	}
	flush() // unterminated value
}

func (l *Lexer) lexUnquotedValue() {
	line, col := l.line, l.column
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isSpace(ch) || ch == '>' || ch == '/' || ch == '<' {
			break
		}
		l.advance(1)
	}
	if l.pos > start {
		l.emitAt(token.AttributeValueUnquoted, l.input[start:l.pos], line, col)
	}
}

// advance consumes n bytes, updating line and column incrementally.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// jump moves the cursor to an absolute offset, recovering the position from
// the precomputed line-offset table instead of rescanning.
func (l *Lexer) jump(to int) {
	l.pos = to
	if to >= len(l.input) {
		to = len(l.input)
	}
	l.line, l.column = l.offsets.position(to)
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.advance(1)
	}
}

func (l *Lexer) emitAt(t token.Type, lexeme string, line, column int) {
	l.tokens = append(l.tokens, token.Token{Type: t, Lexeme: lexeme, Line: line, Column: column})
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}
