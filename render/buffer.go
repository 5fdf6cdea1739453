// Package render is the small runtime library compiled templates call. The
// compiler emits code against Buffer's per-context writers and the value
// helpers here; nothing in this package parses or compiles anything.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Buffer accumulates rendered output. Generated code writes literals through
// Text and dynamic values through the context-specific writers chosen at
// compile time.
type Buffer struct {
	buf   bytes.Buffer
	marks []int
}

// NewBuffer returns an empty output buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Text writes a literal, already-safe string.
func (b *Buffer) Text(s string) {
	b.buf.WriteString(s)
}

// HTML writes a value escaped for HTML body text.
func (b *Buffer) HTML(v any) {
	escapeHTMLInto(&b.buf, Stringify(v))
}

// AttrVal writes a value escaped for a quoted attribute value.
func (b *Buffer) AttrVal(v any) {
	escapeAttrInto(&b.buf, Stringify(v))
}

// JS writes a value escaped for inclusion in a script literal.
func (b *Buffer) JS(v any) {
	b.buf.WriteString(EscapeJS(Stringify(v)))
}

// URL writes a value escaped as a URL component.
func (b *Buffer) URL(v any) {
	b.buf.WriteString(url.QueryEscape(Stringify(v)))
}

// JSON writes a value encoded as JSON. Encoding failures render as null; the
// escaping decision was made at compile time and must not turn into a runtime
// render failure.
func (b *Buffer) JSON(v any) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	// Keep angle brackets literal; close tags are broken below instead, which
	// keeps the payload readable while still inert inside HTML.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		b.buf.WriteString("null")
		return
	}
	data := strings.TrimSuffix(tmp.String(), "\n")
	b.buf.WriteString(strings.ReplaceAll(data, "</", "<\\/"))
}

// Raw writes a value with no escaping.
func (b *Buffer) Raw(v any) {
	b.buf.WriteString(Stringify(v))
}

// BeginCapture starts diverting output so a wrapper can be emitted only when
// its content turns out non-empty. Captures nest.
func (b *Buffer) BeginCapture() {
	b.marks = append(b.marks, b.buf.Len())
}

// EndCapture removes everything written since the matching BeginCapture and
// returns it.
func (b *Buffer) EndCapture() string {
	if len(b.marks) == 0 {
		return ""
	}
	mark := b.marks[len(b.marks)-1]
	b.marks = b.marks[:len(b.marks)-1]
	captured := b.buf.String()[mark:]
	b.buf.Truncate(mark)
	return captured
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int { return b.buf.Len() }

// String returns the rendered output.
func (b *Buffer) String() string { return b.buf.String() }

// Stringify converts a template value to its output string. nil renders empty.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

func escapeHTMLInto(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&#34;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
}

func escapeAttrInto(buf *bytes.Buffer, s string) {
	// Same character set as body escaping; kept separate because the contexts
	// are distinct in the compiler and may diverge.
	escapeHTMLInto(buf, s)
}

// EscapeHTML escapes a string for HTML body text.
func EscapeHTML(s string) string {
	var buf bytes.Buffer
	escapeHTMLInto(&buf, s)
	return buf.String()
}

// EscapeAttr escapes a string for a quoted attribute value.
func EscapeAttr(s string) string {
	var buf bytes.Buffer
	escapeAttrInto(&buf, s)
	return buf.String()
}

// EscapeJS escapes a string for inclusion inside a script string literal.
func EscapeJS(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '\'':
			buf.WriteString(`\'`)
		case '"':
			buf.WriteString(`\"`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '<':
			buf.WriteString(`\u003C`)
		case '>':
			buf.WriteString(`\u003E`)
		case '&':
			buf.WriteString(`\u0026`)
		case '\u2028':
			buf.WriteString(`\u2028`)
		case '\u2029':
			buf.WriteString(`\u2029`)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
