package diag

import (
	"fmt"
	"strings"
)

// Kind categorizes compilation failures.
type Kind int

const (
	// SyntaxError reports a malformed directive expression or construct:
	// missing iteration clause, case without a value, duplicate default,
	// unknown directive name.
	SyntaxError Kind = iota
	// UnsupportedNodeError reports a node variant the code generator has no
	// rule for. Defensive; a correct pipeline never produces one.
	UnsupportedNodeError
	// LimitError reports an exhausted defensive bound (recursion depth,
	// restart replay iterations).
	LimitError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case UnsupportedNodeError:
		return "unsupported node"
	case LimitError:
		return "limit exceeded"
	default:
		return "error"
	}
}

// Error is a positional compilation error. Every fatal error produced by the
// compiler carries the template path and the exact source line and column.
type Error struct {
	Kind       Kind
	Message    string
	Path       string
	Line       int
	Column     int
	Source     string // full template source, for snippet rendering
	Suggestion string // optional "did you mean" replacement
	Cause      error
}

// Error renders the message with location and, when the source is available, a
// caret snippet pointing at the offending column.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, "\n  --> %s:%d:%d", e.Path, e.Line, e.Column)
	} else if e.Line > 0 {
		fmt.Fprintf(&b, "\n  --> %d:%d", e.Line, e.Column)
	}
	if snippet := e.Snippet(); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Snippet returns the source line with a caret under the error column, or ""
// when no source is attached.
func (e *Error) Snippet() string {
	if e.Source == "" || e.Line <= 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}
	content := lines[e.Line-1]
	var b strings.Builder
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", e.Line, content)
	b.WriteString("   | ")
	if e.Column > 0 && e.Column <= len(content)+1 {
		b.WriteString(strings.Repeat(" ", e.Column-1))
	}
	b.WriteString("^")
	return b.String()
}

// New creates a positional error.
func New(kind Kind, line, column int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}

// Syntax creates a SyntaxError at the given position.
func Syntax(line, column int, format string, args ...any) *Error {
	return New(SyntaxError, line, column, format, args...)
}

// Unsupported creates an UnsupportedNodeError at the given position.
func Unsupported(line, column int, format string, args ...any) *Error {
	return New(UnsupportedNodeError, line, column, format, args...)
}

// Limit creates a LimitError at the given position.
func Limit(line, column int, format string, args ...any) *Error {
	return New(LimitError, line, column, format, args...)
}

// WithSource attaches the template path and source text so the rendered error
// can include a snippet. Returns e for chaining.
func (e *Error) WithSource(path, source string) *Error {
	e.Path = path
	e.Source = source
	return e
}

// WithSuggestion attaches a "did you mean" replacement. Returns e for chaining.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if de, ok := err.(*Error); ok {
		return de.Kind == kind
	}
	return false
}
