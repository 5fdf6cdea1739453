package parser

import "strings"

// Expression is the result of splitting an output expression into its inner
// expression and ordered filter chain. The raw and json markers are consumed
// here; they select the output context instead of composing as filters.
type Expression struct {
	Inner   string
	Filters []string
	Raw     bool
	Data    bool
}

// ParseExpression rewrites "expr | filter(...) | filter2" into the inner
// expression plus its filter chain. Pipes inside strings, parentheses,
// brackets, or braces do not split.
func ParseExpression(text string) Expression {
	segments := splitPipes(text)
	expr := Expression{Inner: strings.TrimSpace(segments[0])}
	for _, seg := range segments[1:] {
		filter := strings.TrimSpace(seg)
		switch filter {
		case "":
		case "raw":
			expr.Raw = true
		case "json":
			expr.Data = true
		default:
			expr.Filters = append(expr.Filters, filter)
		}
	}
	return expr
}

// ApplyFilters composes the filter chain as nested function application
// around inner: "x | f | g(1)" becomes g(f(x), 1).
func ApplyFilters(inner string, filters []string) string {
	out := inner
	for _, f := range filters {
		if open := strings.IndexByte(f, '('); open >= 0 && strings.HasSuffix(f, ")") {
			name := strings.TrimSpace(f[:open])
			args := strings.TrimSpace(f[open+1 : len(f)-1])
			if args == "" {
				out = name + "(" + out + ")"
			} else {
				out = name + "(" + out + ", " + args + ")"
			}
			continue
		}
		out = f + "(" + out + ")"
	}
	return out
}

// splitPipes splits on top-level '|' only, honoring quotes and every bracket
// kind, and treating "||" as the logical operator it is.
func splitPipes(text string) []string {
	var segments []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
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
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '|':
			if i+1 < len(text) && text[i+1] == '|' {
				i++
				continue
			}
			if depth == 0 {
				segments = append(segments, text[start:i])
				start = i + 1
			}
		}
	}
	segments = append(segments, text[start:])
	return segments
}
