package lexer

import "strings"

// rawRegion is the pre-scanned body of a raw element. The open and close tags
// lex normally; everything between bodyStart and bodyEnd flushes as a single
// opaque RawBody token.
type rawRegion struct {
	bodyStart int
	bodyEnd   int
}

// scanRawRegions walks the source once and records the body span of every
// configured raw element (script, style). Nesting of the same tag is tracked
// so an inner <script> inside a template string does not close the outer one,
// and the hunt for the closing '>' of the open tag ignores quoted attribute
// content.
func (l *Lexer) scanRawRegions() map[int]rawRegion {
	regions := make(map[int]rawRegion)
	src := l.input
	i := 0
	for i < len(src) {
		lt := strings.IndexByte(src[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		tag, ok := rawTagAt(src, i, l.cfg.RawTags)
		if !ok {
			i++
			continue
		}
		open := tagEnd(src, i)
		if open < 0 {
			break // unterminated open tag; lexed as-is later
		}
		if src[open-1] == '/' {
			// Self-closing raw element has no body.
			i = open + 1
			continue
		}
		bodyStart := open + 1
		bodyEnd, after := findRawClose(src, bodyStart, tag, l.cfg.RawTags)
		regions[bodyStart] = rawRegion{bodyStart: bodyStart, bodyEnd: bodyEnd}
		i = after
	}
	return regions
}

// rawTagAt reports whether an opening tag of a configured raw element starts
// at offset i, returning its lowercased name.
func rawTagAt(src string, i int, rawTags map[string]bool) (string, bool) {
	if i+1 >= len(src) || src[i] != '<' || !isNameStart(src[i+1]) {
		return "", false
	}
	j := i + 1
	for j < len(src) && isNameChar(src[j]) {
		j++
	}
	name := strings.ToLower(src[i+1 : j])
	if !rawTags[name] {
		return "", false
	}
	if j < len(src) && src[j] != ' ' && src[j] != '\t' && src[j] != '\n' &&
		src[j] != '\r' && src[j] != '>' && src[j] != '/' {
		return "", false
	}
	return name, true
}

// tagEnd returns the offset of the '>' closing the tag that starts at i,
// skipping over quoted attribute values. Returns -1 when unterminated.
func tagEnd(src string, i int) int {
	var quote byte
	for j := i; j < len(src); j++ {
		ch := src[j]
		if quote != 0 {
			if ch == '\\' {
				j++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '>':
			return j
		}
	}
	return -1
}

// findRawClose locates the matching close tag for a raw element whose body
// starts at bodyStart, tracking same-tag nesting. It returns the body end
// offset and the offset of the close tag itself (where normal lexing
// resumes). An unterminated body runs to end of input.
func findRawClose(src string, bodyStart int, tag string, rawTags map[string]bool) (bodyEnd, closeAt int) {
	depth := 0
	i := bodyStart
	for i < len(src) {
		lt := strings.IndexByte(src[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		if strings.HasPrefix(src[i:], "</") && hasTagName(src, i+2, tag) {
			if depth == 0 {
				return i, i
			}
			depth--
			i += 2 + len(tag)
			continue
		}
		if t, ok := rawTagAt(src, i, rawTags); ok && t == tag {
			depth++
			if end := tagEnd(src, i); end >= 0 {
				i = end + 1
				continue
			}
		}
		i++
	}
	return len(src), len(src)
}

func hasTagName(src string, i int, tag string) bool {
	if i+len(tag) > len(src) {
		return false
	}
	if !strings.EqualFold(src[i:i+len(tag)], tag) {
		return false
	}
	rest := i + len(tag)
	return rest >= len(src) || src[rest] == '>' || src[rest] == ' ' ||
		src[rest] == '\t' || src[rest] == '\n' || src[rest] == '\r'
}

func isNameStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || ('0' <= ch && ch <= '9') || ch == '-' || ch == ':' || ch == '.'
}
