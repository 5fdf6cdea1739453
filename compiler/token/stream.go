package token

// Stream is a forward-only cursor over a token slice with one token of
// lookahead. Reading past the end yields the final EOF token forever, so
// callers never need a bounds check.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream wraps tokens in a cursor. The slice must end in an EOF token; an
// empty slice gets a synthetic one.
func NewStream(tokens []Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF, Line: 1, Column: 1})
	}
	return &Stream{tokens: tokens}
}

// Current returns the token under the cursor without consuming it.
func (s *Stream) Current() Token {
	return s.tokens[s.index(s.pos)]
}

// Peek returns the token after the current one without consuming anything.
func (s *Stream) Peek() Token {
	return s.tokens[s.index(s.pos+1)]
}

// Next consumes and returns the current token.
func (s *Stream) Next() Token {
	t := s.Current()
	if s.pos < len(s.tokens) {
		s.pos++
	}
	return t
}

// AtEOF reports whether the cursor has reached the end of input.
func (s *Stream) AtEOF() bool {
	return s.Current().Type == EOF
}

// Len returns the total number of tokens, EOF included.
func (s *Stream) Len() int { return len(s.tokens) }

func (s *Stream) index(i int) int {
	if i >= len(s.tokens) {
		return len(s.tokens) - 1
	}
	return i
}
