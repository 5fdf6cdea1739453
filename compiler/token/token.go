package token

import "fmt"

// Type identifies the lexical class of a token.
type Type int

const (
	// EOF terminates every token sequence.
	EOF Type = iota

	Text    // literal markup text
	TagOpen // <
	TagName
	AttributeName
	Equals     // =
	QuoteOpen  // " or '
	QuoteClose // closing " or '
	AttributeText
	AttributeValueUnquoted
	OutputOpen  // {
	OutputClose // }
	Expression  // trimmed expression text between output braces
	CodeBlockOpen
	Code    // verbatim host code between {% %}
	RawBody // opaque body of a raw element (script, style)
	Comment // <!-- ... -->
	SpecialTag
	Slash    // / inside a tag
	TagClose // >
)

var typeNames = [...]string{
	EOF:                    "EOF",
	Text:                   "TEXT",
	TagOpen:                "TAG_OPEN",
	TagName:                "TAG_NAME",
	AttributeName:          "ATTR_NAME",
	Equals:                 "EQUALS",
	QuoteOpen:              "QUOTE_OPEN",
	QuoteClose:             "QUOTE_CLOSE",
	AttributeText:          "ATTR_TEXT",
	AttributeValueUnquoted: "ATTR_UNQUOTED",
	OutputOpen:             "OUTPUT_OPEN",
	OutputClose:            "OUTPUT_CLOSE",
	Expression:             "EXPRESSION",
	CodeBlockOpen:          "CODE_OPEN",
	Code:                   "CODE",
	RawBody:                "RAW_BODY",
	Comment:                "COMMENT",
	SpecialTag:             "SPECIAL_TAG",
	Slash:                  "SLASH",
	TagClose:               "TAG_CLOSE",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Token is an immutable lexeme with its 1-based source position. Tokens are
// produced once per compile and consumed through a Stream.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
	Column int
}

// Position returns a formatted line:column string for error reporting.
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Lexeme, t.Position())
}
