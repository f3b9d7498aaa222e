package token

import (
	"fmt"
	"strings"
)

// Span tracks the location of a lexeme within UnixSoft BASIC source.
type Span struct {
	Line   int // one-based line number
	Column int // one-based column number (rune count)
	Length int // lexeme length in runes
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid reports whether the span points at a real source location.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Kind enumerates lexical categories produced by the lexer.
type Kind int

const (
	EndOfInput Kind = iota

	Number
	StringLiteral
	Identifier
	Keyword
	Operator

	Newline
	Colon
	Comma
	ParenOpen
	ParenClose
	BracketOpen
	BracketClose
)

func (k Kind) String() string {
	switch k {
	case EndOfInput:
		return "end of input"
	case Number:
		return "number"
	case StringLiteral:
		return "string"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Newline:
		return "newline"
	case Colon:
		return ":"
	case Comma:
		return ","
	case ParenOpen:
		return "("
	case ParenClose:
		return ")"
	case BracketOpen:
		return "["
	case BracketClose:
		return "]"
	default:
		return "unknown"
	}
}

// IsDelimiter reports whether k is one of the fixed single-character kinds.
func (k Kind) IsDelimiter() bool {
	return k >= Colon && k <= BracketClose
}

// Token is a single lexical unit produced by the lexer.
//
// Numbers and strings keep their raw source text: string literals include
// both quotes and any escapes verbatim.
type Token struct {
	Kind     Kind
	Text     string // raw lexeme; empty for Newline and EndOfInput
	Offset   int    // zero-based rune offset of the lexeme start
	Span     Span
	Function bool // identifier names a standard-library function
}

func (t Token) String() string {
	switch t.Kind {
	case EndOfInput, Newline:
		return t.Kind.String()
	case Number, StringLiteral, Identifier, Keyword, Operator:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	default:
		return fmt.Sprintf("%q", t.Kind.String())
	}
}

// Is reports whether t is a keyword or operator spelled text, ignoring case.
func (t Token) Is(kind Kind, text string) bool {
	if t.Kind != kind {
		return false
	}
	return strings.EqualFold(t.Text, text)
}
