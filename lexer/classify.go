package lexer

import (
	"unicode"

	"github.com/unixsoft/usbasic/profile"
)

// CharType is the lexical class of a single character.
type CharType int

const (
	None CharType = iota
	Numeric
	Alphabetic
	OperatorSymbol
	Delimiter
	Whitespace
	Quote
)

func (ct CharType) String() string {
	switch ct {
	case Numeric:
		return "numeric"
	case Alphabetic:
		return "alphabetic"
	case OperatorSymbol:
		return "operator"
	case Delimiter:
		return "delimiter"
	case Whitespace:
		return "whitespace"
	case Quote:
		return "quote"
	default:
		return "none"
	}
}

// Classify maps r to its CharType under p. The checks run in a fixed
// order: whitespace, letters, ASCII digits, operator symbols, delimiters,
// the double quote. Anything else is None, which the lexer reports as an
// invalid character.
func Classify(p *profile.LanguageProfile, r rune) CharType {
	switch {
	case unicode.IsSpace(r):
		return Whitespace
	case unicode.IsLetter(r):
		return Alphabetic
	case '0' <= r && r <= '9':
		return Numeric
	case p.IsOperatorSymbol(r):
		return OperatorSymbol
	case p.IsDelimiter(r):
		return Delimiter
	case r == '"':
		return Quote
	default:
		return None
	}
}
