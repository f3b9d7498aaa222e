package lexer

import (
	"strings"

	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/profile"
	"github.com/unixsoft/usbasic/token"
)

// Cursor walks the characters of a source text, tracking line and column.
type Cursor struct {
	src     []rune
	pos     int
	line    int
	column  int
	profile *profile.LanguageProfile
}

// Word is a run of characters sharing one CharType.
type Word struct {
	Span token.Span
	Type CharType // type of the first character
	Text string
}

// NewCursor positions a cursor at the first character of src.
func NewCursor(src string, p *profile.LanguageProfile) *Cursor {
	return &Cursor{
		src:     []rune(src),
		line:    1,
		column:  1,
		profile: p,
	}
}

// Current returns the character under the cursor; ok is false at the end.
func (c *Cursor) Current() (r rune, ok bool) {
	return c.Peek(0)
}

// Peek looks offset characters ahead without consuming anything.
func (c *Cursor) Peek(offset int) (rune, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0, false
	}
	return c.src[i], true
}

// Offset returns the flat rune offset of the current character.
func (c *Cursor) Offset() int {
	return c.pos
}

// Span returns a zero-length span at the current character.
func (c *Cursor) Span() token.Span {
	return token.Span{Line: c.line, Column: c.column}
}

// AtEnd reports whether every character has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.src)
}

// Advance consumes exactly one character.
func (c *Cursor) Advance() {
	if c.AtEnd() {
		return
	}
	if c.src[c.pos] == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}
	c.pos++
}

// Skip advances n characters, stopping early at the end of input.
func (c *Cursor) Skip(n int) {
	for ; n > 0 && !c.AtEnd(); n-- {
		c.Advance()
	}
}

// ConsumeWhitespace skips horizontal whitespace. Newlines are tokens and
// stay in place.
func (c *Cursor) ConsumeWhitespace() {
	for {
		r, ok := c.Current()
		if !ok || r == '\n' || Classify(c.profile, r) != Whitespace {
			return
		}
		c.Advance()
	}
}

// PeekWord returns the run starting at the current character without
// consuming it. A letter run may continue into digits, so PRINT5 is one
// word; any other change of CharType ends the run.
func (c *Cursor) PeekWord() (Word, bool) {
	r, ok := c.Current()
	if !ok {
		return Word{}, false
	}
	first := Classify(c.profile, r)
	if first == Whitespace {
		return Word{}, false
	}
	n := 1
	for {
		next, ok := c.Peek(n)
		if !ok {
			break
		}
		ct := Classify(c.profile, next)
		if ct != first && !(first == Alphabetic && ct == Numeric) {
			break
		}
		n++
	}
	span := c.Span()
	span.Length = n
	return Word{
		Span: span,
		Type: first,
		Text: string(c.src[c.pos : c.pos+n]),
	}, true
}

// ConsumeWord is PeekWord followed by skipping over the run.
func (c *Cursor) ConsumeWord() (Word, bool) {
	w, ok := c.PeekWord()
	if ok {
		c.Skip(w.Span.Length)
	}
	return w, ok
}

// ConsumeStringLiteral consumes a double-quoted literal, returning its raw
// text including both quotes. A backslash absorbs the next character
// unchanged, so an escaped quote never terminates the literal.
func (c *Cursor) ConsumeStringLiteral() (Word, *diag.LexerError) {
	start := c.pos
	span := c.Span()
	if r, ok := c.Current(); !ok || r != '"' {
		panic("lexer: ConsumeStringLiteral called off a quote")
	}
	var sb strings.Builder
	sb.WriteRune('"')
	c.Advance()
	for {
		r, ok := c.Current()
		if !ok {
			span.Length = 1
			return Word{}, &diag.LexerError{Kind: diag.UnterminatedString, Span: span, Char: '"'}
		}
		sb.WriteRune(r)
		c.Advance()
		if r == '\\' {
			esc, ok := c.Current()
			if !ok {
				continue
			}
			sb.WriteRune(esc)
			c.Advance()
			continue
		}
		if r == '"' {
			break
		}
	}
	span.Length = c.pos - start
	return Word{Span: span, Type: Quote, Text: sb.String()}, nil
}
