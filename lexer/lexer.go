// Package lexer turns UnixSoft BASIC source text into tokens.
//
// Each lexeme is claimed by the first recognizer of a fixed chain that
// accepts it: newline, delimiter, string literal, integer literal,
// operator, keyword, identifier. The order is part of the language: a
// digit always starts a number and a multi-character operator such as <=
// is taken whole before keywords and identifiers get a chance.
package lexer

import (
	"fmt"
	"unicode"

	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/profile"
	"github.com/unixsoft/usbasic/token"
)

// Lexer produces tokens one at a time from a Cursor.
type Lexer struct {
	cur     *Cursor
	profile *profile.LanguageProfile
}

// New creates a lexer over src. A nil profile selects profile.Default.
func New(src string, p *profile.LanguageProfile) *Lexer {
	if p == nil {
		p = profile.Default()
	}
	return &Lexer{
		cur:     NewCursor(src, p),
		profile: p,
	}
}

// recognizer claims a lexeme starting at r. It reports ok=false when the
// lexeme is not its kind; otherwise it consumes the lexeme and returns
// either a token or an error.
type recognizer func(lx *Lexer, r rune) (tok token.Token, ok bool, err *diag.LexerError)

var recognizers = []struct {
	name string
	fn   recognizer
}{
	{"newline", (*Lexer).recognizeNewline},
	{"delimiter", (*Lexer).recognizeDelimiter},
	{"string", (*Lexer).recognizeString},
	{"integer", (*Lexer).recognizeInteger},
	{"operator", (*Lexer).recognizeOperator},
	{"keyword", (*Lexer).recognizeKeyword},
	{"identifier", (*Lexer).recognizeIdentifier},
}

// RecognizerOrder lists the recognizers in the order they are tried.
func RecognizerOrder() []string {
	names := make([]string, len(recognizers))
	for i, rec := range recognizers {
		names[i] = rec.name
	}
	return names
}

// Next scans one token. At the end of input it returns an EndOfInput
// token, every time it is called. On error the offending character has
// been consumed so the next call makes progress.
func (lx *Lexer) Next() (token.Token, *diag.LexerError) {
	lx.cur.ConsumeWhitespace()
	r, ok := lx.cur.Current()
	if !ok {
		return token.Token{
			Kind:   token.EndOfInput,
			Offset: lx.cur.Offset(),
			Span:   lx.cur.Span(),
		}, nil
	}

	start := lx.cur.Offset()
	span := lx.cur.Span()
	for _, rec := range recognizers {
		tok, ok, err := rec.fn(lx, r)
		if err != nil {
			if lx.cur.Offset() == start {
				lx.cur.Advance()
			}
			return token.Token{}, err
		}
		if ok {
			return tok, nil
		}
	}

	span.Length = 1
	lx.cur.Advance()
	return token.Token{}, &diag.LexerError{Kind: diag.InvalidChar, Span: span, Char: r}
}

// Tokenize scans all of src. The token slice always ends with EndOfInput
// and holds every token that could be recognized, even when errs is not
// empty; errs lists the problems in source order.
func Tokenize(src string, p *profile.LanguageProfile) (tokens []token.Token, errs []*diag.LexerError) {
	lx := New(src, p)
	for {
		tok, err := lx.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EndOfInput {
			return tokens, errs
		}
	}
}

func makeToken(kind token.Kind, w Word, offset int) token.Token {
	return token.Token{
		Kind:   kind,
		Text:   w.Text,
		Offset: offset,
		Span:   w.Span,
	}
}

func (lx *Lexer) recognizeNewline(r rune) (token.Token, bool, *diag.LexerError) {
	if r != '\n' {
		return token.Token{}, false, nil
	}
	tok := token.Token{
		Kind:   token.Newline,
		Offset: lx.cur.Offset(),
		Span:   lx.cur.Span(),
	}
	tok.Span.Length = 1
	lx.cur.Advance()
	return tok, true, nil
}

var delimiterKinds = map[rune]token.Kind{
	'(': token.ParenOpen,
	')': token.ParenClose,
	'[': token.BracketOpen,
	']': token.BracketClose,
	',': token.Comma,
	':': token.Colon,
}

func (lx *Lexer) recognizeDelimiter(r rune) (token.Token, bool, *diag.LexerError) {
	kind, ok := delimiterKinds[r]
	if !ok {
		return token.Token{}, false, nil
	}
	span := lx.cur.Span()
	span.Length = 1
	tok := makeToken(kind, Word{Span: span, Type: Delimiter, Text: string(r)}, lx.cur.Offset())
	lx.cur.Advance()
	return tok, true, nil
}

func (lx *Lexer) recognizeString(r rune) (token.Token, bool, *diag.LexerError) {
	if r != '"' {
		return token.Token{}, false, nil
	}
	offset := lx.cur.Offset()
	w, err := lx.cur.ConsumeStringLiteral()
	if err != nil {
		return token.Token{}, false, err
	}
	return makeToken(token.StringLiteral, w, offset), true, nil
}

func (lx *Lexer) recognizeInteger(r rune) (token.Token, bool, *diag.LexerError) {
	if r < '0' || r > '9' {
		return token.Token{}, false, nil
	}
	offset := lx.cur.Offset()
	w, _ := lx.cur.ConsumeWord()
	if w.Type != Numeric {
		panic(fmt.Sprintf("lexer: digit %q started a %s word", r, w.Type))
	}
	return makeToken(token.Number, w, offset), true, nil
}

func (lx *Lexer) recognizeOperator(rune) (token.Token, bool, *diag.LexerError) {
	w, ok := lx.cur.PeekWord()
	if !ok {
		return token.Token{}, false, nil
	}
	switch w.Type {
	case Alphabetic:
		if !lx.profile.IsOperator(w.Text) {
			return token.Token{}, false, nil
		}
	case OperatorSymbol:
		if !lx.profile.IsOperator(w.Text) {
			runes := []rune(w.Text)
			n := lx.profile.LongestOperator(runes)
			if n == 0 {
				return token.Token{}, false, nil
			}
			w.Text = string(runes[:n])
			w.Span.Length = n
		}
	default:
		return token.Token{}, false, nil
	}
	offset := lx.cur.Offset()
	lx.cur.Skip(w.Span.Length)
	return makeToken(token.Operator, w, offset), true, nil
}

func (lx *Lexer) recognizeKeyword(r rune) (token.Token, bool, *diag.LexerError) {
	if !unicode.IsLetter(r) {
		return token.Token{}, false, nil
	}
	w, ok := lx.cur.PeekWord()
	if !ok || !lx.profile.IsKeyword(w.Text) {
		return token.Token{}, false, nil
	}
	offset := lx.cur.Offset()
	lx.cur.Skip(w.Span.Length)
	return makeToken(token.Keyword, w, offset), true, nil
}

func (lx *Lexer) recognizeIdentifier(r rune) (token.Token, bool, *diag.LexerError) {
	if !unicode.IsLetter(r) {
		return token.Token{}, false, nil
	}
	offset := lx.cur.Offset()
	w, _ := lx.cur.ConsumeWord()
	tok := makeToken(token.Identifier, w, offset)
	tok.Function = lx.profile.IsFunction(w.Text)
	return tok, true, nil
}
