// Package parser builds the UnixSoft BASIC syntax tree from tokens.
//
// Like the lexer, the parser does not stop at the first problem: a
// statement that fails to parse is recorded, the parser skips to the next
// statement separator, and parsing goes on.
package parser

import (
	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/profile"
	"github.com/unixsoft/usbasic/token"
)

// EvaluationContext selects which top-level constructs are legal.
type EvaluationContext int

const (
	// FileLevel is the top of the entry source file.
	FileLevel EvaluationContext = iota
	// Imported is the top of a file pulled in by IMPORT.
	Imported
	// Nested is a block inside an existing scope.
	Nested
)

func (c EvaluationContext) String() string {
	switch c {
	case FileLevel:
		return "file"
	case Imported:
		return "imported"
	case Nested:
		return "nested"
	default:
		return "unknown"
	}
}

// Parser consumes a token slice produced by the lexer.
type Parser struct {
	tokens  []token.Token
	pos     int
	curr    token.Token
	ctx     EvaluationContext
	profile *profile.LanguageProfile
	errs    []*diag.ParserError
}

// New creates a parser. The token slice should end with EndOfInput; one is
// added if it does not. A nil profile selects profile.Default.
func New(tokens []token.Token, ctx EvaluationContext, p *profile.LanguageProfile) *Parser {
	if p == nil {
		p = profile.Default()
	}
	if n := len(tokens); n == 0 || tokens[n-1].Kind != token.EndOfInput {
		eof := token.Token{Kind: token.EndOfInput, Span: token.Span{Line: 1, Column: 1}}
		if n > 0 {
			last := tokens[n-1]
			eof.Offset = last.Offset + last.Span.Length
			eof.Span = last.Span
			eof.Span.Column += last.Span.Length
			eof.Span.Length = 0
		}
		tokens = append(tokens[:n:n], eof)
	}
	return &Parser{
		tokens:  tokens,
		curr:    tokens[0],
		ctx:     ctx,
		profile: p,
	}
}

// Parse parses every statement into a root Scope. The scope holds all
// statements that parsed cleanly; errs lists the others in token order.
func (p *Parser) Parse() (*ast.Scope, []*diag.ParserError) {
	root := &ast.Scope{Span: p.curr.Span}
	root.Body = p.parseStatements(nil)
	return root, p.errs
}

// Peek looks offset tokens ahead. Past the end it returns EndOfInput.
func (p *Parser) Peek(offset int) token.Token {
	i := p.pos + offset
	if i < 0 {
		i = 0
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// Advance moves to the next token. It never moves past EndOfInput.
func (p *Parser) Advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curr = p.tokens[p.pos]
}

// Consume drains up to n tokens from the current position and returns
// them. EndOfInput is never drained.
func (p *Parser) Consume(n int) []token.Token {
	var out []token.Token
	for ; n > 0 && p.curr.Kind != token.EndOfInput; n-- {
		out = append(out, p.curr)
		p.Advance()
	}
	return out
}

// parseStatements parses statements until EndOfInput or a token accepted
// by stop. Failed statements are recorded and skipped.
func (p *Parser) parseStatements(stop func(token.Token) bool) []ast.Statement {
	var body []ast.Statement
	for {
		p.skipSeparators()
		if p.curr.Kind == token.EndOfInput || (stop != nil && stop(p.curr)) {
			return body
		}
		stmt, err := p.parseStatement()
		if err != nil {
			p.errs = append(p.errs, err)
			p.synchronize()
			continue
		}
		body = append(body, stmt)
		if _, ok := stmt.(*ast.Label); ok {
			continue
		}
		if !isStatementEnd(p.curr) {
			p.errs = append(p.errs, &diag.ParserError{
				Kind:  diag.InvalidCode,
				Span:  p.curr.Span,
				Token: p.curr,
			})
			p.synchronize()
		}
	}
}

func (p *Parser) skipSeparators() {
	for p.curr.Kind == token.Newline || p.curr.Kind == token.Colon {
		p.Advance()
	}
}

// synchronize skips the rest of a broken statement.
func (p *Parser) synchronize() {
	for p.curr.Kind != token.Newline && p.curr.Kind != token.Colon && p.curr.Kind != token.EndOfInput {
		p.Advance()
	}
}

// isStatementEnd reports whether tok may follow a complete statement.
func isStatementEnd(tok token.Token) bool {
	switch tok.Kind {
	case token.Newline, token.Colon, token.EndOfInput:
		return true
	}
	return tok.Is(token.Keyword, "ELSE") || tok.Is(token.Keyword, "END")
}

func (p *Parser) isKeyword(text string) bool {
	return p.curr.Is(token.Keyword, text)
}

// expectKeyword consumes the keyword text or reports it missing.
func (p *Parser) expectKeyword(text string) (token.Token, *diag.ParserError) {
	if !p.isKeyword(text) {
		return token.Token{}, p.missing(text)
	}
	tok := p.curr
	p.Advance()
	return tok, nil
}

func (p *Parser) expectKind(kind token.Kind, what string) (token.Token, *diag.ParserError) {
	if p.curr.Kind != kind {
		return token.Token{}, p.missing(what)
	}
	tok := p.curr
	p.Advance()
	return tok, nil
}

// missing reports that what should appear at the current token. Running
// out of tokens is reported as UnexpectedEndOfInput so callers can tell
// unfinished input from wrong input.
func (p *Parser) missing(what string) *diag.ParserError {
	if p.curr.Kind == token.EndOfInput {
		return &diag.ParserError{Kind: diag.UnexpectedEndOfInput, Span: p.curr.Span, Token: p.curr, Expected: what}
	}
	return &diag.ParserError{Kind: diag.MissingToken, Span: p.curr.Span, Token: p.curr, Expected: what}
}

func (p *Parser) unexpected() *diag.ParserError {
	if p.curr.Kind == token.EndOfInput {
		return &diag.ParserError{Kind: diag.UnexpectedEndOfInput, Span: p.curr.Span, Token: p.curr}
	}
	return &diag.ParserError{Kind: diag.UnexpectedToken, Span: p.curr.Span, Token: p.curr}
}
