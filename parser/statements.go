package parser

import (
	"strings"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/stdlib"
	"github.com/unixsoft/usbasic/token"
)

// statementHandler tries to parse a statement at the current token. It
// returns ok=false without consuming anything when the statement is not
// its kind.
type statementHandler func(p *Parser) (stmt ast.Statement, ok bool, err *diag.ParserError)

type namedStatementHandler struct {
	name string
	fn   statementHandler
}

// statementHandlers is set in init; block statements recurse into it.
var statementHandlers []namedStatementHandler

func init() {
	statementHandlers = []namedStatementHandler{
		{"label", (*Parser).parseLabel},
		{"remark", (*Parser).parseRemark},
		{"import", (*Parser).parseImport},
		{"declaration", (*Parser).parseDeclaration},
		{"if", (*Parser).parseIf},
		{"for", (*Parser).parseFor},
		{"next", (*Parser).parseNext},
		{"jump", (*Parser).parseJump},
		{"scope", (*Parser).parseScope},
		{"return", (*Parser).parseReturn},
		{"assignment", (*Parser).parseAssignment},
		{"call", (*Parser).parseCallStatement},
	}
}

// StatementOrder lists the statement handlers in the order they are tried.
func StatementOrder() []string {
	names := make([]string, len(statementHandlers))
	for i, h := range statementHandlers {
		names[i] = h.name
	}
	return names
}

func (p *Parser) parseStatement() (ast.Statement, *diag.ParserError) {
	for _, h := range statementHandlers {
		stmt, ok, err := h.fn(p)
		if err != nil {
			return nil, err
		}
		if ok {
			return stmt, nil
		}
	}
	return nil, p.unexpected()
}

func (p *Parser) parseLabel() (ast.Statement, bool, *diag.ParserError) {
	if p.curr.Kind != token.Number {
		return nil, false, nil
	}
	tok := p.curr
	p.Advance()
	return &ast.Label{Value: tok.Text, Span: tok.Span}, true, nil
}

// REM runs to the end of the line, colons included.
func (p *Parser) parseRemark() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("REM") {
		return nil, false, nil
	}
	stmt := &ast.Remark{Span: p.curr.Span}
	p.Advance()
	for p.curr.Kind != token.Newline && p.curr.Kind != token.EndOfInput {
		p.Advance()
	}
	return stmt, true, nil
}

func (p *Parser) parseImport() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("IMPORT") {
		return nil, false, nil
	}
	if p.ctx == Nested {
		err := p.unexpected()
		err.Detail = "IMPORT is only allowed at file level"
		return nil, false, err
	}
	kw := p.curr
	p.Advance()
	path, err := p.expectKind(token.StringLiteral, "import path")
	if err != nil {
		return nil, false, err
	}
	return &ast.Import{Path: path.Text, Span: kw.Span}, true, nil
}

// DIM name [AS type] [= expr]
// CONST name [AS type] = expr
func (p *Parser) parseDeclaration() (ast.Statement, bool, *diag.ParserError) {
	var constant bool
	switch {
	case p.isKeyword("DIM"):
	case p.isKeyword("CONST"):
		constant = true
	default:
		return nil, false, nil
	}
	p.Advance()

	name, err := p.expectKind(token.Identifier, "identifier")
	if err != nil {
		return nil, false, err
	}
	decl := &ast.VariableDeclaration{Name: name.Text, Constant: constant, Span: name.Span}

	if p.isKeyword("AS") {
		p.Advance()
		dt, ok := ast.ParseDataType(p.curr.Text)
		if p.curr.Kind != token.Keyword || !ok {
			return nil, false, p.missing("type")
		}
		decl.Type = dt
		p.Advance()
	}

	if p.curr.Is(token.Operator, "=") {
		p.Advance()
		value, err := p.parseExpression(lowestPrecedence)
		if err != nil {
			return nil, false, err
		}
		decl.Init = value
	} else if constant {
		return nil, false, p.missing("=")
	}
	return decl, true, nil
}

// IF cond THEN stmt [ELSE stmt]
// IF cond THEN line [ELSE line]
// IF cond THEN <newline> block [ELSE block] END IF
func (p *Parser) parseIf() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("IF") {
		return nil, false, nil
	}
	kw := p.curr
	p.Advance()

	cond, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, false, err
	}
	then, err := p.expectKeyword("THEN")
	if err != nil {
		return nil, false, err
	}
	stmt := &ast.If{Condition: cond, Span: kw.Span}

	if p.curr.Kind != token.Newline {
		if stmt.Action, err = p.parseBranch(); err != nil {
			return nil, false, err
		}
		if p.isKeyword("ELSE") {
			p.Advance()
			if stmt.Else, err = p.parseBranch(); err != nil {
				return nil, false, err
			}
		}
		return stmt, true, nil
	}

	stmt.Action = p.parseBlock(then.Span, blockEnd("ELSE", "END"))
	if p.isKeyword("ELSE") {
		els := p.curr
		p.Advance()
		stmt.Else = p.parseBlock(els.Span, blockEnd("END"))
	}
	if err := p.closeBlock("IF"); err != nil {
		return nil, false, err
	}
	return stmt, true, nil
}

// parseBranch parses the statement of a single-line IF or ELSE in a nested
// context. A bare line number jumps to it.
func (p *Parser) parseBranch() (ast.Statement, *diag.ParserError) {
	if p.curr.Kind == token.Number {
		tok := p.curr
		p.Advance()
		return &ast.Jump{Target: tok.Text, Span: tok.Span}, nil
	}
	saved := p.ctx
	p.ctx = Nested
	defer func() { p.ctx = saved }()
	return p.parseStatement()
}

// FOR name = from TO to [STEP step]
func (p *Parser) parseFor() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("FOR") {
		return nil, false, nil
	}
	kw := p.curr
	p.Advance()
	name, err := p.expectKind(token.Identifier, "identifier")
	if err != nil {
		return nil, false, err
	}
	if !p.curr.Is(token.Operator, "=") {
		return nil, false, p.missing("=")
	}
	p.Advance()
	stmt := &ast.For{Var: &ast.Identifier{Name: name.Text, Span: name.Span}, Span: kw.Span}
	if stmt.From, err = p.parseExpression(lowestPrecedence); err != nil {
		return nil, false, err
	}
	if _, err := p.expectKeyword("TO"); err != nil {
		return nil, false, err
	}
	if stmt.To, err = p.parseExpression(lowestPrecedence); err != nil {
		return nil, false, err
	}
	if p.isKeyword("STEP") {
		p.Advance()
		if stmt.Step, err = p.parseExpression(lowestPrecedence); err != nil {
			return nil, false, err
		}
	}
	return stmt, true, nil
}

// NEXT [name {, name}]
func (p *Parser) parseNext() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("NEXT") {
		return nil, false, nil
	}
	stmt := &ast.Next{Span: p.curr.Span}
	p.Advance()
	if isStatementEnd(p.curr) {
		return stmt, true, nil
	}
	for {
		name, err := p.expectKind(token.Identifier, "identifier")
		if err != nil {
			return nil, false, err
		}
		stmt.Vars = append(stmt.Vars, &ast.Identifier{Name: name.Text, Span: name.Span})
		if p.curr.Kind != token.Comma {
			return stmt, true, nil
		}
		p.Advance()
	}
}

// GOTO line
// GOSUB line
func (p *Parser) parseJump() (ast.Statement, bool, *diag.ParserError) {
	var sub bool
	switch {
	case p.isKeyword("GOTO"):
	case p.isKeyword("GOSUB"):
		sub = true
	default:
		return nil, false, nil
	}
	kw := p.curr
	p.Advance()
	target, err := p.expectKind(token.Number, "line number")
	if err != nil {
		return nil, false, err
	}
	return &ast.Jump{Target: target.Text, Subroutine: sub, Span: kw.Span}, true, nil
}

// BEGIN <newline> block END
func (p *Parser) parseScope() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("BEGIN") {
		return nil, false, nil
	}
	kw := p.curr
	p.Advance()
	scope := p.parseBlock(kw.Span, blockEnd("END"))
	if err := p.closeBlock(""); err != nil {
		return nil, false, err
	}
	return scope, true, nil
}

func (p *Parser) parseReturn() (ast.Statement, bool, *diag.ParserError) {
	if !p.isKeyword("RETURN") {
		return nil, false, nil
	}
	stmt := &ast.Return{Span: p.curr.Span}
	p.Advance()
	if isStatementEnd(p.curr) {
		return stmt, true, nil
	}
	value, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, false, err
	}
	stmt.Value = value
	return stmt, true, nil
}

// [LET] name = expr
func (p *Parser) parseAssignment() (ast.Statement, bool, *diag.ParserError) {
	if p.isKeyword("LET") {
		p.Advance()
	} else if p.curr.Kind != token.Identifier || !p.Peek(1).Is(token.Operator, "=") {
		return nil, false, nil
	}
	name, err := p.expectKind(token.Identifier, "identifier")
	if err != nil {
		return nil, false, err
	}
	eq := p.curr
	if !eq.Is(token.Operator, "=") {
		return nil, false, p.missing("=")
	}
	p.Advance()
	value, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, false, err
	}
	return &ast.Assignment{
		Target: &ast.Identifier{Name: name.Text, Span: name.Span},
		Value:  value,
		Span:   eq.Span,
	}, true, nil
}

// PRINT a, b
// name(args)
func (p *Parser) parseCallStatement() (ast.Statement, bool, *diag.ParserError) {
	if fn, ok := p.profile.Function(p.curr.Text); ok && fn.Convention == stdlib.Positional &&
		(p.curr.Kind == token.Keyword || p.curr.Kind == token.Identifier) {
		call := &ast.FunctionCall{Name: fn.Name, Span: p.curr.Span}
		p.Advance()
		for !isStatementEnd(p.curr) {
			arg, err := p.parseExpression(lowestPrecedence)
			if err != nil {
				return nil, false, err
			}
			call.Args = append(call.Args, arg)
			if p.curr.Kind != token.Comma {
				break
			}
			p.Advance()
		}
		return call, true, nil
	}
	if p.isCallStart() {
		expr, _, err := p.parseCall()
		if err != nil {
			return nil, false, err
		}
		return expr.(*ast.FunctionCall), true, nil
	}
	return nil, false, nil
}

// blockEnd stops a block at any of the given keywords.
func blockEnd(keywords ...string) func(token.Token) bool {
	return func(tok token.Token) bool {
		for _, kw := range keywords {
			if tok.Is(token.Keyword, kw) {
				return true
			}
		}
		return false
	}
}

// parseBlock parses a nested body. Errors inside it are recorded and do
// not abort the enclosing statement.
func (p *Parser) parseBlock(span token.Span, stop func(token.Token) bool) *ast.Scope {
	saved := p.ctx
	p.ctx = Nested
	body := p.parseStatements(stop)
	p.ctx = saved
	return &ast.Scope{Body: body, Span: span}
}

// closeBlock consumes END and, if given, the keyword naming the block.
func (p *Parser) closeBlock(kind string) *diag.ParserError {
	want := strings.TrimSpace("END " + kind)
	if p.curr.Kind == token.EndOfInput {
		return &diag.ParserError{Kind: diag.UnexpectedEndOfInput, Span: p.curr.Span, Token: p.curr, Expected: want}
	}
	if _, err := p.expectKeyword("END"); err != nil {
		err.Expected = want
		return err
	}
	if kind != "" {
		if _, err := p.expectKeyword(kind); err != nil {
			return err
		}
	}
	return nil
}
