package parser

import (
	"strings"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/stdlib"
	"github.com/unixsoft/usbasic/token"
)

const lowestPrecedence = 1

type binaryOperator struct {
	op   ast.BinaryOperation
	prec int
}

var binaryOperators = map[string]binaryOperator{
	"OR":  {ast.Or, 1},
	"AND": {ast.And, 2},
	"=":   {ast.Eq, 3},
	"==":  {ast.Eq, 3},
	"<>":  {ast.Neq, 3},
	"!=":  {ast.Neq, 3},
	"<":   {ast.Lt, 3},
	">":   {ast.Gt, 3},
	"<=":  {ast.Lte, 3},
	">=":  {ast.Gte, 3},
	"+":   {ast.Add, 4},
	"-":   {ast.Sub, 4},
	"*":   {ast.Mul, 5},
	"/":   {ast.Div, 5},
}

// expressionHandler tries to parse an operand at the current token.
type expressionHandler func(p *Parser) (expr ast.Expression, ok bool, err *diag.ParserError)

type namedExpressionHandler struct {
	name string
	fn   expressionHandler
}

// expressionHandlers is set in init; its handlers refer back to it.
var expressionHandlers []namedExpressionHandler

func init() {
	expressionHandlers = []namedExpressionHandler{
		{"grouping", (*Parser).parseGrouping},
		{"constant", (*Parser).parseConstant},
		{"call", (*Parser).parseCall},
		{"identifier", (*Parser).parseIdentifier},
	}
}

// ExpressionOrder lists the operand handlers in the order they are tried.
func ExpressionOrder() []string {
	names := make([]string, len(expressionHandlers))
	for i, h := range expressionHandlers {
		names[i] = h.name
	}
	return names
}

// ParseExpression parses a single expression that must make up the whole
// token stream, apart from trailing separators.
func (p *Parser) ParseExpression() (ast.Expression, []*diag.ParserError) {
	expr, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, append(p.errs, err)
	}
	p.skipSeparators()
	if p.curr.Kind != token.EndOfInput {
		p.errs = append(p.errs, &diag.ParserError{Kind: diag.InvalidCode, Span: p.curr.Span, Token: p.curr})
	}
	return expr, p.errs
}

// parseExpression climbs binary operators binding at least minPrec.
// A BinaryOp is positioned at its operator.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, *diag.ParserError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.curr.Kind == token.Operator {
		bin, ok := binaryOperators[strings.ToUpper(p.curr.Text)]
		if !ok || bin.prec < minPrec {
			break
		}
		op := p.curr
		p.Advance()
		right, err := p.parseExpression(bin.prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: bin.op, Left: left, Right: right, Span: op.Span}
	}
	return left, nil
}

// parseUnary binds looser than ^, so -2^2 is NEG (POW 2 2).
func (p *Parser) parseUnary() (ast.Expression, *diag.ParserError) {
	var op ast.UnaryOperation
	switch {
	case p.curr.Is(token.Operator, "-"):
		op = ast.Neg
	case p.curr.Is(token.Operator, "NOT"):
		op = ast.Not
	default:
		return p.parsePower()
	}
	tok := p.curr
	p.Advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Op: op, Operand: operand, Span: tok.Span}, nil
}

// parsePower parses a right-associative chain of ^.
func (p *Parser) parsePower() (ast.Expression, *diag.ParserError) {
	base, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if !p.curr.Is(token.Operator, "^") {
		return base, nil
	}
	op := p.curr
	p.Advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Op: ast.Pow, Left: base, Right: exp, Span: op.Span}, nil
}

func (p *Parser) parseOperand() (ast.Expression, *diag.ParserError) {
	for _, h := range expressionHandlers {
		expr, ok, err := h.fn(p)
		if err != nil {
			return nil, err
		}
		if ok {
			return expr, nil
		}
	}
	err := p.unexpected()
	if err.Kind == diag.UnexpectedEndOfInput {
		err.Expected = "expression"
	}
	return nil, err
}

func (p *Parser) parseGrouping() (ast.Expression, bool, *diag.ParserError) {
	if p.curr.Kind != token.ParenOpen {
		return nil, false, nil
	}
	p.Advance()
	expr, err := p.parseExpression(lowestPrecedence)
	if err != nil {
		return nil, false, err
	}
	if err := p.closeDelimiter(token.ParenClose); err != nil {
		return nil, false, err
	}
	return expr, true, nil
}

func (p *Parser) parseConstant() (ast.Expression, bool, *diag.ParserError) {
	tok := p.curr
	var dt ast.DataType
	value := tok.Text
	switch {
	case tok.Kind == token.Number:
		dt = ast.Int
	case tok.Kind == token.StringLiteral:
		dt = ast.String
	case tok.Is(token.Keyword, "TRUE"), tok.Is(token.Keyword, "FALSE"):
		dt = ast.Bool
		value = strings.ToUpper(value)
	default:
		return nil, false, nil
	}
	p.Advance()
	return &ast.Constant{Type: dt, Value: value, Span: tok.Span}, true, nil
}

// isCallStart reports whether the current token opens name(arg, ...).
// Keywords qualify only when they also name an enclosed function, as INT
// does.
func (p *Parser) isCallStart() bool {
	if p.Peek(1).Kind != token.ParenOpen {
		return false
	}
	switch p.curr.Kind {
	case token.Identifier:
		return true
	case token.Keyword:
		fn, ok := p.profile.Function(p.curr.Text)
		return ok && fn.Convention == stdlib.Enclosed
	}
	return false
}

// name(arg, ...)
func (p *Parser) parseCall() (ast.Expression, bool, *diag.ParserError) {
	if !p.isCallStart() {
		return nil, false, nil
	}
	name := p.curr
	call := &ast.FunctionCall{Name: name.Text, Span: name.Span}
	if fn, ok := p.profile.Function(name.Text); ok {
		call.Name = fn.Name
	}
	p.Consume(2)
	if p.curr.Kind != token.ParenClose {
		for {
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
	}
	if err := p.closeDelimiter(token.ParenClose); err != nil {
		return nil, false, err
	}
	return call, true, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, bool, *diag.ParserError) {
	if p.curr.Kind != token.Identifier {
		return nil, false, nil
	}
	tok := p.curr
	p.Advance()
	return &ast.Identifier{Name: tok.Text, Span: tok.Span}, true, nil
}

// closeDelimiter consumes the closing delimiter want. A closing delimiter
// of another kind is reported as mismatched.
func (p *Parser) closeDelimiter(want token.Kind) *diag.ParserError {
	switch p.curr.Kind {
	case want:
		p.Advance()
		return nil
	case token.ParenClose, token.BracketClose:
		return &diag.ParserError{Kind: diag.MismatchedDelimiter, Span: p.curr.Span, Token: p.curr, Expected: want.String()}
	}
	return p.missing(want.String())
}
