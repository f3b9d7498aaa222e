package ast

import (
	"strings"

	"github.com/unixsoft/usbasic/token"
)

// DataType names the value types of UnixSoft BASIC.
type DataType int

const (
	Int DataType = iota + 1
	Float
	String
	Bool
)

func (dt DataType) String() string {
	switch dt {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case String:
		return "STRING"
	case Bool:
		return "BOOL"
	default:
		return "NONE"
	}
}

// ParseDataType maps a type keyword (any case) to its DataType.
func ParseDataType(name string) (DataType, bool) {
	switch strings.ToUpper(name) {
	case "INT":
		return Int, true
	case "FLOAT":
		return Float, true
	case "STRING":
		return String, true
	case "BOOL":
		return Bool, true
	}
	return 0, false
}

// UnaryOperation is a prefix operator.
type UnaryOperation int

const (
	Neg UnaryOperation = iota + 1
	Not
)

func (op UnaryOperation) String() string {
	switch op {
	case Neg:
		return "NEG"
	case Not:
		return "NOT"
	default:
		return "?"
	}
}

// BinaryOperation is an infix operator.
type BinaryOperation int

const (
	Add BinaryOperation = iota + 1
	Sub
	Mul
	Div
	Eq
	Neq
	Lt
	Gt
	Lte
	Gte
	And
	Or
	Pow
)

var binaryNames = [...]string{
	Add: "ADD",
	Sub: "SUB",
	Mul: "MUL",
	Div: "DIV",
	Eq:  "EQ",
	Neq: "NEQ",
	Lt:  "LT",
	Gt:  "GT",
	Lte: "LTE",
	Gte: "GTE",
	And: "AND",
	Or:  "OR",
	Pow: "POW",
}

func (op BinaryOperation) String() string {
	if op <= 0 || int(op) >= len(binaryNames) {
		return "?"
	}
	return binaryNames[op]
}

// Node represents any AST node with a source span.
type Node interface {
	Pos() token.Span
}

// Expression produces a value.
type Expression interface {
	Node
	exprNode()
}

// Statement is an executable unit inside a scope.
type Statement interface {
	Node
	stmtNode()
}

// Identifier refers to a variable or function name.
type Identifier struct {
	Name string
	Span token.Span
}

func (e *Identifier) Pos() token.Span { return e.Span }
func (*Identifier) exprNode()         {}

// Constant is a literal kept in source form; Value of a string constant
// still carries its quotes and escapes.
type Constant struct {
	Type  DataType
	Value string
	Span  token.Span
}

func (e *Constant) Pos() token.Span { return e.Span }
func (*Constant) exprNode()         {}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	Op      UnaryOperation
	Operand Expression
	Span    token.Span
}

func (e *UnaryOp) Pos() token.Span { return e.Span }
func (*UnaryOp) exprNode()         {}

// BinaryOp applies an infix operator.
type BinaryOp struct {
	Op          BinaryOperation
	Left, Right Expression
	Span        token.Span
}

func (e *BinaryOp) Pos() token.Span { return e.Span }
func (*BinaryOp) exprNode()         {}

// FunctionCall invokes a named function. It is both an expression and,
// for procedures such as PRINT, a statement.
type FunctionCall struct {
	Name string
	Args []Expression
	Span token.Span
}

func (e *FunctionCall) Pos() token.Span { return e.Span }
func (*FunctionCall) exprNode()         {}
func (*FunctionCall) stmtNode()         {}

// Assignment stores a value into an existing variable.
type Assignment struct {
	Target *Identifier
	Value  Expression
	Span   token.Span
}

func (s *Assignment) Pos() token.Span { return s.Span }
func (*Assignment) stmtNode()         {}

// VariableDeclaration introduces a binding. Type is zero when undeclared,
// Init is nil when absent.
type VariableDeclaration struct {
	Name     string
	Type     DataType
	Constant bool
	Init     Expression
	Span     token.Span
}

func (s *VariableDeclaration) Pos() token.Span { return s.Span }
func (*VariableDeclaration) stmtNode()         {}

// If runs Action when Condition holds, Else otherwise.
type If struct {
	Condition Expression
	Action    Statement
	Else      Statement // may be nil
	Span      token.Span
}

func (s *If) Pos() token.Span { return s.Span }
func (*If) stmtNode()         {}

// Scope is an ordered block of statements; a parsed file is a Scope.
type Scope struct {
	Body []Statement
	Span token.Span
}

func (s *Scope) Pos() token.Span { return s.Span }
func (*Scope) stmtNode()         {}

// Return leaves the current routine, optionally with a value.
type Return struct {
	Value Expression // may be nil
	Span  token.Span
}

func (s *Return) Pos() token.Span { return s.Span }
func (*Return) stmtNode()         {}

// Label is a classic line number at the start of a line.
type Label struct {
	Value string
	Span  token.Span
}

func (s *Label) Pos() token.Span { return s.Span }
func (*Label) stmtNode()         {}

// Import names another source file; Path keeps its quotes.
type Import struct {
	Path string
	Span token.Span
}

func (s *Import) Pos() token.Span { return s.Span }
func (*Import) stmtNode()         {}

// Remark is a REM comment. The rest of its line is not kept.
type Remark struct {
	Span token.Span
}

func (s *Remark) Pos() token.Span { return s.Span }
func (*Remark) stmtNode()         {}

// Jump transfers control to a line label: GOTO, or GOSUB when Subroutine
// is set.
type Jump struct {
	Target     string
	Subroutine bool
	Span       token.Span
}

func (s *Jump) Pos() token.Span { return s.Span }
func (*Jump) stmtNode()         {}

// For opens a counted loop that runs until the matching Next. Step is nil
// when absent.
type For struct {
	Var      *Identifier
	From, To Expression
	Step     Expression
	Span     token.Span
}

func (s *For) Pos() token.Span { return s.Span }
func (*For) stmtNode()         {}

// Next closes the innermost loop, or the loops named in Vars.
type Next struct {
	Vars []*Identifier
	Span token.Span
}

func (s *Next) Pos() token.Span { return s.Span }
func (*Next) stmtNode()         {}
