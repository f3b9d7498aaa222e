// Package diag defines the diagnostics shared by every compiler stage.
//
// Each stage reports its own error type. The driver wraps them in
// CompilerError without losing the original value, so callers can still
// use errors.As to reach, say, a *LexerError and its span.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/token"
)

// Stage identifies the compiler phase that produced a diagnostic.
type Stage string

const (
	StageTokenizer     Stage = "tokenizer"
	StageParser        Stage = "parser"
	StageSemantic      Stage = "semantic"
	StageDeclaration   Stage = "declaration"
	StageMiscellaneous Stage = "miscellaneous"
)

// Error is implemented by every stage-specific diagnostic.
type Error interface {
	error
	Stage() Stage
	Pos() token.Span
}

// LexerKind enumerates lexical problems.
type LexerKind int

const (
	InvalidChar LexerKind = iota + 1
	InvalidNumber
	UnterminatedString
	InvalidEscape
	LexUnexpectedEndOfInput
)

// LexerError is a problem found while scanning characters.
type LexerError struct {
	Kind LexerKind
	Span token.Span
	Char rune // offending character for InvalidChar and InvalidEscape
	Text string
}

func (e *LexerError) Stage() Stage     { return StageTokenizer }
func (e *LexerError) Pos() token.Span  { return e.Span }
func (e *LexerError) Error() string    { return e.Span.String() + ": " + e.message() }
func (e *LexerError) Incomplete() bool { return e.Kind == UnterminatedString || e.Kind == LexUnexpectedEndOfInput }

func (e *LexerError) message() string {
	switch e.Kind {
	case InvalidChar:
		return fmt.Sprintf("invalid character %q", e.Char)
	case InvalidNumber:
		return fmt.Sprintf("invalid number literal %q", e.Text)
	case UnterminatedString:
		return "unterminated string literal"
	case InvalidEscape:
		return fmt.Sprintf("invalid escape sequence \\%c", e.Char)
	case LexUnexpectedEndOfInput:
		return "unexpected end of input"
	default:
		return "lexical error"
	}
}

// ParserKind enumerates syntactic problems.
type ParserKind int

const (
	UnexpectedToken ParserKind = iota + 1
	MissingToken
	MismatchedDelimiter
	InvalidCode
	UnexpectedEndOfInput
)

// ParserError is a problem found while building the AST.
type ParserError struct {
	Kind     ParserKind
	Span     token.Span
	Token    token.Token
	Expected string // what should have been there (MissingToken, MismatchedDelimiter)
	Detail   string
}

func (e *ParserError) Stage() Stage     { return StageParser }
func (e *ParserError) Pos() token.Span  { return e.Span }
func (e *ParserError) Error() string    { return e.Span.String() + ": " + e.message() }
func (e *ParserError) Incomplete() bool { return e.Kind == UnexpectedEndOfInput }

func (e *ParserError) message() string {
	var msg string
	switch e.Kind {
	case UnexpectedToken:
		msg = "unexpected " + e.Token.String()
	case MissingToken:
		msg = fmt.Sprintf("expected %s, found %s", e.Expected, e.Token)
	case MismatchedDelimiter:
		msg = fmt.Sprintf("mismatched delimiter: expected %s, found %s", e.Expected, e.Token)
	case InvalidCode:
		msg = fmt.Sprintf("unexpected %s after end of statement", e.Token)
	case UnexpectedEndOfInput:
		msg = "unexpected end of input"
		if e.Expected != "" {
			msg += ", expected " + e.Expected
		}
	default:
		msg = "syntax error"
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// SemanticKind enumerates problems of meaning. No stage reports them yet.
type SemanticKind int

const (
	UndefinedIdentifier SemanticKind = iota + 1
	DuplicateDeclaration
	ShadowedDeclaration
	IllegalIdentifier
	TypeMismatch
	InvalidOperation
	InvalidCast
	UnreachableCode
	InvalidLoopBreak
)

var semanticMessages = [...]string{
	UndefinedIdentifier:  "undefined identifier",
	DuplicateDeclaration: "duplicate declaration",
	ShadowedDeclaration:  "declaration shadows an outer one",
	IllegalIdentifier:    "illegal identifier",
	TypeMismatch:         "type mismatch",
	InvalidOperation:     "invalid operation",
	InvalidCast:          "invalid cast",
	UnreachableCode:      "unreachable code",
	InvalidLoopBreak:     "break outside of a loop",
}

// SemanticError is a problem with the meaning of a well-formed program.
type SemanticError struct {
	Kind     SemanticKind
	Span     token.Span
	Name     string
	Expected ast.DataType // TypeMismatch and InvalidCast
	Node     ast.Node
}

func (e *SemanticError) Stage() Stage    { return StageSemantic }
func (e *SemanticError) Pos() token.Span { return e.Span }

func (e *SemanticError) Error() string {
	msg := "semantic error"
	if int(e.Kind) > 0 && int(e.Kind) < len(semanticMessages) {
		msg = semanticMessages[e.Kind]
	}
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Kind == TypeMismatch || e.Kind == InvalidCast {
		msg += ", expected " + e.Expected.String()
	}
	return e.Span.String() + ": " + msg
}

// DeclarationKind enumerates problems with definitions.
type DeclarationKind int

const (
	MultipleDefinitions DeclarationKind = iota + 1
	InvalidSignature
)

// DeclarationError is a problem with a definition.
type DeclarationError struct {
	Kind DeclarationKind
	Span token.Span
	Name string
}

func (e *DeclarationError) Stage() Stage    { return StageDeclaration }
func (e *DeclarationError) Pos() token.Span { return e.Span }

func (e *DeclarationError) Error() string {
	switch e.Kind {
	case MultipleDefinitions:
		return fmt.Sprintf("%s: %s defined more than once", e.Span, e.Name)
	case InvalidSignature:
		return fmt.Sprintf("%s: invalid signature for %s", e.Span, e.Name)
	default:
		return e.Span.String() + ": declaration error"
	}
}

// MiscKind enumerates the remaining problems.
type MiscKind int

const (
	InvalidConstantExpression MiscKind = iota + 1
	InvalidMacro
)

// MiscError covers diagnostics that fit no other stage.
type MiscError struct {
	Kind   MiscKind
	Span   token.Span
	Detail string
}

func (e *MiscError) Stage() Stage    { return StageMiscellaneous }
func (e *MiscError) Pos() token.Span { return e.Span }

func (e *MiscError) Error() string {
	msg := "error"
	switch e.Kind {
	case InvalidConstantExpression:
		msg = "invalid constant expression"
	case InvalidMacro:
		msg = "invalid macro"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return e.Span.String() + ": " + msg
}

// CompilerError wraps a stage diagnostic.
type CompilerError struct {
	Stage Stage
	Err   Error
}

// Wrap tags err with its own stage.
func Wrap(err Error) *CompilerError {
	return &CompilerError{Stage: err.Stage(), Err: err}
}

func (e *CompilerError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s error: %s", e.Stage, e.Err.Error())
}

func (e *CompilerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// List is an ordered collection of diagnostics.
type List []*CompilerError

// Add wraps and appends each diagnostic.
func (l *List) Add(errs ...Error) {
	for _, err := range errs {
		*l = append(*l, Wrap(err))
	}
}

// Err returns the list as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(l), strings.Join(msgs, "\n"))
}

// Unwrap exposes the individual diagnostics to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

type incompleter interface {
	Incomplete() bool
}

// IsIncomplete reports whether err only complains about input ending
// early, such as an unterminated string or an unclosed block.
func IsIncomplete(err error) bool {
	var list List
	if errors.As(err, &list) {
		if len(list) == 0 {
			return false
		}
		for _, e := range list {
			if !IsIncomplete(e) {
				return false
			}
		}
		return true
	}
	var inc incompleter
	if errors.As(err, &inc) {
		return inc.Incomplete()
	}
	return false
}
