package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/token"
)

func TestCompilerErrorKeepsStageError(t *testing.T) {
	lexErr := &LexerError{Kind: InvalidChar, Span: token.Span{Line: 2, Column: 4, Length: 1}, Char: '$'}
	var list List
	list.Add(lexErr)
	list.Add(&ParserError{Kind: UnexpectedToken, Span: token.Span{Line: 3, Column: 1}, Token: token.Token{Kind: token.Comma, Text: ","}})

	err := list.Err()
	if err == nil {
		t.Fatalf("expected non-nil error for non-empty list")
	}
	var got *LexerError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to reach the lexer error")
	}
	if got != lexErr {
		t.Fatalf("lexer error identity lost")
	}
	var perr *ParserError
	if !errors.As(err, &perr) || perr.Kind != UnexpectedToken {
		t.Fatalf("expected errors.As to reach the parser error, got %v", perr)
	}
	if list[0].Stage != StageTokenizer || list[1].Stage != StageParser {
		t.Fatalf("unexpected stages %s, %s", list[0].Stage, list[1].Stage)
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Fatalf("unexpected list message %q", err.Error())
	}
	if (List{}).Err() != nil {
		t.Fatalf("empty list must not be an error")
	}
}

func TestErrorMessages(t *testing.T) {
	span := token.Span{Line: 1, Column: 5, Length: 1}
	tests := []struct {
		err  Error
		want string
	}{
		{&LexerError{Kind: InvalidChar, Span: span, Char: '$'}, `1:5: invalid character '$'`},
		{&LexerError{Kind: UnterminatedString, Span: span}, "1:5: unterminated string literal"},
		{&ParserError{Kind: MissingToken, Span: span, Expected: "THEN", Token: token.Token{Kind: token.Newline}}, "1:5: expected THEN, found newline"},
		{&ParserError{Kind: MismatchedDelimiter, Span: span, Expected: ")", Token: token.Token{Kind: token.BracketClose, Text: "]"}}, `1:5: mismatched delimiter: expected ), found "]"`},
		{&ParserError{Kind: InvalidCode, Span: span, Token: token.Token{Kind: token.Number, Text: "10"}, Detail: "missing separator"}, "1:5: unexpected number(10) after end of statement (missing separator)"},
		{&SemanticError{Kind: TypeMismatch, Span: span, Expected: ast.Int}, "1:5: type mismatch, expected INT"},
		{&SemanticError{Kind: UndefinedIdentifier, Span: span, Name: "X"}, "1:5: undefined identifier X"},
		{&DeclarationError{Kind: MultipleDefinitions, Span: span, Name: "F"}, "1:5: F defined more than once"},
		{&MiscError{Kind: InvalidMacro, Span: span, Detail: "FN"}, "1:5: invalid macro: FN"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if got := Wrap(tests[0].err).Error(); got != `tokenizer error: 1:5: invalid character '$'` {
		t.Errorf("wrapped message = %q", got)
	}
}

func TestIsIncomplete(t *testing.T) {
	unterminated := &LexerError{Kind: UnterminatedString}
	eof := &ParserError{Kind: UnexpectedEndOfInput}
	other := &ParserError{Kind: UnexpectedToken}

	if !IsIncomplete(List{Wrap(unterminated)}) {
		t.Errorf("unterminated string should be incomplete")
	}
	if !IsIncomplete(List{Wrap(eof)}) {
		t.Errorf("unexpected end of input should be incomplete")
	}
	if IsIncomplete(List{Wrap(eof), Wrap(other)}) {
		t.Errorf("a real syntax error must not be reported as incomplete")
	}
	if IsIncomplete(List{}) || IsIncomplete(errors.New("boom")) {
		t.Errorf("unrelated errors must not be incomplete")
	}
}

func TestRender(t *testing.T) {
	src := "10 PRINT X\n20 PRINT 世$\n"
	var list List
	list.Add(&LexerError{Kind: InvalidChar, Span: token.Span{Line: 2, Column: 11, Length: 1}, Char: '$'})

	var buf bytes.Buffer
	Render(&buf, "main.bas", src, list)
	want := "main.bas:2:11: tokenizer error: invalid character '$'\n" +
		"    20 PRINT 世$\n" +
		"               ^\n"
	if got := buf.String(); got != want {
		t.Fatalf("Render mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderPlainError(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, "main.bas", "", errors.New("boom"))
	if got := buf.String(); got != "main.bas: boom\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
