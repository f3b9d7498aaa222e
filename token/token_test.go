package token

import (
	"strings"
	"testing"
)

func TestTokenIsIgnoresCase(t *testing.T) {
	tok := Token{Kind: Keyword, Text: "print"}
	if !tok.Is(Keyword, "PRINT") {
		t.Fatalf("expected %v to match PRINT", tok)
	}
	if tok.Is(Identifier, "PRINT") {
		t.Fatalf("kind mismatch must not match")
	}
	if tok.Is(Keyword, "PRINT5") {
		t.Fatalf("different text must not match")
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: Number, Text: "10"}, "number(10)"},
		{Token{Kind: Keyword, Text: "PRINT"}, "keyword(PRINT)"},
		{Token{Kind: ParenOpen, Text: "("}, `"("`},
		{Token{Kind: Newline}, "newline"},
		{Token{Kind: EndOfInput}, "end of input"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestSpanString(t *testing.T) {
	span := Span{Line: 3, Column: 7, Length: 2}
	if got := span.String(); got != "3:7" {
		t.Fatalf("span.String() = %q, want 3:7", got)
	}
	if !span.IsValid() {
		t.Fatalf("expected span to be valid")
	}
	if (Span{}).IsValid() {
		t.Fatalf("zero span must not be valid")
	}
}

func TestStreamPreservesTokens(t *testing.T) {
	tokens := []Token{
		{Kind: Number, Text: "10", Offset: 0, Span: Span{Line: 1, Column: 1, Length: 2}},
		{Kind: Keyword, Text: "PRINT", Offset: 3, Span: Span{Line: 1, Column: 4, Length: 5}},
		{Kind: Identifier, Text: "LEN", Offset: 9, Span: Span{Line: 1, Column: 10, Length: 3}, Function: true},
		{Kind: EndOfInput, Offset: 12, Span: Span{Line: 1, Column: 13}},
	}
	data, err := MarshalStream("main.bas", tokens)
	if err != nil {
		t.Fatalf("MarshalStream: %v", err)
	}
	stream, err := UnmarshalStream(data)
	if err != nil {
		t.Fatalf("UnmarshalStream: %v", err)
	}
	if stream.Source != "main.bas" {
		t.Fatalf("source = %q, want main.bas", stream.Source)
	}
	if len(stream.Tokens) != len(tokens) {
		t.Fatalf("expected %d tokens, got %d", len(tokens), len(stream.Tokens))
	}
	for i := range tokens {
		if stream.Tokens[i] != tokens[i] {
			t.Errorf("token %d: got %#v, want %#v", i, stream.Tokens[i], tokens[i])
		}
	}
}

func TestUnmarshalStreamRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalStream([]byte{0x82}); err == nil || !strings.Contains(err.Error(), "unmarshal stream") {
		t.Fatalf("expected unmarshal error, got %v", err)
	}
}
