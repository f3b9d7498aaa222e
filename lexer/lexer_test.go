package lexer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/profile"
	"github.com/unixsoft/usbasic/token"
)

type kt struct {
	kind token.Kind
	text string
}

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	tokens, errs := Tokenize(src, nil)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexer errors for %q: %v", src, errs)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EndOfInput {
		t.Fatalf("token stream for %q does not end with EndOfInput: %v", src, tokens)
	}
	return tokens[:len(tokens)-1]
}

func kinds(tokens []token.Token) []kt {
	out := make([]kt, len(tokens))
	for i, tok := range tokens {
		out[i] = kt{tok.Kind, tok.Text}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		src  string
		want []kt
	}{
		{"PRINT 5", []kt{{token.Keyword, "PRINT"}, {token.Number, "5"}}},
		{"10 PRINT5 10", []kt{{token.Number, "10"}, {token.Identifier, "PRINT5"}, {token.Number, "10"}}},
		{"5PRINT 10", []kt{{token.Number, "5"}, {token.Keyword, "PRINT"}, {token.Number, "10"}}},
		{`10 PRINT "Hello, World"`, []kt{{token.Number, "10"}, {token.Keyword, "PRINT"}, {token.StringLiteral, `"Hello, World"`}}},
		{"PRINT X <= 5", []kt{{token.Keyword, "PRINT"}, {token.Identifier, "X"}, {token.Operator, "<="}, {token.Number, "5"}}},
		{"print x", []kt{{token.Keyword, "print"}, {token.Identifier, "x"}}},
		{"A AND B or NOT C", []kt{
			{token.Identifier, "A"}, {token.Operator, "AND"}, {token.Identifier, "B"},
			{token.Operator, "or"}, {token.Operator, "NOT"}, {token.Identifier, "C"},
		}},
		{"ANDY ORB", []kt{{token.Identifier, "ANDY"}, {token.Identifier, "ORB"}}},
		{"X<>Y==Z!=1", []kt{
			{token.Identifier, "X"}, {token.Operator, "<>"}, {token.Identifier, "Y"},
			{token.Operator, "=="}, {token.Identifier, "Z"}, {token.Operator, "!="}, {token.Number, "1"},
		}},
		{"X<-1", []kt{{token.Identifier, "X"}, {token.Operator, "<"}, {token.Operator, "-"}, {token.Number, "1"}}},
		{"F(A, B[1]): G", []kt{
			{token.Identifier, "F"}, {token.ParenOpen, "("}, {token.Identifier, "A"}, {token.Comma, ","},
			{token.Identifier, "B"}, {token.BracketOpen, "["}, {token.Number, "1"}, {token.BracketClose, "]"},
			{token.ParenClose, ")"}, {token.Colon, ":"}, {token.Identifier, "G"},
		}},
		{"PRINT 1\n\nPRINT 2", []kt{
			{token.Keyword, "PRINT"}, {token.Number, "1"}, {token.Newline, ""}, {token.Newline, ""},
			{token.Keyword, "PRINT"}, {token.Number, "2"},
		}},
		{"DIM X AS INT = 5", []kt{
			{token.Keyword, "DIM"}, {token.Identifier, "X"}, {token.Keyword, "AS"}, {token.Keyword, "INT"},
			{token.Operator, "="}, {token.Number, "5"},
		}},
		{"X = 2^3", []kt{
			{token.Identifier, "X"}, {token.Operator, "="}, {token.Number, "2"}, {token.Operator, "^"}, {token.Number, "3"},
		}},
		{"10 GOTO 20: GOSUB 30", []kt{
			{token.Number, "10"}, {token.Keyword, "GOTO"}, {token.Number, "20"}, {token.Colon, ":"},
			{token.Keyword, "GOSUB"}, {token.Number, "30"},
		}},
		{"FOR I = 1 TO 9 STEP 2: NEXT I", []kt{
			{token.Keyword, "FOR"}, {token.Identifier, "I"}, {token.Operator, "="}, {token.Number, "1"},
			{token.Keyword, "TO"}, {token.Number, "9"}, {token.Keyword, "STEP"}, {token.Number, "2"},
			{token.Colon, ":"}, {token.Keyword, "NEXT"}, {token.Identifier, "I"},
		}},
		{"REM HGR2 HCOLOR= SGN(X)", []kt{
			{token.Keyword, "REM"}, {token.Keyword, "HGR2"}, {token.Keyword, "HCOLOR"}, {token.Operator, "="},
			{token.Identifier, "SGN"}, {token.ParenOpen, "("}, {token.Identifier, "X"}, {token.ParenClose, ")"},
		}},
		{" \t\r\n", []kt{{token.Newline, ""}}},
		{"", []kt{}},
	}
	for _, tt := range tests {
		got := kinds(lexAll(t, tt.src))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q)\n got: %v\nwant: %v", tt.src, got, tt.want)
		}
	}
}

func TestStringLiteralsStayRaw(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"plain"`, `"plain"`},
		{`"say \"hi\""`, `"say \"hi\""`},
		{`"back\\"`, `"back\\"`},
		{`"\n\t"`, `"\n\t"`},
		{`""`, `""`},
	}
	for _, tt := range tests {
		tokens := lexAll(t, tt.src)
		if len(tokens) != 1 || tokens[0].Kind != token.StringLiteral {
			t.Fatalf("Tokenize(%q) = %v, want one string", tt.src, tokens)
		}
		if tokens[0].Text != tt.want {
			t.Errorf("Tokenize(%q) text = %q, want %q", tt.src, tokens[0].Text, tt.want)
		}
		if tokens[0].Span.Length != len([]rune(tt.want)) {
			t.Errorf("Tokenize(%q) span length = %d", tt.src, tokens[0].Span.Length)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, errs := Tokenize(`10 PRINT "abc`, nil)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	err := errs[0]
	if err.Kind != diag.UnterminatedString {
		t.Fatalf("expected UnterminatedString, got %v", err)
	}
	if err.Span.Line != 1 || err.Span.Column != 10 {
		t.Fatalf("error anchored at %s, want 1:10", err.Span)
	}
	got := kinds(tokens)
	want := []kt{{token.Number, "10"}, {token.Keyword, "PRINT"}, {token.EndOfInput, ""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestUnterminatedStringAfterTrailingBackslash(t *testing.T) {
	_, errs := Tokenize(`"abc\`, nil)
	if len(errs) != 1 || errs[0].Kind != diag.UnterminatedString {
		t.Fatalf("expected one UnterminatedString, got %v", errs)
	}
}

func TestInvalidCharactersAccumulate(t *testing.T) {
	tokens, errs := Tokenize("X = 1 $ Y = 2 @", nil)
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %v", errs)
	}
	want := []struct {
		char rune
		col  int
	}{{'$', 7}, {'@', 15}}
	for i, w := range want {
		e := errs[i]
		if e.Kind != diag.InvalidChar || e.Char != w.char || e.Span.Line != 1 || e.Span.Column != w.col || e.Span.Length != 1 {
			t.Errorf("error %d = %+v, want InvalidChar %q at 1:%d", i, e, w.char, w.col)
		}
	}
	got := kinds(tokens)
	wantTokens := []kt{
		{token.Identifier, "X"}, {token.Operator, "="}, {token.Number, "1"},
		{token.Identifier, "Y"}, {token.Operator, "="}, {token.Number, "2"},
		{token.EndOfInput, ""},
	}
	if !reflect.DeepEqual(got, wantTokens) {
		t.Fatalf("tokens = %v, want %v", got, wantTokens)
	}
}

func TestCharactersOutsideTheProfileAreInvalid(t *testing.T) {
	for _, src := range []string{"!", "_", "٣", "#", "'", "\\", "."} {
		_, errs := Tokenize(src, nil)
		if len(errs) != 1 || errs[0].Kind != diag.InvalidChar || errs[0].Char != []rune(src)[0] {
			t.Errorf("Tokenize(%q) errors = %v, want one InvalidChar", src, errs)
		}
	}
}

func TestSpansAcrossLines(t *testing.T) {
	src := "PRINT 1\n  X = \"a\nb\" Y"
	tokens := lexAll(t, src)
	want := []struct {
		kind   token.Kind
		line   int
		col    int
		length int
		offset int
	}{
		{token.Keyword, 1, 1, 5, 0},
		{token.Number, 1, 7, 1, 6},
		{token.Newline, 1, 8, 1, 7},
		{token.Identifier, 2, 3, 1, 10},
		{token.Operator, 2, 5, 1, 12},
		{token.StringLiteral, 2, 7, 5, 14},
		{token.Identifier, 3, 4, 1, 20},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Kind != w.kind || tok.Span.Line != w.line || tok.Span.Column != w.col || tok.Span.Length != w.length || tok.Offset != w.offset {
			t.Errorf("token %d = %v at %s len %d off %d; want %v at %d:%d len %d off %d",
				i, tok, tok.Span, tok.Span.Length, tok.Offset, w.kind, w.line, w.col, w.length, w.offset)
		}
	}
}

func TestEndOfInputPosition(t *testing.T) {
	tokens, _ := Tokenize("AB\nC", nil)
	eof := tokens[len(tokens)-1]
	if eof.Kind != token.EndOfInput || eof.Span.Line != 2 || eof.Span.Column != 2 || eof.Span.Length != 0 || eof.Offset != 4 {
		t.Fatalf("unexpected end of input token %+v", eof)
	}
}

func TestFunctionFlag(t *testing.T) {
	tokens := lexAll(t, "LEN(S) + len(T) + FOO(U)")
	flags := map[string]bool{}
	for _, tok := range tokens {
		if tok.Kind == token.Identifier {
			flags[tok.Text] = tok.Function
		}
	}
	want := map[string]bool{"LEN": true, "S": false, "len": true, "T": false, "FOO": false, "U": false}
	if !reflect.DeepEqual(flags, want) {
		t.Fatalf("function flags = %v, want %v", flags, want)
	}
}

func TestRecognizerOrder(t *testing.T) {
	want := []string{"newline", "delimiter", "string", "integer", "operator", "keyword", "identifier"}
	if got := RecognizerOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("RecognizerOrder() = %v, want %v", got, want)
	}
}

func TestMinimalProfile(t *testing.T) {
	p := profile.New(nil, profile.Dialect{Keywords: []string{"SAY"}, Operators: []string{"+"}})
	tokens, errs := Tokenize("SAY 1+2 PRINT <", p)
	if len(errs) != 1 || errs[0].Char != '<' {
		t.Fatalf("expected '<' to be invalid under the minimal profile, got %v", errs)
	}
	got := kinds(tokens[:len(tokens)-1])
	want := []kt{
		{token.Keyword, "SAY"}, {token.Number, "1"}, {token.Operator, "+"}, {token.Number, "2"},
		{token.Identifier, "PRINT"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

// Re-scanning the text a token's span points at must give the same token.
func TestSpanRoundTrip(t *testing.T) {
	src := "10 DIM A1 AS STRING\n20 IF A1 <> B THEN PRINT LEN(A1), 42 : RETURN\n30 X = (Y >= 7) AND NOT Z"
	lines := strings.Split(src, "\n")
	tokens := lexAll(t, src)
	for _, tok := range tokens {
		if tok.Kind == token.Newline {
			continue
		}
		line := []rune(lines[tok.Span.Line-1])
		text := string(line[tok.Span.Column-1 : tok.Span.Column-1+tok.Span.Length])
		again, err := New(text, nil).Next()
		if err != nil {
			t.Fatalf("re-scanning %q: %v", text, err)
		}
		if again.Kind != tok.Kind || again.Text != tok.Text {
			t.Errorf("re-scanning %q gave %v, want %v", text, again, tok)
		}
	}
}

func TestTokenizeTerminatesAndWalksForward(t *testing.T) {
	const alphabet = "AZaz09 \t\n\"\\()[],:+-*/^=<>!$_.é٣"
	alpha := []rune(alphabet)
	seed := uint32(2463534242)
	next := func() uint32 {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		return seed
	}
	for i := 0; i < 500; i++ {
		n := int(next() % 40)
		src := make([]rune, n)
		for j := range src {
			src[j] = alpha[next()%uint32(len(alpha))]
		}
		tokens, errs := Tokenize(string(src), nil)
		if len(tokens)+len(errs) > n+1 {
			t.Fatalf("%q: %d tokens and %d errors from %d characters", string(src), len(tokens), len(errs), n)
		}
		if tokens[len(tokens)-1].Kind != token.EndOfInput {
			t.Fatalf("%q: stream does not end with EndOfInput", string(src))
		}
		prevOffset, prevLine, prevCol := -1, 0, 0
		for _, tok := range tokens {
			if tok.Offset <= prevOffset && tok.Kind != token.EndOfInput {
				t.Fatalf("%q: offsets not increasing at %v", string(src), tok)
			}
			if tok.Span.Line < prevLine || (tok.Span.Line == prevLine && tok.Span.Column < prevCol) {
				t.Fatalf("%q: position walk goes backwards at %v (%s)", string(src), tok, tok.Span)
			}
			prevOffset, prevLine, prevCol = tok.Offset, tok.Span.Line, tok.Span.Column
		}
	}
}
