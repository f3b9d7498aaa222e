// Package profile bundles the vocabulary the lexer and parser work with.
//
// A LanguageProfile is composed of dialect layers. Membership tests check
// the union of all layers, so a word is a keyword when any layer lists it.
package profile

import (
	"strings"
	"unicode"

	"github.com/unixsoft/usbasic/stdlib"
)

// Dialect is one layer of vocabulary.
type Dialect struct {
	Name      string
	Keywords  []string
	Operators []string
}

// Legacy is the classic BASIC layer. Keywords spelled with a trailing =
// or : (HCOLOR=, HIMEM:) are listed by their stem; the punctuation lexes
// as its own token.
var Legacy = Dialect{
	Name: "legacy",
	Keywords: []string{
		"END", "FOR", "NEXT", "DATA", "INPUT", "DEL", "DIM", "READ", "GR",
		"TEXT", "CALL", "PLOT", "HLIN", "VLIN", "HGR2", "HGR", "HCOLOR",
		"HPLOT", "DRAW", "XDRAW", "HTAB", "HOME", "ROT", "SCALE", "SHLOAD",
		"TRACE", "NOTRACE", "NORMAL", "INVERSE", "FLASH", "COLOR", "POP",
		"VTAB", "HIMEM", "LOMEM", "ONERR", "RESUME", "RECALL", "STORE",
		"SPEED", "LET", "GOTO", "RUN", "IF", "RESTORE", "GOSUB", "RETURN",
		"REM", "STOP", "ON", "WAIT", "LOAD", "SAVE", "DEF", "POKE", "PRINT",
		"CONT", "LIST", "CLEAR", "GET", "NEW", "TO", "FN", "THEN", "AT",
		"STEP", "ELSE",
	},
	Operators: []string{"+", "-", "*", "/", "^", ">", "=", "<", "<>", "AND", "OR", "NOT"},
}

// Native is the UnixSoft extension layer.
var Native = Dialect{
	Name:      "native",
	Keywords:  []string{"CONST", "AS", "BEGIN", "IMPORT", "TRUE", "FALSE", "INT", "FLOAT", "STRING", "BOOL"},
	Operators: []string{">=", "<=", "!=", "=="},
}

// Delimiters are the single-character punctuation tokens.
const Delimiters = "()[],:"

// LanguageProfile is an immutable set of keywords, operators, functions
// and delimiters.
type LanguageProfile struct {
	keywords    map[string]bool
	operators   map[string]bool
	symbols     map[rune]bool
	delimiters  map[rune]bool
	functions   map[string]bool
	table       *stdlib.Table
	maxOperator int
}

// New builds a profile from dialect layers and a function table. A nil
// table leaves the function set empty.
func New(table *stdlib.Table, layers ...Dialect) *LanguageProfile {
	p := &LanguageProfile{
		keywords:   make(map[string]bool),
		operators:  make(map[string]bool),
		symbols:    make(map[rune]bool),
		delimiters: make(map[rune]bool),
		functions:  make(map[string]bool),
		table:      table,
	}
	for _, layer := range layers {
		for _, kw := range layer.Keywords {
			p.keywords[strings.ToUpper(kw)] = true
		}
		for _, op := range layer.Operators {
			p.operators[strings.ToUpper(op)] = true
			if isWord(op) {
				continue
			}
			for _, r := range op {
				p.symbols[r] = true
			}
			if n := len([]rune(op)); n > p.maxOperator {
				p.maxOperator = n
			}
		}
	}
	for _, r := range Delimiters {
		p.delimiters[r] = true
	}
	if table != nil {
		for _, name := range table.Names() {
			p.functions[strings.ToUpper(name)] = true
		}
	}
	return p
}

// Default is the union of the Legacy and Native layers with the built-in
// standard library.
func Default() *LanguageProfile {
	return New(stdlib.Default(), Legacy, Native)
}

// IsKeyword reports whether word is a keyword of any layer, ignoring case.
func (p *LanguageProfile) IsKeyword(word string) bool {
	return p.keywords[strings.ToUpper(word)]
}

// IsOperator reports whether word is an operator of any layer. Word
// operators such as AND match regardless of case.
func (p *LanguageProfile) IsOperator(word string) bool {
	return p.operators[strings.ToUpper(word)]
}

// IsOperatorSymbol reports whether r occurs in a symbolic operator.
func (p *LanguageProfile) IsOperatorSymbol(r rune) bool {
	return p.symbols[r]
}

// IsDelimiter reports whether r is a delimiter.
func (p *LanguageProfile) IsDelimiter(r rune) bool {
	return p.delimiters[r]
}

// IsFunction reports whether name is a standard-library function.
func (p *LanguageProfile) IsFunction(name string) bool {
	return p.functions[strings.ToUpper(name)]
}

// Function returns the standard-library entry for name.
func (p *LanguageProfile) Function(name string) (*stdlib.Function, bool) {
	if p.table == nil {
		return nil, false
	}
	return p.table.Lookup(name)
}

// LongestOperator returns the length in runes of the longest operator
// prefix of run, or 0 if no prefix is an operator.
func (p *LanguageProfile) LongestOperator(run []rune) int {
	n := len(run)
	if n > p.maxOperator {
		n = p.maxOperator
	}
	for ; n > 0; n-- {
		if p.operators[string(run[:n])] {
			return n
		}
	}
	return 0
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
