// Package stdlib describes the UnixSoft BASIC standard-library functions.
//
// The table is decoded from functions.yaml, embedded at build time. The
// front end only reads it: the lexer flags identifiers that name a
// function and the parser uses the calling convention to decide whether
// a statement is a positional call such as PRINT A, B.
package stdlib

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/unixsoft/usbasic/ast"
)

//go:embed functions.yaml
var functionsYAML []byte

// Convention is a calling convention.
type Convention int

const (
	Positional Convention = iota + 1
	Enclosed
)

func (c Convention) String() string {
	switch c {
	case Positional:
		return "positional"
	case Enclosed:
		return "enclosed"
	default:
		return "unknown"
	}
}

// Function is one entry of the table. Returns is zero for procedures.
type Function struct {
	Name       string
	Returns    ast.DataType
	Params     []ast.DataType
	Variadic   bool
	Convention Convention
}

// Table holds the functions of both calling conventions.
type Table struct {
	Positional []Function
	Enclosed   []Function

	index map[string]*Function
}

type rawFunction struct {
	Name     string   `yaml:"name"`
	Returns  string   `yaml:"returns"`
	Params   []string `yaml:"params"`
	Variadic bool     `yaml:"variadic"`
}

type rawTable struct {
	Positional []rawFunction `yaml:"positional"`
	Enclosed   []rawFunction `yaml:"enclosed"`
}

// Parse decodes a table description.
func Parse(data []byte) (*Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("stdlib: %w", err)
	}
	t := &Table{index: make(map[string]*Function)}
	var err error
	if t.Positional, err = convert(raw.Positional, Positional); err != nil {
		return nil, err
	}
	if t.Enclosed, err = convert(raw.Enclosed, Enclosed); err != nil {
		return nil, err
	}
	for _, group := range [][]Function{t.Positional, t.Enclosed} {
		for i := range group {
			key := strings.ToUpper(group[i].Name)
			if _, dup := t.index[key]; dup {
				return nil, fmt.Errorf("stdlib: function %s defined twice", group[i].Name)
			}
			t.index[key] = &group[i]
		}
	}
	return t, nil
}

func convert(raws []rawFunction, conv Convention) ([]Function, error) {
	out := make([]Function, 0, len(raws))
	for _, r := range raws {
		if r.Name == "" {
			return nil, fmt.Errorf("stdlib: %s function without a name", conv)
		}
		fn := Function{
			Name:       r.Name,
			Variadic:   r.Variadic,
			Convention: conv,
		}
		if r.Returns != "" {
			dt, ok := ast.ParseDataType(r.Returns)
			if !ok {
				return nil, fmt.Errorf("stdlib: %s: unknown return type %q", r.Name, r.Returns)
			}
			fn.Returns = dt
		}
		for _, p := range r.Params {
			dt, ok := ast.ParseDataType(p)
			if !ok {
				return nil, fmt.Errorf("stdlib: %s: unknown parameter type %q", r.Name, p)
			}
			fn.Params = append(fn.Params, dt)
		}
		if fn.Variadic && len(fn.Params) == 0 {
			return nil, fmt.Errorf("stdlib: %s: variadic function needs a parameter type", r.Name)
		}
		out = append(out, fn)
	}
	return out, nil
}

// Lookup finds a function by name, ignoring case.
func (t *Table) Lookup(name string) (*Function, bool) {
	fn, ok := t.index[strings.ToUpper(name)]
	return fn, ok
}

// Names returns every function name, positional first.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Positional)+len(t.Enclosed))
	for _, fn := range t.Positional {
		names = append(names, fn.Name)
	}
	for _, fn := range t.Enclosed {
		names = append(names, fn.Name)
	}
	return names
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(functionsYAML)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
