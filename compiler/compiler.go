// Package compiler drives the UnixSoft BASIC front end: it reads a source
// file and runs an ordered list of stages over it, collecting every
// diagnostic they report.
package compiler

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/lexer"
	"github.com/unixsoft/usbasic/parser"
	"github.com/unixsoft/usbasic/profile"
	"github.com/unixsoft/usbasic/token"
)

var log = commonlog.GetLogger("usbasic.compiler")

// Unit is one source file moving through the stages. Each stage fills in
// the fields it is responsible for.
type Unit struct {
	Name    string
	Source  string
	Context parser.EvaluationContext
	Tokens  []token.Token
	Root    *ast.Scope
}

// Stage is one step of the pipeline. It returns the diagnostics it found,
// in the order it found them.
type Stage struct {
	Name string
	Run  func(u *Unit, p *profile.LanguageProfile) []diag.Error
}

// Result is the outcome of a compilation.
type Result struct {
	Unit   *Unit
	Errors diag.List
	// Completed names the stages that ran.
	Completed []string
}

// OK reports whether the compilation produced no diagnostics.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Err returns the diagnostics as an error, or nil.
func (r *Result) Err() error { return r.Errors.Err() }

// Compiler runs stages over source units.
type Compiler struct {
	profile   *profile.LanguageProfile
	stages    []Stage
	keepGoing bool
	context   parser.EvaluationContext
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithProfile selects the language profile. The default is profile.Default.
func WithProfile(p *profile.LanguageProfile) Option {
	return func(c *Compiler) { c.profile = p }
}

// WithKeepGoing makes the compiler run later stages even after a stage
// reported errors. Otherwise compilation stops at the first failing stage.
func WithKeepGoing(keepGoing bool) Option {
	return func(c *Compiler) { c.keepGoing = keepGoing }
}

// WithStage appends a stage after the built-in ones.
func WithStage(s Stage) Option {
	return func(c *Compiler) { c.stages = append(c.stages, s) }
}

// WithContext sets the evaluation context the parser starts in.
func WithContext(ctx parser.EvaluationContext) Option {
	return func(c *Compiler) { c.context = ctx }
}

// New creates a compiler with the lex and parse stages followed by any
// stages added through options.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		stages:  []Stage{LexStage, ParseStage},
		context: parser.FileLevel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.profile == nil {
		c.profile = profile.Default()
	}
	return c
}

// Stages lists the stage names in the order they run.
func (c *Compiler) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name
	}
	return names
}

// CompileFile reads path and compiles it. Failing to read the file is
// returned as an error; problems in the source are reported in the Result.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return c.CompileString(path, string(data)), nil
}

// CompileString compiles src under the given name.
func (c *Compiler) CompileString(name, src string) *Result {
	res := &Result{Unit: &Unit{Name: name, Source: src, Context: c.context}}
	for _, stage := range c.stages {
		log.Debugf("%s: running %s stage", name, stage.Name)
		errs := stage.Run(res.Unit, c.profile)
		res.Completed = append(res.Completed, stage.Name)
		res.Errors.Add(errs...)
		if len(errs) > 0 {
			log.Debugf("%s: %s stage reported %d error(s)", name, stage.Name, len(errs))
			if !c.keepGoing {
				break
			}
		}
	}
	log.Infof("%s: compiled with %d error(s)", name, len(res.Errors))
	return res
}

// LexStage tokenizes the unit's source.
var LexStage = Stage{
	Name: "lex",
	Run: func(u *Unit, p *profile.LanguageProfile) []diag.Error {
		tokens, errs := lexer.Tokenize(u.Source, p)
		u.Tokens = tokens
		out := make([]diag.Error, len(errs))
		for i, err := range errs {
			out[i] = err
		}
		return out
	},
}

// ParseStage builds the syntax tree from the unit's tokens.
var ParseStage = Stage{
	Name: "parse",
	Run: func(u *Unit, p *profile.LanguageProfile) []diag.Error {
		root, errs := parser.New(u.Tokens, u.Context, p).Parse()
		u.Root = root
		out := make([]diag.Error, len(errs))
		for i, err := range errs {
			out[i] = err
		}
		return out
	},
}
