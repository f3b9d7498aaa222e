package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/compiler"
	"github.com/unixsoft/usbasic/diag"
	"github.com/unixsoft/usbasic/lexer"
	"github.com/unixsoft/usbasic/project"
	"github.com/unixsoft/usbasic/token"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new project",
		Long: `Create a new project in the given directory, creating it if it does
not exist. The project gets build/, obj/ and src/ directories, a starter
program in src/main.bas and a usbasic.toml manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			m, err := project.Init(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %s in %s\n", m.Project.Name, m.Dir)
			return nil
		},
	}
}

// target is what build and run compile: an explicit file, or the entry of
// the project found from the working directory.
type target struct {
	path     string
	manifest *project.Manifest
}

func resolveTarget(args []string) (*target, error) {
	if len(args) > 0 {
		return &target{path: args[0]}, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, err := project.FindAndLoad(cwd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("no %s found in %s or its parents", project.ManifestName, cwd)
	}
	return &target{path: m.EntryPath(), manifest: m}, nil
}

// compileTarget compiles t and prints its diagnostics. It returns
// errFailed when there were any.
func compileTarget(cmd *cobra.Command, t *target, keepGoing bool) (*compiler.Result, error) {
	if t.manifest != nil && t.manifest.Build.KeepGoing {
		keepGoing = true
	}
	res, err := compiler.New(compiler.WithKeepGoing(keepGoing)).CompileFile(t.path)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		diag.Render(cmd.ErrOrStderr(), displayName(t.path), res.Unit.Source, res.Err())
		return res, errFailed
	}
	return res, nil
}

func displayName(path string) string {
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

// writeTokens stores the token stream of a clean compile under the
// project's objects directory.
func writeTokens(m *project.Manifest, res *compiler.Result) (string, error) {
	data, err := token.MarshalStream(res.Unit.Source, res.Unit.Tokens)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(m.Build.Entry), filepath.Ext(m.Build.Entry))
	if err := os.MkdirAll(m.ObjectsDir(), 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(m.ObjectsDir(), base+".tok")
	return out, os.WriteFile(out, data, 0o644)
}

func newBuildCmd() *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile the current project or a single file",
		Long: `Compile a single file, or without arguments the entry file of the
project containing the working directory. A project build stores the token
stream in the objects directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTarget(args)
			if err != nil {
				return err
			}
			res, err := compileTarget(cmd, t, keepGoing)
			if err != nil {
				return err
			}
			if t.manifest != nil {
				out, err := writeTokens(t.manifest, res)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "built %s -> %s\n", displayName(t.path), displayName(out))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %s\n", displayName(t.path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "parse even when the source has lexical errors")
	return cmd
}

func newRunCmd() *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile and run the current project or a single file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveTarget(args)
			if err != nil {
				return err
			}
			if _, err := compileTarget(cmd, t, keepGoing); err != nil {
				return err
			}
			return fmt.Errorf("%s compiled, but running programs is not supported yet", displayName(t.path))
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "parse even when the source has lexical errors")
	return cmd
}

func newTokensCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "tokens file",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			src := string(data)
			tokens, errs := lexer.Tokenize(src, nil)
			w := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(w, "%-8s %s\n", tok.Span, tok)
			}
			if output != "" {
				stream, err := token.MarshalStream(src, tokens)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, stream, 0o644); err != nil {
					return err
				}
			}
			if len(errs) > 0 {
				var list diag.List
				for _, e := range errs {
					list.Add(e)
				}
				diag.Render(cmd.ErrOrStderr(), args[0], src, list)
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the stream as CBOR to this file")
	return cmd
}

func newParseCmd() *cobra.Command {
	var keepGoing bool
	cmd := &cobra.Command{
		Use:   "parse file",
		Short: "Print the syntax tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := compiler.New(compiler.WithKeepGoing(keepGoing)).CompileFile(args[0])
			if err != nil {
				return err
			}
			if res.Unit.Root != nil {
				for _, stmt := range res.Unit.Root.Body {
					fmt.Fprintln(cmd.OutOrStdout(), ast.Dump(stmt))
				}
			}
			if !res.OK() {
				diag.Render(cmd.ErrOrStderr(), args[0], res.Unit.Source, res.Err())
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "parse even when the source has lexical errors")
	return cmd
}
