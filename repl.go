package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/unixsoft/usbasic/ast"
	"github.com/unixsoft/usbasic/compiler"
	"github.com/unixsoft/usbasic/diag"
)

func newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse snippets interactively",
		Long: `Read BASIC statements and print their syntax trees. Input that ends
inside an unfinished block or string keeps being read until it is complete.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := &session{
				compiler: compiler.New(),
				out:      cmd.OutOrStdout(),
				errOut:   cmd.ErrOrStderr(),
			}
			if !isInteractive() {
				s.runBuffered(bufio.NewReader(cmd.InOrStdin()))
				return
			}
			s.runInteractive()
		},
	}
}

type session struct {
	compiler *compiler.Compiler
	out      io.Writer
	errOut   io.Writer
}

// eval compiles one snippet. It reports false when the snippet is
// incomplete and more input should be read.
func (s *session) eval(src string, final bool) bool {
	res := s.compiler.CompileString("<repl>", src)
	if !res.OK() {
		if !final && diag.IsIncomplete(res.Err()) {
			return false
		}
		diag.Render(s.errOut, "<repl>", src, res.Err())
		return true
	}
	for _, stmt := range res.Unit.Root.Body {
		fmt.Fprintln(s.out, ast.Dump(stmt))
	}
	return true
}

func (s *session) runBuffered(reader *bufio.Reader) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(s.errOut, "read error: %v\n", err)
			return
		}
		atEOF := err != nil
		if atEOF && buffer.Len() == 0 && line == "" {
			return
		}
		buffer.WriteString(line)
		if s.eval(buffer.String(), atEOF) {
			buffer.Reset()
		}
		if atEOF {
			return
		}
	}
}

func (s *session) runInteractive() {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := "usbasic> "
		if buffer.Len() > 0 {
			prompt = "....     "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(s.out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(s.out)
				return
			default:
				fmt.Fprintf(s.errOut, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if !s.eval(src, false) {
			continue
		}
		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".usbasic_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
