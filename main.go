package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// version is overridden at link time.
var version = "0.1.0-dev"

// errFailed reports that diagnostics were already printed.
var errFailed = errors.New("compilation failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "usbasic: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int
	root := &cobra.Command{
		Use:   "usbasic",
		Short: "UnixSoft BASIC compiler and project tool",
		Long:  `usbasic compiles UnixSoft BASIC programs and manages their projects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	root.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")

	root.AddCommand(
		newInitCmd(),
		newBuildCmd(),
		newRunCmd(),
		newTokensCmd(),
		newParseCmd(),
		newREPLCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "usbasic %s\n", version)
		},
	}
}
