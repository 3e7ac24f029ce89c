// Package main provides the CLI entry point for the review loop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reviewkit/reviewkit/internal/terminal"
)

var version = "dev"

// exitCodeError carries an exit code through cobra without printing an
// error message.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

const (
	exitOK          = 0
	exitFindings    = 1
	exitError       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "rvk",
		Short: "Unattended review and fix loop for agent-driven development",
		Long: `Run configured reviewers against the project, fix what they find, and
commit the fixes, all without a human in the loop.

Exit codes:
  0 - All reviewers passed
  1 - One or more reviewers failed
  2 - Error
  130 - Interrupted`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newInitCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func setupTerminal() *terminal.Logger {
	if !terminal.IsStdoutTTY() {
		terminal.SetColorsEnabled(false)
	}
	return terminal.NewLogger()
}
