// Package agent invokes the external coding-agent CLI and interprets its
// line-delimited output stream.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// AutonomousModePrompt is appended to the agent's system prompt for
// unattended invocations so it never stalls waiting for a human.
const AutonomousModePrompt = `You are running unattended as part of an automated review pipeline. ` +
	`There is no human to answer questions: never ask for confirmation or clarification, ` +
	`make reasonable decisions yourself, and finish the task in this single session.`

// maxLineSize accommodates large single-line stream-json events
// (tool results can carry whole files).
const maxLineSize = 10 * 1024 * 1024

// RunOptions configures a single agent invocation.
type RunOptions struct {
	// Stream renders output incrementally through the stream-json parser
	// instead of buffering a text blob.
	Stream bool
	// SkipPermissions runs the agent with auto-approved permissions so
	// unattended invocations do not stall on interactive confirmation.
	SkipPermissions bool
	// AppendSystemPrompt is extra text appended to the agent's system prompt.
	AppendSystemPrompt string
}

// Runner executes one agent invocation to completion and reports the
// captured output text and the process exit code. Implementations block
// until the process terminates; the exit code is only known afterwards.
type Runner interface {
	Run(ctx context.Context, prompt string, opts RunOptions) (output string, exitCode int, err error)
}

// Compile-time interface check
var _ Runner = (*ClaudeRunner)(nil)

// ClaudeRunner invokes the claude CLI in print mode.
type ClaudeRunner struct {
	// WorkDir is the working directory for the agent process.
	WorkDir string
	// Command is the CLI executable, "claude" by default.
	Command string
	// Verbose passes --verbose through to the CLI.
	Verbose bool
	// Stdout receives streamed or raw output, os.Stdout by default.
	Stdout io.Writer
	// Stderr receives the process's stderr, os.Stderr by default.
	Stderr io.Writer
}

// NewClaudeRunner creates a runner for the claude CLI rooted at workDir.
func NewClaudeRunner(workDir string, verbose bool) *ClaudeRunner {
	return &ClaudeRunner{
		WorkDir: workDir,
		Command: "claude",
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// IsAvailable checks that the claude CLI is installed and on PATH.
func (c *ClaudeRunner) IsAvailable() error {
	if _, err := exec.LookPath(c.command()); err != nil {
		return fmt.Errorf("%s CLI not found in PATH: %w", c.command(), err)
	}
	return nil
}

func (c *ClaudeRunner) command() string {
	if c.Command == "" {
		return "claude"
	}
	return c.Command
}

// buildArgs assembles the print-mode argument list for one invocation.
func (c *ClaudeRunner) buildArgs(prompt string, opts RunOptions) []string {
	args := []string{}
	if c.Verbose {
		args = append(args, "--verbose")
	}

	args = append(args, "--print", prompt)

	// stream-json output requires --verbose even when raw events are not
	// being displayed.
	if opts.Stream && !c.Verbose {
		args = append(args, "--verbose")
	}

	if opts.SkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}
	if opts.AppendSystemPrompt != "" {
		args = append(args, "--append-system-prompt", opts.AppendSystemPrompt)
	}
	if opts.Stream {
		args = append(args, "--output-format", "stream-json")
	}

	return args
}

// Run executes the claude CLI with the given prompt and returns the
// accumulated output text and exit code. In streaming mode each stream-json
// line is parsed as it arrives; the extracted fragments are echoed to Stdout
// and concatenated into the returned text. In buffered mode raw output is
// echoed and returned as-is.
func (c *ClaudeRunner) Run(ctx context.Context, prompt string, opts RunOptions) (string, int, error) {
	if err := c.IsAvailable(); err != nil {
		return "", -1, err
	}

	result, err := startCommand(ctx, c.WorkDir, c.command(), c.buildArgs(prompt, opts))
	if err != nil {
		return "", -1, err
	}

	var collected strings.Builder

	scanner := bufio.NewScanner(result)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if opts.Stream {
			fragment, ok := ParseStreamLine(strings.TrimSpace(line))
			if !ok {
				continue
			}
			collected.WriteString(fragment)
			fmt.Fprint(c.stdout(), fragment)
		} else {
			collected.WriteString(line)
			collected.WriteString("\n")
			fmt.Fprintln(c.stdout(), line)
		}
	}
	scanErr := scanner.Err()

	_ = result.Close()

	if stderr := result.Stderr(); stderr != "" {
		fmt.Fprint(c.stderr(), stderr)
	}

	if scanErr != nil {
		return collected.String(), result.ExitCode(), fmt.Errorf("reading %s output: %w", c.command(), scanErr)
	}

	return collected.String(), result.ExitCode(), nil
}

func (c *ClaudeRunner) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *ClaudeRunner) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}
