package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
)

// execResult wraps a running command's stdout with lifecycle management.
// It implements io.ReadCloser; after Close the process has been waited on
// and ExitCode and Stderr return their final values.
type execResult struct {
	io.Reader
	cmd       *exec.Cmd
	ctx       context.Context
	stderr    *bytes.Buffer
	exitCode  int
	closeOnce sync.Once
}

// Close waits for the command to complete and captures the exit code.
// If the context was canceled or timed out, the entire process group is
// killed so no orphaned agent processes are left behind. Safe for
// concurrent calls; only the first performs cleanup.
func (r *execResult) Close() error {
	r.closeOnce.Do(func() {
		if closer, ok := r.Reader.(io.Closer); ok {
			_ = closer.Close()
		}

		if r.cmd != nil && r.cmd.Process != nil {
			pid := r.cmd.Process.Pid
			if r.ctx != nil && r.ctx.Err() != nil {
				// Negative PID kills the whole process group.
				_ = syscall.Kill(-pid, syscall.SIGKILL)
			}

			if err := r.cmd.Wait(); err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					r.exitCode = exitErr.ExitCode()
				} else {
					r.exitCode = -1
				}
			}
		}
	})
	return nil
}

// ExitCode returns the process exit code. Only valid after Close.
func (r *execResult) ExitCode() int {
	return r.exitCode
}

// Stderr returns captured stderr output. Only valid after Close.
func (r *execResult) Stderr() string {
	if r.stderr == nil {
		return ""
	}
	return r.stderr.String()
}

// startCommand launches an agent CLI invocation with its own process group
// and a stdout pipe for incremental reading. Stderr is buffered for error
// diagnostics.
func startCommand(ctx context.Context, workDir, command string, args []string) (*execResult, error) {
	// #nosec G204 - command is the configured agent CLI, not user input.
	cmd := exec.CommandContext(ctx, command, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}

	return &execResult{
		Reader: stdout,
		cmd:    cmd,
		ctx:    ctx,
		stderr: stderr,
	}, nil
}
