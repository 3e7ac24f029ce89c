package agent

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestStartCommandCapturesOutput(t *testing.T) {
	result, err := startCommand(context.Background(), "", "sh", []string{"-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("startCommand() error = %v", err)
	}

	out, err := io.ReadAll(result)
	if err != nil {
		t.Fatalf("reading stdout: %v", err)
	}
	if err := result.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if string(out) != "out\n" {
		t.Errorf("stdout = %q, want %q", out, "out\n")
	}
	if !strings.Contains(result.Stderr(), "err") {
		t.Errorf("Stderr() = %q, want captured stderr", result.Stderr())
	}
	if result.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0", result.ExitCode())
	}
}

func TestStartCommandExitCode(t *testing.T) {
	result, err := startCommand(context.Background(), "", "sh", []string{"-c", "exit 7"})
	if err != nil {
		t.Fatalf("startCommand() error = %v", err)
	}

	_, _ = io.ReadAll(result)
	_ = result.Close()

	if result.ExitCode() != 7 {
		t.Errorf("ExitCode() = %d, want 7", result.ExitCode())
	}
}

func TestStartCommandMissingBinary(t *testing.T) {
	_, err := startCommand(context.Background(), "", "definitely-not-a-real-binary", nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestStartCommandCancelKillsProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	result, err := startCommand(ctx, "", "sh", []string{"-c", "sleep 30"})
	if err != nil {
		t.Fatalf("startCommand() error = %v", err)
	}

	cancel()

	done := make(chan struct{})
	go func() {
		_, _ = io.ReadAll(result)
		_ = result.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process not reaped after cancellation")
	}

	if result.ExitCode() == 0 {
		t.Error("ExitCode() = 0 for a killed process")
	}

	// Close is idempotent.
	if err := result.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStartCommandWorkDir(t *testing.T) {
	dir := t.TempDir()
	result, err := startCommand(context.Background(), dir, "pwd", nil)
	if err != nil {
		t.Fatalf("startCommand() error = %v", err)
	}

	out, _ := io.ReadAll(result)
	_ = result.Close()

	if !strings.Contains(strings.TrimSpace(string(out)), dir[strings.LastIndex(dir, "/")+1:]) {
		t.Errorf("pwd = %q, want it to end with the temp dir", out)
	}
}
