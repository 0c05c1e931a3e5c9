package runexec_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"hubportal/internal/runexec"
	"hubportal/internal/services"
)

func TestRunCapturesCombinedOutput(t *testing.T) {
	t.Parallel()

	result, err := runexec.Run(context.Background(), runexec.Command{
		Binary:  "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2"},
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("unexpected exit code %d", result.ExitCode)
	}
	if !strings.Contains(result.Output, "out") || !strings.Contains(result.Output, "err") {
		t.Fatalf("expected combined streams, got %q", result.Output)
	}
}

func TestRunReportsNonzeroExitWithoutError(t *testing.T) {
	t.Parallel()

	result, err := runexec.Run(context.Background(), runexec.Command{
		Binary:  "sh",
		Args:    []string{"-c", "echo No DFU devices found.; exit 3"},
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Output, "No DFU devices found.") {
		t.Fatalf("expected tool output preserved, got %q", result.Output)
	}
}

func TestRunTimeoutKillsProcessTree(t *testing.T) {
	t.Parallel()

	pidFile := filepath.Join(t.TempDir(), "child.pid")
	script := "sleep 30 & echo $! > " + pidFile + "; wait"

	start := time.Now()
	result, err := runexec.Run(context.Background(), runexec.Command{
		Binary:  "sh",
		Args:    []string{"-c", script},
		Timeout: 200 * time.Millisecond,
	})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("timeout took too long: %s", elapsed)
	}
	if result.Output != "" {
		t.Fatalf("partial output must be discarded on timeout, got %q", result.Output)
	}

	data, readErr := os.ReadFile(pidFile)
	if readErr != nil {
		t.Fatalf("read child pid: %v", readErr)
	}
	pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if convErr != nil {
		t.Fatalf("parse child pid: %v", convErr)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if unix.Kill(pid, 0) != nil {
			break // child is gone
		}
		if time.Now().After(deadline) {
			t.Fatalf("child process %d still running after timeout", pid)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestRunMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := runexec.Run(context.Background(), runexec.Command{
		Binary:  "hubportal-no-such-tool",
		Timeout: time.Second,
	})
	if !errors.Is(err, services.ErrToolMissing) {
		t.Fatalf("expected missing-tool error, got %v", err)
	}
}

func TestLookPath(t *testing.T) {
	t.Parallel()

	if _, err := runexec.LookPath("sh"); err != nil {
		t.Fatalf("LookPath sh: %v", err)
	}
	if _, err := runexec.LookPath("hubportal-no-such-tool"); !errors.Is(err, services.ErrToolMissing) {
		t.Fatalf("expected missing-tool error, got %v", err)
	}
}

func TestRunRespectsCallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	_, err := runexec.Run(ctx, runexec.Command{
		Binary:  "sh",
		Args:    []string{"-c", "sleep 30"},
		Timeout: time.Minute,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
