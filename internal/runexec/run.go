package runexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"hubportal/internal/services"
)

var (
	commandContext = exec.CommandContext
	lookPath       = exec.LookPath
)

// killWaitDelay bounds how long Wait blocks on I/O after the process group
// has been killed.
const killWaitDelay = 5 * time.Second

// Command describes one bounded external-process invocation.
type Command struct {
	Binary  string
	Args    []string
	Dir     string
	Timeout time.Duration
}

// Result carries the outcome of a completed invocation. A nonzero ExitCode
// is not an error at this layer; callers classify the captured output.
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// LookPath resolves binary on the host search path, returning a typed
// missing-tool error when it cannot be found.
func LookPath(binary string) (string, error) {
	path, err := lookPath(binary)
	if err != nil {
		return "", services.Wrap(services.ErrToolMissing, "runexec", binary, "executable not found on search path", err)
	}
	return path, nil
}

// Run executes the command and waits for it to exit. On deadline expiry the
// process group is killed, partial output is discarded, and a typed timeout
// error is returned.
func Run(ctx context.Context, command Command) (Result, error) {
	if strings.TrimSpace(command.Binary) == "" {
		return Result{}, fmt.Errorf("runexec: binary required")
	}

	runCtx := ctx
	if command.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, command.Timeout)
		defer cancel()
	}

	cmd := commandContext(runCtx, command.Binary, command.Args...) //nolint:gosec
	cmd.Dir = command.Dir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	// Each invocation gets its own process group so the deadline kill
	// reaches tool children, not just the immediate process.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = killWaitDelay

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return Result{Duration: elapsed}, services.Wrap(
			services.ErrTimeout,
			"runexec",
			command.Binary,
			fmt.Sprintf("terminated after exceeding %s", command.Timeout),
			nil,
		)
	}
	if ctx.Err() != nil {
		return Result{Duration: elapsed}, ctx.Err()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return Result{Output: output.String(), ExitCode: exitErr.ExitCode(), Duration: elapsed}, nil
		}
		if errors.Is(runErr, exec.ErrNotFound) {
			return Result{}, services.Wrap(services.ErrToolMissing, "runexec", command.Binary, "executable not found on search path", runErr)
		}
		return Result{Duration: elapsed}, fmt.Errorf("run %s: %w", command.Binary, runErr)
	}

	return Result{Output: output.String(), Duration: elapsed}, nil
}
