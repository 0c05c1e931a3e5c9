package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"hubportal/internal/config"
	"hubportal/internal/logging"
	"hubportal/internal/pysyntax"
	"hubportal/internal/runexec"
	"hubportal/internal/services"
	"hubportal/internal/workspace"
)

const artifactExtension = ".mpy"

// Result reports a compile outcome. BytecodeProduced distinguishes a real
// compile from the syntax-only soft degrade used when the cross-compiler is
// not installed on this host.
type Result struct {
	Succeeded        bool
	Message          string
	Size             int64
	BytecodeProduced bool
}

// Artifact carries compiled bytecode for the download path.
type Artifact struct {
	Name string
	Data []byte
}

// Option configures the compiler.
type Option func(*Compiler)

// WithBinary overrides the configured cross-compiler executable.
func WithBinary(binary string) Option {
	return func(c *Compiler) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithLookPath overrides executable resolution (used in tests).
func WithLookPath(look func(string) (string, error)) Option {
	return func(c *Compiler) {
		if look != nil {
			c.look = look
		}
	}
}

// WithRunner overrides subprocess execution (used in tests).
func WithRunner(run func(context.Context, runexec.Command) (runexec.Result, error)) Option {
	return func(c *Compiler) {
		if run != nil {
			c.run = run
		}
	}
}

// Compiler wraps the mpy-cross command-line cross-compiler.
type Compiler struct {
	binary     string
	timeout    time.Duration
	workspaces *workspace.Manager
	checker    *pysyntax.Checker
	logger     *slog.Logger

	look func(string) (string, error)
	run  func(context.Context, runexec.Command) (runexec.Result, error)
}

// New constructs a Compiler from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Compiler {
	c := &Compiler{
		binary:     cfg.Tools.MpyCross,
		timeout:    time.Duration(cfg.Tools.CompileTimeoutSeconds) * time.Second,
		workspaces: workspace.NewManager(cfg.Paths.WorkspaceDir),
		checker:    pysyntax.NewChecker(),
		logger:     logging.NewComponentLogger(logger, "compiler"),
		look:       runexec.LookPath,
		run:        runexec.Run,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckSyntax validates source without compiling. It never shells out and
// never returns an error; invalid source is a result value.
func (c *Compiler) CheckSyntax(source string) pysyntax.Result {
	return c.checker.Check(source)
}

// Compile cross-compiles source to bytecode and reports the artifact size.
func (c *Compiler) Compile(ctx context.Context, source, filename string) (Result, error) {
	_, result, err := c.compile(ctx, source, filename, false)
	return result, err
}

// Retrieve cross-compiles source and returns the artifact bytes. Unlike
// Compile, a missing cross-compiler is a hard failure here.
func (c *Compiler) Retrieve(ctx context.Context, source, filename string) (Artifact, error) {
	artifact, _, err := c.compile(ctx, source, filename, true)
	return artifact, err
}

func (c *Compiler) compile(ctx context.Context, source, filename string, wantBytes bool) (Artifact, Result, error) {
	logger := logging.WithContext(ctx, c.logger)

	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "main.py"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".py") {
		return Artifact{}, Result{}, services.Wrap(services.ErrValidation, "compiler", "stage", fmt.Sprintf("filename %q must end with .py", filename), nil)
	}

	if check := c.checker.Check(source); !check.Valid {
		return Artifact{}, Result{}, services.Wrap(
			services.ErrValidation,
			"compiler",
			"check",
			fmt.Sprintf("syntax error at line %d: %s", check.Line, check.Error),
			nil,
		)
	}

	if _, err := c.look(c.binary); err != nil {
		if wantBytes {
			return Artifact{}, Result{}, services.Wrap(services.ErrToolMissing, "compiler", "compile", fmt.Sprintf("%s is not installed; no bytecode to return", c.binary), err)
		}
		logger.Info("cross-compiler unavailable, degrading to syntax-only result",
			logging.String("binary", c.binary))
		return Artifact{}, Result{
			Succeeded:        true,
			Message:          fmt.Sprintf("Syntax valid (%s not available for bytecode compilation)", c.binary),
			BytecodeProduced: false,
		}, nil
	}

	ws, err := c.workspaces.Acquire()
	if err != nil {
		return Artifact{}, Result{}, services.Wrap(services.ErrTransient, "compiler", "workspace", "failed to create compile workspace", err)
	}
	defer func() {
		if releaseErr := ws.Release(); releaseErr != nil {
			logger.Warn("workspace release failed", logging.Error(releaseErr))
		}
	}()

	sourcePath, err := ws.Stage(filepath.Base(filename), []byte(source))
	if err != nil {
		return Artifact{}, Result{}, services.Wrap(services.ErrValidation, "compiler", "stage", "failed to stage source file", err)
	}
	outputName := ArtifactName(filename)
	outputPath, err := ws.Path(outputName)
	if err != nil {
		return Artifact{}, Result{}, services.Wrap(services.ErrValidation, "compiler", "stage", "invalid artifact name", err)
	}

	logger.Info("invoking cross-compiler",
		logging.String("binary", c.binary),
		logging.String("source_file", filepath.Base(filename)),
		logging.Duration("timeout", c.timeout))

	run, err := c.run(ctx, runexec.Command{
		Binary:  c.binary,
		Args:    []string{"-o", outputPath, sourcePath},
		Timeout: c.timeout,
	})
	if err != nil {
		return Artifact{}, Result{}, err
	}
	if run.ExitCode != 0 {
		diagnostic := strings.TrimSpace(run.Output)
		if diagnostic == "" {
			diagnostic = fmt.Sprintf("exit status %d", run.ExitCode)
		}
		return Artifact{}, Result{}, services.Wrap(services.ErrValidation, "compiler", "compile", "compilation failed: "+diagnostic, nil)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return Artifact{}, Result{}, services.Wrap(services.ErrExternalTool, "compiler", "compile", "cross-compiler reported success but produced no artifact", err)
	}

	result := Result{
		Succeeded:        true,
		Message:          fmt.Sprintf("Compiled successfully (%d bytes)", info.Size()),
		Size:             info.Size(),
		BytecodeProduced: true,
	}
	logger.Info("compile finished",
		logging.Int64("size", info.Size()),
		logging.Duration("duration", run.Duration))

	if !wantBytes {
		return Artifact{}, result, nil
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return Artifact{}, Result{}, services.Wrap(services.ErrTransient, "compiler", "retrieve", "failed to read artifact", err)
	}
	return Artifact{Name: outputName, Data: data}, result, nil
}

// ArtifactName maps a source filename to its bytecode artifact name.
func ArtifactName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "main"
	}
	return stem + artifactExtension
}
