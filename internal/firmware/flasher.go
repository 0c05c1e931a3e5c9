package firmware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"hubportal/internal/config"
	"hubportal/internal/logging"
	"hubportal/internal/release"
	"hubportal/internal/runexec"
	"hubportal/internal/services"
	"hubportal/internal/workspace"
)

// Mode identifies which flash operation a request performs.
type Mode string

const (
	ModeInstall        Mode = "install"
	ModeRestoreUpload  Mode = "restore_upload"
	ModeRestoreBundled Mode = "restore_bundled"
	ModeRestoreRemote  Mode = "restore_remote"
)

// Result reports a successful flash operation.
type Result struct {
	Succeeded bool
	Message   string
	Output    string
}

// Option configures the flasher.
type Option func(*Flasher)

// WithBinary overrides the configured flasher executable.
func WithBinary(binary string) Option {
	return func(f *Flasher) {
		if binary != "" {
			f.binary = binary
		}
	}
}

// WithLookPath overrides executable resolution (used in tests).
func WithLookPath(look func(string) (string, error)) Option {
	return func(f *Flasher) {
		if look != nil {
			f.look = look
		}
	}
}

// WithRunner overrides subprocess execution (used in tests).
func WithRunner(run func(context.Context, runexec.Command) (runexec.Result, error)) Option {
	return func(f *Flasher) {
		if run != nil {
			f.run = run
		}
	}
}

// WithReleaseClient overrides the release resolver (used in tests).
func WithReleaseClient(client *release.Client) Option {
	return func(f *Flasher) {
		if client != nil {
			f.releases = client
		}
	}
}

// Flasher wraps the pybricksdev command-line flasher.
type Flasher struct {
	binary      string
	timeout     time.Duration
	workspaces  *workspace.Manager
	releases    *release.Client
	bundledPath string
	lockPath    string
	logger      *slog.Logger

	firmwareRepo    string
	firmwarePattern *regexp.Regexp
	restoreRepo     string
	restorePattern  *regexp.Regexp

	look func(string) (string, error)
	run  func(context.Context, runexec.Command) (runexec.Result, error)
}

// New constructs a Flasher from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Flasher, error) {
	firmwarePattern, err := release.CompilePattern(cfg.Release.FirmwareAssetPattern)
	if err != nil {
		return nil, fmt.Errorf("firmware asset pattern: %w", err)
	}
	restorePattern, err := release.CompilePattern(cfg.Release.RestoreAssetPattern)
	if err != nil {
		return nil, fmt.Errorf("restore asset pattern: %w", err)
	}

	f := &Flasher{
		binary:          cfg.Tools.Pybricksdev,
		timeout:         time.Duration(cfg.Tools.FlashTimeoutSeconds) * time.Second,
		workspaces:      workspace.NewManager(cfg.Paths.WorkspaceDir),
		releases:        release.NewClient(cfg.Release),
		bundledPath:     cfg.BundledRestorePath(),
		lockPath:        cfg.FlashLockPath(),
		logger:          logging.NewComponentLogger(logger, "flasher"),
		firmwareRepo:    cfg.Release.FirmwareRepo,
		firmwarePattern: firmwarePattern,
		restoreRepo:     cfg.Release.RestoreRepo,
		restorePattern:  restorePattern,
		look:            runexec.LookPath,
		run:             runexec.Run,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// InstallFromArchive flashes an uploaded partition-image archive.
func (f *Flasher) InstallFromArchive(ctx context.Context, filename string, data []byte) (Result, error) {
	if err := validatePayload(filename, ".zip", data); err != nil {
		return Result{}, err
	}
	return f.flash(ctx, ModeInstall, stagedName(filename, "firmware.zip"), data,
		func(path string) []string { return []string{"flash", path} },
		"Pybricks firmware installed successfully.")
}

// InstallFromRemote resolves the latest stable firmware archive from the
// release index, downloads it, and flashes it.
func (f *Flasher) InstallFromRemote(ctx context.Context) (Result, error) {
	asset, err := f.releases.LatestAsset(ctx, f.firmwareRepo, f.firmwarePattern)
	if err != nil {
		return Result{}, err
	}
	data, err := f.releases.Download(ctx, asset)
	if err != nil {
		return Result{}, err
	}
	result, err := f.InstallFromArchive(ctx, asset.Name, data)
	if err != nil {
		return Result{}, err
	}
	result.Message = fmt.Sprintf("Installed latest stable firmware: %s", asset.Name)
	return result, nil
}

// RestoreFromUpload restores the hub from an uploaded full-device image.
func (f *Flasher) RestoreFromUpload(ctx context.Context, filename string, data []byte) (Result, error) {
	if err := validatePayload(filename, ".bin", data); err != nil {
		return Result{}, err
	}
	return f.restoreImage(ctx, ModeRestoreUpload, stagedName(filename, "firmware-backup.bin"), data,
		fmt.Sprintf("Restored hub firmware from backup: %s", filepath.Base(filename)))
}

// RestoreFromBundled restores the hub from the image shipped with the
// service. Fails with a not-found error when the image is absent on this
// host.
func (f *Flasher) RestoreFromBundled(ctx context.Context) (Result, error) {
	path := strings.TrimSpace(f.bundledPath)
	if path == "" {
		return Result{}, services.Wrap(services.ErrNotFound, "flasher", "restore", "no bundled restore image configured", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "flasher", "restore",
			fmt.Sprintf("bundled restore image not found on this host (expected %s)", path), err)
	}
	return f.restoreImage(ctx, ModeRestoreBundled, filepath.Base(path), data,
		fmt.Sprintf("Restored hub firmware from bundled image: %s", filepath.Base(path)))
}

// RestoreFromRemote resolves the restore-image family from its own release
// index and restores the hub from it. This family is never interchangeable
// with the install archives.
func (f *Flasher) RestoreFromRemote(ctx context.Context) (Result, error) {
	asset, err := f.releases.LatestAsset(ctx, f.restoreRepo, f.restorePattern)
	if err != nil {
		return Result{}, err
	}
	data, err := f.releases.Download(ctx, asset)
	if err != nil {
		return Result{}, err
	}
	return f.restoreImage(ctx, ModeRestoreRemote, stagedName(asset.Name, "firmware-restore.bin"), data,
		fmt.Sprintf("Restored hub firmware from %s", asset.Name))
}

func (f *Flasher) restoreImage(ctx context.Context, mode Mode, name string, data []byte, successMessage string) (Result, error) {
	if len(data) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "flasher", string(mode), "restore image is empty", nil)
	}
	return f.flash(ctx, mode, name, data,
		func(path string) []string { return []string{"dfu", "restore", path} },
		successMessage)
}

// flash runs the shared stage → invoke → classify → cleanup pipeline.
func (f *Flasher) flash(ctx context.Context, mode Mode, name string, data []byte, args func(path string) []string, successMessage string) (Result, error) {
	logger := logging.WithContext(ctx, f.logger).With(logging.String("mode", string(mode)))

	if _, err := f.look(f.binary); err != nil {
		return Result{}, &ClassifiedError{Category: CategoryToolNotInstalled, Message: toolMissingGuidance}
	}

	unlock, err := f.acquireDeviceLock()
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	ws, err := f.workspaces.Acquire()
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "flasher", "workspace", "failed to create flash workspace", err)
	}
	defer func() {
		if releaseErr := ws.Release(); releaseErr != nil {
			logger.Warn("workspace release failed", logging.Error(releaseErr))
		}
	}()

	path, err := ws.Stage(name, data)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "flasher", "stage", "failed to stage firmware payload", err)
	}
	logger.Info("staged flash payload",
		logging.String("payload", name),
		logging.Int("bytes", len(data)))

	logger.Info("invoking flasher",
		logging.String("binary", f.binary),
		logging.Duration("timeout", f.timeout))
	run, err := f.run(ctx, runexec.Command{
		Binary:  f.binary,
		Args:    args(path),
		Timeout: f.timeout,
	})
	if err != nil {
		if isTimeout(err) {
			logger.Warn("flash timed out", logging.Duration("timeout", f.timeout))
			return Result{}, &ClassifiedError{
				Category: CategoryTimeout,
				Message:  fmt.Sprintf("firmware operation timed out after %s", f.timeout),
			}
		}
		return Result{}, err
	}

	if run.ExitCode != 0 {
		classified := Classify(run.Output)
		logger.Warn("flash failed",
			logging.String("category", string(classified.Category)),
			logging.Int("exit_code", run.ExitCode))
		return Result{}, classified
	}

	logger.Info("flash finished", logging.Duration("duration", run.Duration))
	return Result{
		Succeeded: true,
		Message:   successMessage,
		Output:    strings.TrimSpace(run.Output),
	}, nil
}

// acquireDeviceLock serializes flash operations against the single attached
// hub. The USB/DFU protocol offers no queueing, so a concurrent attempt gets
// an immediate typed busy failure instead of a tool-level error.
func (f *Flasher) acquireDeviceLock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(f.lockPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "flasher", "lock", "failed to prepare lock directory", err)
	}
	lock := flock.New(f.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "flasher", "lock", "failed to acquire device lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "flasher", "lock",
			"another flash operation is already in progress; wait for it to finish and try again", nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func isTimeout(err error) bool {
	return errors.Is(err, services.ErrTimeout)
}

func validatePayload(filename, extension string, data []byte) error {
	name := strings.TrimSpace(filename)
	if name == "" || !strings.HasSuffix(strings.ToLower(name), extension) {
		return services.Wrap(services.ErrValidation, "flasher", "validate",
			fmt.Sprintf("firmware file must be a %s file", extension), nil)
	}
	if len(data) == 0 {
		return services.Wrap(services.ErrValidation, "flasher", "validate", "uploaded firmware file is empty", nil)
	}
	return nil
}

func stagedName(filename, fallback string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fallback
	}
	return base
}
