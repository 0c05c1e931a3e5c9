// Package testsupport provides fixtures shared by package tests: seeded
// configurations and stub external tools.
package testsupport

import (
	"path/filepath"
	"testing"

	"hubportal/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.WorkspaceDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Tools.CompileTimeoutSeconds = 5
	cfg.Tools.FlashTimeoutSeconds = 5
	cfg.Device.MonitorEnabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithCompileTimeout sets the compile timeout in seconds.
func WithCompileTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tools.CompileTimeoutSeconds = seconds
	}
}

// WithFlashTimeout sets the flash timeout in seconds.
func WithFlashTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tools.FlashTimeoutSeconds = seconds
	}
}
