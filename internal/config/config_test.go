package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hubportal/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Tools.MpyCross != "mpy-cross" {
		t.Fatalf("expected default compiler binary, got %q", cfg.Tools.MpyCross)
	}
	if cfg.Tools.CompileTimeoutSeconds != 30 || cfg.Tools.FlashTimeoutSeconds != 300 {
		t.Fatalf("unexpected default timeouts: %d/%d", cfg.Tools.CompileTimeoutSeconds, cfg.Tools.FlashTimeoutSeconds)
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"

[tools]
mpy_cross = "/opt/micropython/mpy-cross"
compile_timeout_seconds = 5

[logging]
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q (%v)", path, resolved, exists)
	}
	if cfg.Tools.MpyCross != "/opt/micropython/mpy-cross" {
		t.Fatalf("unexpected compiler binary %q", cfg.Tools.MpyCross)
	}
	if cfg.Tools.CompileTimeoutSeconds != 5 {
		t.Fatalf("unexpected compile timeout %d", cfg.Tools.CompileTimeoutSeconds)
	}
	if !filepath.IsAbs(cfg.Paths.WorkspaceDir) {
		t.Fatalf("expected absolute workspace dir, got %q", cfg.Paths.WorkspaceDir)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsIdenticalAssetFamilies(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Release.RestoreRepo = cfg.Release.FirmwareRepo
	cfg.Release.RestoreAssetPattern = cfg.Release.FirmwareAssetPattern
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for identical install/restore sources")
	}
}

func TestValidateRejectsBadPattern(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Release.FirmwareAssetPattern = "(["
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for malformed pattern")
	}
}

func TestBundledRestorePathAnchorsRelativeValues(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Paths.DataDir = "/srv/hubportal"
	cfg.Firmware.BundledRestoreImage = "firmware/prime.bin"
	if got := cfg.BundledRestorePath(); got != "/srv/hubportal/firmware/prime.bin" {
		t.Fatalf("unexpected bundled path %q", got)
	}

	cfg.Firmware.BundledRestoreImage = "/images/prime.bin"
	if got := cfg.BundledRestorePath(); got != "/images/prime.bin" {
		t.Fatalf("absolute path should pass through, got %q", got)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatalf("sample config missing tools section: %q", string(data))
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}
