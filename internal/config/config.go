package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	WorkspaceDir string `toml:"workspace_dir"`
	LogDir       string `toml:"log_dir"`
}

// Server contains HTTP API configuration.
type Server struct {
	Bind     string `toml:"bind"`
	APIToken string `toml:"api_token"`
}

// Tools contains external executable names and invocation bounds.
type Tools struct {
	MpyCross              string `toml:"mpy_cross"`
	Pybricksdev           string `toml:"pybricksdev"`
	CompileTimeoutSeconds int    `toml:"compile_timeout_seconds"`
	FlashTimeoutSeconds   int    `toml:"flash_timeout_seconds"`
}

// Firmware contains flashing payload configuration.
type Firmware struct {
	// BundledRestoreImage is the pre-shipped full-device image used by the
	// bundled restore path. Relative paths resolve under DataDir.
	BundledRestoreImage string `toml:"bundled_restore_image"`
}

// Release contains release-index resolution configuration. Install and
// restore resolve against independent repositories so the two asset
// families can never be crossed.
type Release struct {
	BaseURL                string `toml:"base_url"`
	FirmwareRepo           string `toml:"firmware_repo"`
	FirmwareAssetPattern   string `toml:"firmware_asset_pattern"`
	RestoreRepo            string `toml:"restore_repo"`
	RestoreAssetPattern    string `toml:"restore_asset_pattern"`
	RequestTimeoutSeconds  int    `toml:"request_timeout_seconds"`
	DownloadTimeoutSeconds int    `toml:"download_timeout_seconds"`
}

// Assist contains configuration for the AI chat proxy.
type Assist struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	CooldownSeconds int    `toml:"cooldown_seconds"`
}

// Email contains outbound SMTP settings for program sharing.
type Email struct {
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
	From     string `toml:"from"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Device contains USB hub monitoring configuration.
type Device struct {
	MonitorEnabled bool   `toml:"monitor_enabled"`
	USBVendorID    string `toml:"usb_vendor_id"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for hubportal.
//
// Configuration sections by subsystem:
//   - Paths: data, workspace, and log directories
//   - Server: API bind address and optional bearer token
//   - Tools: external cross-compiler and flasher executables plus timeouts
//   - Firmware: bundled restore image location
//   - Release: release-index endpoints and asset naming patterns
//   - Assist: AI chat proxy credentials and cooldown
//   - Email: share-by-email SMTP settings
//   - Device: udev hub monitoring
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Server   Server   `toml:"server"`
	Tools    Tools    `toml:"tools"`
	Firmware Firmware `toml:"firmware"`
	Release  Release  `toml:"release"`
	Assist   Assist   `toml:"assist"`
	Email    Email    `toml:"email"`
	Device   Device   `toml:"device"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hubportal/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("hubportal.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for server operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.WorkspaceDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// BundledRestorePath resolves the bundled restore image location, anchoring
// relative values under the data directory.
func (c *Config) BundledRestorePath() string {
	path := strings.TrimSpace(c.Firmware.BundledRestoreImage)
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.DataDir, path)
}

// ProgramsDBPath returns the location of the saved-programs database.
func (c *Config) ProgramsDBPath() string {
	return filepath.Join(c.Paths.DataDir, "programs.db")
}

// FlashLockPath returns the lock file used to serialize flash operations.
func (c *Config) FlashLockPath() string {
	return filepath.Join(c.Paths.WorkspaceDir, "flash.lock")
}

// WriteSample writes the embedded sample configuration to the given path,
// refusing to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
