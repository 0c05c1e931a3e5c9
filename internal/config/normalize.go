package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeRelease()
	c.normalizeAssist()
	c.normalizeDevice()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.MpyCross) == "" {
		c.Tools.MpyCross = defaultMpyCross
	}
	if strings.TrimSpace(c.Tools.Pybricksdev) == "" {
		c.Tools.Pybricksdev = defaultPybricksdev
	}
	if c.Tools.CompileTimeoutSeconds <= 0 {
		c.Tools.CompileTimeoutSeconds = defaultCompileTimeout
	}
	if c.Tools.FlashTimeoutSeconds <= 0 {
		c.Tools.FlashTimeoutSeconds = defaultFlashTimeout
	}
}

func (c *Config) normalizeRelease() {
	c.Release.BaseURL = strings.TrimRight(strings.TrimSpace(c.Release.BaseURL), "/")
	if c.Release.BaseURL == "" {
		c.Release.BaseURL = defaultReleaseBaseURL
	}
	if strings.TrimSpace(c.Release.FirmwareRepo) == "" {
		c.Release.FirmwareRepo = defaultFirmwareRepo
	}
	if strings.TrimSpace(c.Release.FirmwareAssetPattern) == "" {
		c.Release.FirmwareAssetPattern = defaultFirmwarePattern
	}
	if strings.TrimSpace(c.Release.RestoreRepo) == "" {
		c.Release.RestoreRepo = defaultRestoreRepo
	}
	if strings.TrimSpace(c.Release.RestoreAssetPattern) == "" {
		c.Release.RestoreAssetPattern = defaultRestorePattern
	}
	if c.Release.RequestTimeoutSeconds <= 0 {
		c.Release.RequestTimeoutSeconds = defaultReleaseTimeout
	}
	if c.Release.DownloadTimeoutSeconds <= 0 {
		c.Release.DownloadTimeoutSeconds = defaultDownloadTimeout
	}
}

func (c *Config) normalizeAssist() {
	if strings.TrimSpace(c.Assist.APIKey) == "" {
		c.Assist.APIKey = strings.TrimSpace(os.Getenv("HUBPORTAL_ASSIST_API_KEY"))
	}
	if strings.TrimSpace(c.Assist.BaseURL) == "" {
		c.Assist.BaseURL = defaultAssistBaseURL
	}
	if strings.TrimSpace(c.Assist.Model) == "" {
		c.Assist.Model = defaultAssistModel
	}
	if c.Assist.TimeoutSeconds <= 0 {
		c.Assist.TimeoutSeconds = defaultAssistTimeout
	}
	if c.Assist.CooldownSeconds < 0 {
		c.Assist.CooldownSeconds = defaultAssistCooldown
	}
}

func (c *Config) normalizeDevice() {
	c.Device.USBVendorID = strings.ToLower(strings.TrimSpace(c.Device.USBVendorID))
	if c.Device.USBVendorID == "" {
		c.Device.USBVendorID = defaultUSBVendorID
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
