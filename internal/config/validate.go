package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRelease(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return fmt.Errorf("server.bind must not be empty")
	}
	return nil
}

func (c *Config) validateRelease() error {
	if _, err := regexp.Compile(c.Release.FirmwareAssetPattern); err != nil {
		return fmt.Errorf("release.firmware_asset_pattern: %w", err)
	}
	if _, err := regexp.Compile(c.Release.RestoreAssetPattern); err != nil {
		return fmt.Errorf("release.restore_asset_pattern: %w", err)
	}
	if c.Release.FirmwareRepo == c.Release.RestoreRepo &&
		c.Release.FirmwareAssetPattern == c.Release.RestoreAssetPattern {
		return fmt.Errorf("release: firmware and restore asset sources must differ")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if strings.TrimSpace(c.Email.SMTPHost) == "" {
		return nil
	}
	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("email.smtp_port must be between 1 and 65535")
	}
	if strings.TrimSpace(c.Email.From) == "" {
		return fmt.Errorf("email.from is required when email.smtp_host is set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
