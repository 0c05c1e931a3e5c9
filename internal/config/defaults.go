package config

const (
	defaultDataDir             = "~/.local/share/hubportal"
	defaultWorkspaceDir        = "~/.local/share/hubportal/work"
	defaultLogDir              = "~/.local/share/hubportal/logs"
	defaultBind                = "127.0.0.1:8350"
	defaultMpyCross            = "mpy-cross"
	defaultPybricksdev         = "pybricksdev"
	defaultCompileTimeout      = 30
	defaultFlashTimeout        = 300
	defaultBundledRestoreImage = "firmware/prime-v1.3.00.0000-e8c274a.bin"
	defaultReleaseBaseURL      = "https://api.github.com"
	defaultFirmwareRepo        = "pybricks/pybricks-micropython"
	defaultFirmwarePattern     = `^pybricks-primehub-v\d+\.\d+\.\d+\.zip$`
	defaultRestoreRepo         = "pybricks/pybricksdev"
	defaultRestorePattern      = `^prime-v\d+\.\d+\.\d+.*\.bin$`
	defaultReleaseTimeout      = 20
	defaultDownloadTimeout     = 60
	defaultAssistBaseURL       = "https://openrouter.ai/api/v1"
	defaultAssistModel         = "google/gemini-3-flash-preview"
	defaultAssistTimeout       = 60
	defaultAssistCooldown      = 10
	defaultSMTPPort            = 587
	defaultUSBVendorID         = "0694"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		Server: Server{
			Bind: defaultBind,
		},
		Tools: Tools{
			MpyCross:              defaultMpyCross,
			Pybricksdev:           defaultPybricksdev,
			CompileTimeoutSeconds: defaultCompileTimeout,
			FlashTimeoutSeconds:   defaultFlashTimeout,
		},
		Firmware: Firmware{
			BundledRestoreImage: defaultBundledRestoreImage,
		},
		Release: Release{
			BaseURL:                defaultReleaseBaseURL,
			FirmwareRepo:           defaultFirmwareRepo,
			FirmwareAssetPattern:   defaultFirmwarePattern,
			RestoreRepo:            defaultRestoreRepo,
			RestoreAssetPattern:    defaultRestorePattern,
			RequestTimeoutSeconds:  defaultReleaseTimeout,
			DownloadTimeoutSeconds: defaultDownloadTimeout,
		},
		Assist: Assist{
			BaseURL:         defaultAssistBaseURL,
			Model:           defaultAssistModel,
			TimeoutSeconds:  defaultAssistTimeout,
			CooldownSeconds: defaultAssistCooldown,
		},
		Email: Email{
			SMTPPort: defaultSMTPPort,
		},
		Device: Device{
			MonitorEnabled: true,
			USBVendorID:    defaultUSBVendorID,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
