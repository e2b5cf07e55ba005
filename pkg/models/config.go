package models

// Config represents the application configuration
type Config struct {
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Device   DeviceConfig   `mapstructure:"device" yaml:"device"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// StoreConfig contains backend-related configuration
type StoreConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Debug   bool   `mapstructure:"debug" yaml:"debug"`     // dump raw backend responses
	Timeout int    `mapstructure:"timeout" yaml:"timeout"` // seconds, 0 = transport default
}

// DeviceConfig contains the values sent in the mimicry headers
type DeviceConfig struct {
	FirmwareVersion  string `mapstructure:"firmware_version" yaml:"firmware_version"`
	Model            string `mapstructure:"model" yaml:"model"`
	FirmwareLang     string `mapstructure:"firmware_lang" yaml:"firmware_lang"`
	StoreVersionCode string `mapstructure:"store_version_code" yaml:"store_version_code"`
	Type             string `mapstructure:"type" yaml:"type"`
	UserAgent        string `mapstructure:"user_agent" yaml:"user_agent"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`
	Verify       bool   `mapstructure:"verify" yaml:"verify"`
	ShowProgress bool   `mapstructure:"show_progress" yaml:"show_progress"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, compact, json
	File   string `mapstructure:"file" yaml:"file"`
}
