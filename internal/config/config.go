package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/huanfeng/rustoredl/internal/errors"
	"github.com/huanfeng/rustoredl/pkg/models"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the RuStore backend endpoint.
const DefaultBaseURL = "https://backapi.rustore.ru/"

var defaultConfig = models.Config{
	Store: models.StoreConfig{
		BaseURL: DefaultBaseURL,
		Debug:   false,
		Timeout: 0,
	},
	Device: models.DeviceConfig{
		FirmwareVersion:  "11",
		Model:            "Pixel A4",
		FirmwareLang:     "en",
		StoreVersionCode: "251",
		Type:             "mobile",
		UserAgent:        "okhttp/4.10.0",
	},
	Download: models.DownloadConfig{
		OutputDir:    ".",
		Verify:       true,
		ShowProgress: true,
	},
	Log: models.LogConfig{
		Level:  "warn",
		Format: "text",
	},
}

// Default returns a copy of the built-in configuration.
func Default() *models.Config {
	cfg := defaultConfig
	return &cfg
}

// Load loads configuration from file and environment
func Load(configPath string) (*models.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("store.base_url", defaultConfig.Store.BaseURL)
	v.SetDefault("store.debug", defaultConfig.Store.Debug)
	v.SetDefault("store.timeout", defaultConfig.Store.Timeout)
	v.SetDefault("device.firmware_version", defaultConfig.Device.FirmwareVersion)
	v.SetDefault("device.model", defaultConfig.Device.Model)
	v.SetDefault("device.firmware_lang", defaultConfig.Device.FirmwareLang)
	v.SetDefault("device.store_version_code", defaultConfig.Device.StoreVersionCode)
	v.SetDefault("device.type", defaultConfig.Device.Type)
	v.SetDefault("device.user_agent", defaultConfig.Device.UserAgent)
	v.SetDefault("download.output_dir", defaultConfig.Download.OutputDir)
	v.SetDefault("download.verify", defaultConfig.Download.Verify)
	v.SetDefault("download.show_progress", defaultConfig.Download.ShowProgress)
	v.SetDefault("log.level", defaultConfig.Log.Level)
	v.SetDefault("log.format", defaultConfig.Log.Format)
	v.SetDefault("log.file", defaultConfig.Log.File)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rustoredl")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "rustoredl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.NewConfigurationError("Failed to read config file", err)
		}
		// Config file not found is not an error, we'll use defaults
	}

	// RUSTOREDL_STORE_DEBUG=true maps to store.debug
	v.SetEnvPrefix("RUSTOREDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config models.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, apperrors.NewConfigurationError("Failed to decode config", err)
	}

	if err := Validate(&config); err != nil {
		return nil, apperrors.NewConfigurationError("Invalid configuration", err)
	}

	return &config, nil
}

// Validate checks values that would otherwise fail late.
func Validate(config *models.Config) error {
	if config.Store.BaseURL == "" {
		return fmt.Errorf("store.base_url must not be empty")
	}
	if !strings.HasSuffix(config.Store.BaseURL, "/") {
		config.Store.BaseURL += "/"
	}
	if config.Store.Timeout < 0 {
		return fmt.Errorf("store.timeout must not be negative, got %d", config.Store.Timeout)
	}
	if config.Download.OutputDir == "" {
		config.Download.OutputDir = "."
	}
	return nil
}

// Marshal renders a configuration as YAML
func Marshal(config *models.Config) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveTemplate writes the default configuration to path
func SaveTemplate(path string) error {
	data, err := Marshal(Default())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	header := []byte("# rustoredl configuration file\n" +
		"# Every key can also be set through the environment, e.g. RUSTOREDL_STORE_DEBUG=true\n\n")

	return os.WriteFile(path, append(header, data...), 0644)
}
