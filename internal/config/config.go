package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "lazyseg"

// Config holds all application configuration
type Config struct {
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
	ASCIIIcons   bool   `mapstructure:"ascii_icons"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

type StorageConfig struct {
	// Dir holds segments.yaml and history.db. Empty means the user config dir.
	Dir            string `mapstructure:"dir"`
	HistoryEnabled bool   `mapstructure:"history_enabled"`
}

type DatabaseConfig struct {
	DSN            string `mapstructure:"dsn"`
	Table          string `mapstructure:"table"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
			ASCIIIcons:   false,
		},
		Log: LogConfig{
			File:   "",
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Dir:            "",
			HistoryEnabled: true,
		},
		Database: DatabaseConfig{
			DSN:            "",
			Table:          "properties",
			TimeoutSeconds: 10,
		},
	}
}

// Load loads configuration from path, or from the standard locations when
// path is empty. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// 1. User config directory
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		// 2. Current directory
		v.AddConfigPath(".")
		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	// LAZYSEG_DATABASE_DSN overrides database.dsn, etc.
	v.SetEnvPrefix("LAZYSEG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaults()
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.mouse_enabled", d.UI.MouseEnabled)
	v.SetDefault("ui.ascii_icons", d.UI.ASCIIIcons)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.history_enabled", d.Storage.HistoryEnabled)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.table", d.Database.Table)
	v.SetDefault("database.timeout_seconds", d.Database.TimeoutSeconds)
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// StorageDir resolves where segments and history are kept
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return GetConfigPath()
}
