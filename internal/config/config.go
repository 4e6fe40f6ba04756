// Package config loads application configuration. Values come from
// defaults, then an optional config file, then TABWELL_* env overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Editor  EditorConfig
	UI      UIConfig
}

// StorageConfig holds sqlite settings.
type StorageConfig struct {
	Path string
}

// EditorConfig holds tab behavior settings. OpenSide is read at call time
// by the stacks model, so a settings change applies to the next open.
type EditorConfig struct {
	OpenSide      string `mapstructure:"open_side"`
	EnablePreview bool   `mapstructure:"enable_preview"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	MaxGroups int `mapstructure:"max_groups"`
}

// Load reads configuration from file and env. Env var overrides use prefix TABWELL_.
func Load() (*Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("storage.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "tabwell", "tabwell.db"))
	v.SetDefault("editor.open_side", "right")
	v.SetDefault("editor.enable_preview", true)
	v.SetDefault("ui.max_groups", 3)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TABWELL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tabwell"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TABWELL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the settings surface for non-sensitive preferences.
func Save(cfg *Config) error {
	path := os.Getenv("TABWELL_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "tabwell", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("editor.open_side", cfg.Editor.OpenSide)
	v.Set("editor.enable_preview", cfg.Editor.EnablePreview)
	v.Set("ui.max_groups", cfg.UI.MaxGroups)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
