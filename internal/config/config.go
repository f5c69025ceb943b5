// Package config loads sigbind CLI settings from an optional YAML file,
// SIGBIND_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "SIGBIND"

// Config holds CLI settings.
type Config struct {
	// DB is the path of the run archive. Empty disables archiving.
	DB string `mapstructure:"db"`

	// Format is the output format: "text" or "json".
	Format string `mapstructure:"format"`

	// PresetDir is searched for CUE presets.
	PresetDir string `mapstructure:"preset_dir"`

	Verbose bool `mapstructure:"verbose"`

	// File is the config file that was read, or "" when none was found.
	File string `mapstructure:"-"`
}

// flagKeys maps flag names onto config keys.
var flagKeys = map[string]string{
	"db":         "db",
	"format":     "format",
	"preset-dir": "preset_dir",
	"verbose":    "verbose",
}

// Load resolves the configuration. An explicit path must exist; without one
// $HOME/.config/sigbind/config.yaml and then ./sigbind.yaml are tried and
// silently skipped when absent. Flags in flags that the user set override
// file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("db", "")
	v.SetDefault("format", "text")
	v.SetDefault("preset_dir", "")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	file := path
	if file == "" {
		file = defaultFile()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = file
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have a fixed set of values.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("invalid format %q: want text or json", c.Format)
}

func defaultFile() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(homeDir, ".config", "sigbind", "config.yaml")
		if _, statErr := os.Stat(p); statErr == nil {
			return p
		}
	}
	if _, err := os.Stat("sigbind.yaml"); err == nil {
		return "sigbind.yaml"
	}
	return ""
}
