// Package config loads the runtime (non-artifact) configuration for
// the serving daemon. Values come from an optional config file and
// POWERCAST_* environment variables; environment wins.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Runtime holds everything the daemon needs besides the frozen
// artifacts themselves.
type Runtime struct {
	ArtifactDir  string `mapstructure:"artifact_dir"`
	ListenAddr   string `mapstructure:"listen_addr"`
	LogLevel     string `mapstructure:"log_level"`
	Plausibility string `mapstructure:"plausibility"`
	HistoryLimit int    `mapstructure:"history_limit"`
	HistoryFile  string `mapstructure:"history_file"`
}

// Load reads runtime configuration. configPath may be empty, in which
// case only defaults and environment variables apply.
func Load(configPath string) (*Runtime, error) {
	v := viper.New()

	v.SetDefault("artifact_dir", "artifacts")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("plausibility", "warn")
	v.SetDefault("history_limit", 100)
	v.SetDefault("history_file", "")

	v.SetEnvPrefix("POWERCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	var cfg Runtime
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.Plausibility {
	case "off", "warn", "reject":
	default:
		return nil, fmt.Errorf("config: plausibility must be off, warn or reject, got %q", cfg.Plausibility)
	}

	return &cfg, nil
}
