package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	ConfigPath string `env:"TUIMIND_CONFIG"`
	DBPath     string `env:"TUIMIND_DB"`
	LogLevel   string `env:"TUIMIND_LOG_LEVEL"`
	LogFile    string `env:"TUIMIND_LOG_FILE"`
	Profile    string `env:"TUIMIND_PROFILE"`
}

// LoadEnv parses the TUIMIND_* environment variables.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

// ResolveConfigPath returns the config file path, honoring TUIMIND_CONFIG.
func (e EnvConfig) ResolveConfigPath() string {
	if e.ConfigPath != "" {
		return e.ConfigPath
	}
	return DefaultConfigPath()
}

// ResolveDBPath returns the database path, honoring TUIMIND_DB.
func (e EnvConfig) ResolveDBPath() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}
