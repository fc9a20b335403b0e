// Package config loads cpxanno settings from flags, CPXANNO_* environment
// variables, and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/psantana5/cpxanno/internal/anno"
	"github.com/psantana5/cpxanno/internal/version"
)

// EnvPrefix is the prefix for environment overrides (CPXANNO_LOG_LEVEL, ...)
const EnvPrefix = "CPXANNO"

// Config is the effective configuration
type Config struct {
	Generator   string       `mapstructure:"generator" json:"generator" yaml:"generator"`
	Extension   string       `mapstructure:"extension" json:"extension" yaml:"extension"`
	LogLevel    string       `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat   string       `mapstructure:"log_format" json:"log_format" yaml:"log_format"`
	MetricsFile string       `mapstructure:"metrics_file" json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
	Server      ServerConfig `mapstructure:"server" json:"server" yaml:"server"`
}

// ServerConfig configures `cpxanno serve`
type ServerConfig struct {
	Addr         string  `mapstructure:"addr" json:"addr" yaml:"addr"`
	RateLimit    float64 `mapstructure:"rate_limit" json:"rate_limit" yaml:"rate_limit"`
	Burst        int     `mapstructure:"burst" json:"burst" yaml:"burst"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`

	// TrustedProxies are peer hosts allowed to set X-Forwarded-For
	TrustedProxies []string `mapstructure:"trusted_proxies" json:"trusted_proxies,omitempty" yaml:"trusted_proxies,omitempty"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generator", version.Generator)
	v.SetDefault("extension", anno.Extension)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_file", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.max_body_bytes", int64(8<<20))
}

// DefaultConfigDir returns $HOME/.cpxanno
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".cpxanno"), nil
}

// Load reads configuration into v and decodes it.
// An explicit cfgFile must exist; the default location is optional.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if dir, err := DefaultConfigDir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the tools cannot use
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("invalid extension %q: must start with '.'", c.Extension)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("invalid server.rate_limit %v: must be positive", c.Server.RateLimit)
	}
	if c.Server.Burst <= 0 {
		return fmt.Errorf("invalid server.burst %d: must be positive", c.Server.Burst)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server.max_body_bytes %d: must be positive", c.Server.MaxBodyBytes)
	}
	return nil
}

// JSONLogs reports whether logs should be written as JSON lines
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}
