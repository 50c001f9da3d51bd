// Package config loads the shell's carlscalendar.toml configuration.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the configuration file name.
	FileName = "carlscalendar.toml"

	// DefaultHost is the default dev server host.
	DefaultHost = "localhost"

	// DefaultPort is the default dev server port.
	DefaultPort = 3000
)

// Config is the complete carlscalendar.toml configuration.
type Config struct {
	// AppName is the title suffix shown in the document title.
	AppName string `toml:"app_name"`

	// Language is the preferred shell language tag ("en", "da").
	Language string `toml:"language"`

	// Dev configures the development asset server.
	Dev DevConfig `toml:"dev"`
}

// DevConfig configures the development asset server.
type DevConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// AssetsDir is served under /assets.
	AssetsDir string `toml:"assets_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AppName:  "CarlsCalendar",
		Language: "en",
		Dev: DevConfig{
			Host:      DefaultHost,
			Port:      DefaultPort,
			AssetsDir: "assets",
		},
	}
}

// Load reads path (or FileName when empty), falling back to defaults
// when no file exists. Environment variables CARLSCALENDAR_HOST and
// CARLSCALENDAR_PORT override the dev server address.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = FileName
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file is fine; defaults apply.
	case err != nil:
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if host := os.Getenv("CARLSCALENDAR_HOST"); host != "" {
		cfg.Dev.Host = host
	}
	if port := os.Getenv("CARLSCALENDAR_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return cfg, fmt.Errorf("config: CARLSCALENDAR_PORT: %w", err)
		}
		cfg.Dev.Port = p
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for nonsense values.
func (c Config) Validate() error {
	if c.Dev.Port <= 0 || c.Dev.Port > 65535 {
		return fmt.Errorf("config: invalid dev port %d", c.Dev.Port)
	}
	if c.AppName == "" {
		return fmt.Errorf("config: app_name must not be empty")
	}
	return nil
}

// Addr returns the dev server listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Dev.Host, c.Dev.Port)
}
