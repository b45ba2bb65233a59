// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the top-level configuration for a solver CLI binary: just the
// ambient app identity and logging knobs, since the solvers themselves take
// no runtime configuration (their entire input is the request on stdin).
type Config struct {
	App AppConfig `koanf:"app"`
	Log LogConfig `koanf:"log"`
}

// AppConfig holds general binary identity.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // path to the log file, if output=file
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // rotated backup count
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsDevelopment reports whether the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
