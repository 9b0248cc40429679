// Package config defines the application configuration, its defaults and
// validation. Values are resolved from a YAML file, environment variables and
// command-line flags via viper.
package config

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/MeKo-Tech/winocr"
)

// Config holds the complete application configuration.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Engine holds recognition engine settings
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" json:"engine"`

	// Capture holds screen capture settings
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture" json:"capture"`

	// Output holds result formatting settings
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server holds HTTP server settings
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// PDF holds PDF processing settings
	PDF PDFConfig `mapstructure:"pdf" yaml:"pdf" json:"pdf"`
}

// EngineConfig holds recognition engine settings.
type EngineConfig struct {
	Language       string  `mapstructure:"language" yaml:"language" json:"language"`
	PollIntervalMs int     `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms" json:"poll_interval_ms"`
	Grayscale      bool    `mapstructure:"grayscale" yaml:"grayscale" json:"grayscale"`
	Scale          float64 `mapstructure:"scale" yaml:"scale" json:"scale"`
}

// CaptureConfig holds screen capture settings.
type CaptureConfig struct {
	Display int    `mapstructure:"display" yaml:"display" json:"display"`
	SaveDir string `mapstructure:"save_dir" yaml:"save_dir" json:"save_dir"`
}

// OutputConfig holds result formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host" json:"host"`
	Port            int             `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string          `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int64           `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int             `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	CaptureEnabled  bool            `mapstructure:"capture_enabled" yaml:"capture_enabled" json:"capture_enabled"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig holds per-client request limits for the HTTP server.
type RateLimitConfig struct {
	Enabled           bool  `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDayMB   int64 `mapstructure:"max_data_per_day_mb" yaml:"max_data_per_day_mb" json:"max_data_per_day_mb"`
}

// PDFConfig holds PDF processing settings.
type PDFConfig struct {
	Pages   string `mapstructure:"pages" yaml:"pages" json:"pages"`
	Workers int    `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Engine: EngineConfig{
			Language:       "",
			PollIntervalMs: 10,
			Grayscale:      false,
			Scale:          0,
		},
		Capture: CaptureConfig{
			Display: 0,
			SaveDir: "",
		},
		Output: OutputConfig{
			Format: "text",
			File:   "",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			CaptureEnabled:  false,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 60,
				RequestsPerHour:   1000,
				MaxRequestsPerDay: 10000,
				MaxDataPerDayMB:   1024,
			},
		},
		PDF: PDFConfig{
			Pages:   "",
			Workers: 0,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.validateGlobal(); err != nil {
		return err
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Capture.Validate(); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.PDF.Validate(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

func (c *Config) validateGlobal() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of %v", c.LogLevel, validLevels)
	}
	return nil
}

// Validate checks engine settings.
func (e *EngineConfig) Validate() error {
	if e.Language != "" {
		if _, err := language.Parse(e.Language); err != nil {
			return fmt.Errorf("invalid language tag %q: %w", e.Language, err)
		}
	}
	if e.PollIntervalMs < 0 {
		return fmt.Errorf("poll_interval_ms must not be negative, got %d", e.PollIntervalMs)
	}
	if e.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %g", e.Scale)
	}
	if e.Scale > 0 && (e.Scale < 0.1 || e.Scale > 10) {
		return fmt.Errorf("scale must be between 0.1 and 10, got %g", e.Scale)
	}
	return nil
}

// Validate checks capture settings.
func (c *CaptureConfig) Validate() error {
	if c.Display < 0 {
		return fmt.Errorf("display must not be negative, got %d", c.Display)
	}
	return nil
}

// Validate checks output settings.
func (o *OutputConfig) Validate() error {
	validFormats := []string{"text", "json", "csv"}
	if !contains(validFormats, o.Format) {
		return fmt.Errorf("invalid format %q, must be one of %v", o.Format, validFormats)
	}
	return nil
}

// Validate checks server settings.
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be at least 1, got %d", s.MaxUploadMB)
	}
	if s.TimeoutSec < 1 {
		return fmt.Errorf("timeout_sec must be at least 1, got %d", s.TimeoutSec)
	}
	if s.ShutdownTimeout < 1 {
		return fmt.Errorf("shutdown_timeout must be at least 1, got %d", s.ShutdownTimeout)
	}
	if err := s.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	return nil
}

// Validate checks rate limit settings.
func (r *RateLimitConfig) Validate() error {
	if r.RequestsPerMinute < 0 || r.RequestsPerHour < 0 || r.MaxRequestsPerDay < 0 || r.MaxDataPerDayMB < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}

// Validate checks PDF settings.
func (p *PDFConfig) Validate() error {
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	return nil
}

// Options converts the engine section into client options. Zero values stay
// on the client defaults.
func (e *EngineConfig) Options() []winocr.Option {
	var opts []winocr.Option
	if e.Language != "" {
		opts = append(opts, winocr.WithLanguage(e.Language))
	}
	if e.PollIntervalMs > 0 {
		opts = append(opts, winocr.WithPollInterval(time.Duration(e.PollIntervalMs)*time.Millisecond))
	}
	if e.Grayscale {
		opts = append(opts, winocr.WithGrayscale())
	}
	if e.Scale > 0 {
		opts = append(opts, winocr.WithScale(e.Scale))
	}
	return opts
}

// contains checks if a string slice contains a value.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
