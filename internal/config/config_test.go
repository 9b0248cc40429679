package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected log_level info, got %q", cfg.LogLevel)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected output format text, got %q", cfg.Output.Format)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Engine.PollIntervalMs != 10 {
		t.Errorf("expected poll interval 10ms, got %d", cfg.Engine.PollIntervalMs)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "log_level",
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "format",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Server.MaxUploadMB = 0 },
			wantErr: "max_upload_mb",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.TimeoutSec = 0 },
			wantErr: "timeout_sec",
		},
		{
			name:    "negative poll interval",
			mutate:  func(c *Config) { c.Engine.PollIntervalMs = -1 },
			wantErr: "poll_interval_ms",
		},
		{
			name:    "scale out of range",
			mutate:  func(c *Config) { c.Engine.Scale = 50 },
			wantErr: "scale",
		},
		{
			name:    "bad language tag",
			mutate:  func(c *Config) { c.Engine.Language = "!!invalid!!" },
			wantErr: "language",
		},
		{
			name:    "negative display",
			mutate:  func(c *Config) { c.Capture.Display = -1 },
			wantErr: "display",
		},
		{
			name:    "negative pdf workers",
			mutate:  func(c *Config) { c.PDF.Workers = -2 },
			wantErr: "workers",
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Server.RateLimit.RequestsPerMinute = -1 },
			wantErr: "rate_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidLanguageTags(t *testing.T) {
	for _, tag := range []string{"en-US", "de-DE", "de", "zh-Hans-CN", "pt-BR"} {
		cfg := DefaultConfig()
		cfg.Engine.Language = tag
		if err := cfg.Validate(); err != nil {
			t.Errorf("tag %q should be accepted: %v", tag, err)
		}
	}
}

func TestEngineOptions(t *testing.T) {
	tests := []struct {
		name   string
		engine EngineConfig
		want   int
	}{
		{name: "zero config", engine: EngineConfig{}, want: 0},
		{name: "defaults", engine: DefaultConfig().Engine, want: 1}, // poll interval
		{
			name: "everything set",
			engine: EngineConfig{
				Language:       "en-US",
				PollIntervalMs: 25,
				Grayscale:      true,
				Scale:          2.0,
			},
			want: 4,
		},
		{name: "language only", engine: EngineConfig{Language: "de-DE"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.engine.Options()
			if len(opts) != tt.want {
				t.Errorf("expected %d options, got %d", tt.want, len(opts))
			}
		})
	}
}

func TestContains(t *testing.T) {
	if !contains([]string{"a", "b"}, "b") {
		t.Error("expected b to be found")
	}
	if contains([]string{"a", "b"}, "c") {
		t.Error("did not expect c to be found")
	}
	if contains(nil, "a") {
		t.Error("nil slice contains nothing")
	}
}
