package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/sctoggle/internal/thumb"
)

// Config represents the application configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Animation AnimationConfig `yaml:"animation"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Script    string          `yaml:"script"`
	Buttons   []ButtonConfig  `yaml:"buttons"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
	JSON   bool   `yaml:"json"`
}

// GetLevel returns the configured zerolog level. An empty or unknown level
// is info.
func (l LogConfig) GetLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SurfaceConfig describes the raster surfaces buttons are rendered to.
// A zero width or height falls back to the button kind's minimum size.
type SurfaceConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	OutputDir string `yaml:"output_dir"`
}

// AnimationConfig contains switch thumb animation settings
type AnimationConfig struct {
	Duration      Duration `yaml:"duration"`
	FrameInterval Duration `yaml:"frame_interval"` // Clock step used when settling animations
}

// LedgerConfig contains selection history settings
type LedgerConfig struct {
	Retention Duration `yaml:"retention"` // 0 keeps everything
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./sctoggle.sqlite"
	}
	if cfg.Surface.OutputDir == "" {
		cfg.Surface.OutputDir = "./out"
	}

	// Animation defaults
	if cfg.Animation.Duration == 0 {
		cfg.Animation.Duration = Duration(thumb.DefaultDuration)
	}
	if cfg.Animation.FrameInterval == 0 {
		cfg.Animation.FrameInterval = Duration(16 * time.Millisecond)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Surface.Width < 0 || c.Surface.Height < 0 {
		errs = append(errs, fmt.Errorf("surface size must not be negative"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log level %q: %w", c.Log.Level, err))
	}
	if c.Animation.Duration < 0 || c.Animation.FrameInterval < 0 {
		errs = append(errs, fmt.Errorf("animation durations must not be negative"))
	}

	seen := make(map[string]struct{}, len(c.Buttons))
	for i, b := range c.Buttons {
		if b.ID == "" {
			errs = append(errs, fmt.Errorf("buttons[%d]: id is required", i))
			continue
		}
		if _, dup := seen[b.ID]; dup {
			errs = append(errs, fmt.Errorf("buttons[%d]: duplicate id %q", i, b.ID))
		}
		seen[b.ID] = struct{}{}

		if _, _, err := b.Build(); err != nil {
			errs = append(errs, fmt.Errorf("buttons[%d] %q: %w", i, b.ID, err))
		}
	}
	return errors.Join(errs...)
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
