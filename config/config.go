package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// FileName is the config file looked up in the working directory.
const FileName = "trimstrip.yaml"

// Config holds all application configuration
type Config struct {
	Trim       TrimConfig      `yaml:"trim"`
	Thumbnails ThumbnailConfig `yaml:"thumbnails"`
	Mpv        MpvConfig       `yaml:"mpv"`
	Player     PlayerConfig    `yaml:"player"`
	Log        LogConfig       `yaml:"log"`
	Database   DatabaseConfig  `yaml:"database"`
}

type TrimConfig struct {
	MinDurationSeconds float64 `yaml:"min_duration_seconds"`
	MaxDurationSeconds float64 `yaml:"max_duration_seconds"`
	// DraggableWidth is the handle hit width in terminal columns.
	DraggableWidth     float64 `yaml:"draggable_width"`
	SnapEpsilon        float64 `yaml:"snap_epsilon"`
	HighPrecisionScrub bool    `yaml:"high_precision_scrub"`
}

type ThumbnailConfig struct {
	// Height is the strip height in terminal rows.
	Height   int    `yaml:"height"`
	CacheDir string `yaml:"cache_dir"`
}

type MpvConfig struct {
	SocketPath string `yaml:"socket_path"`
}

type PlayerConfig struct {
	PollIntervalMs int `yaml:"poll_interval_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Trim: TrimConfig{
			MinDurationSeconds: 2,
			MaxDurationSeconds: 6,
			DraggableWidth:     1,
			SnapEpsilon:        0.01,
		},
		Thumbnails: ThumbnailConfig{
			Height: 2,
		},
		Mpv: MpvConfig{
			SocketPath: "/tmp/trimstrip-mpv.sock",
		},
		Player: PlayerConfig{
			PollIntervalMs: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, or from the first file found by
// FindFile when path is empty. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = FindFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the trimmer cannot work with.
func (c *Config) Validate() error {
	var errs []error
	t := c.Trim
	if t.MinDurationSeconds < 0 {
		errs = append(errs, fmt.Errorf("trim.min_duration_seconds must not be negative"))
	}
	if t.MaxDurationSeconds < t.MinDurationSeconds {
		errs = append(errs, fmt.Errorf("trim.max_duration_seconds (%v) is below trim.min_duration_seconds (%v)", t.MaxDurationSeconds, t.MinDurationSeconds))
	}
	if t.DraggableWidth < 0 {
		errs = append(errs, fmt.Errorf("trim.draggable_width must not be negative"))
	}
	if t.SnapEpsilon < 0 {
		errs = append(errs, fmt.Errorf("trim.snap_epsilon must not be negative"))
	}
	if c.Thumbnails.Height < 1 {
		errs = append(errs, fmt.Errorf("thumbnails.height must be at least 1"))
	}
	if c.Player.PollIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("player.poll_interval_ms must be positive"))
	}
	return errors.Join(errs...)
}

// UserPath returns ~/.config/trimstrip/config.yaml.
func UserPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "trimstrip", "config.yaml")
}

// FindFile returns the first existing config file, or "".
func FindFile() string {
	candidates := []string{
		"./" + FileName,
		UserPath(),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
