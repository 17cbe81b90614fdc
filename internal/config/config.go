package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHOTCUT_"

// Config holds all application configuration
type Config struct {
	// Detection settings
	Detect DetectConfig `yaml:"detect" toml:"detect"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg" toml:"ffmpeg"`

	// Frame source settings
	Frames FramesConfig `yaml:"frames" toml:"frames"`

	// Shot export settings
	Export ExportConfig `yaml:"export" toml:"export"`
}

type DetectConfig struct {
	Tolerance int `yaml:"tolerance" toml:"tolerance"`
	Workers   int `yaml:"workers" toml:"workers"`
}

type FFmpegConfig struct {
	// BinaryPath is the directory holding ffmpeg and ffprobe; empty uses PATH.
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	Threads    int    `yaml:"threads" toml:"threads"`
	Preset     string `yaml:"preset" toml:"preset"`
}

type FramesConfig struct {
	// ResizeWidth downsamples frames before histogramming. The default 0
	// keeps full size; any other width changes the histograms and so the
	// detected boundaries.
	ResizeWidth int `yaml:"resize_width" toml:"resize_width"`
}

type ExportConfig struct {
	OutputDir      string `yaml:"output_dir" toml:"output_dir"`
	CopyCodec      bool   `yaml:"copy_codec" toml:"copy_codec"`
	Thumbnails     bool   `yaml:"thumbnails" toml:"thumbnails"`
	ThumbnailWidth int    `yaml:"thumbnail_width" toml:"thumbnail_width"`
}

// Load reads configuration from file or returns defaults. A .env file in the
// working directory and SHOTCUT_* variables are applied on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if isTOML(path) {
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"WORKERS", &c.Detect.Workers},
		{"TOLERANCE", &c.Detect.Tolerance},
		{"FFMPEG_THREADS", &c.FFmpeg.Threads},
		{"RESIZE_WIDTH", &c.Frames.ResizeWidth},
	}
	for _, v := range ints {
		raw, ok := lookup(EnvPrefix + v.key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, v.key, err)
		}
		*v.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"COPY_CODEC", &c.Export.CopyCodec},
		{"THUMBNAILS", &c.Export.Thumbnails},
	}
	for _, v := range bools {
		raw, ok := lookup(EnvPrefix + v.key)
		if !ok || raw == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, v.key, err)
		}
		*v.dst = b
	}

	if raw, ok := lookup(EnvPrefix + "OUTPUT_DIR"); ok && raw != "" {
		c.Export.OutputDir = raw
	}
	if raw, ok := lookup(EnvPrefix + "FFMPEG_PATH"); ok && raw != "" {
		c.FFmpeg.BinaryPath = raw
	}

	return nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.Detect.Tolerance < 1 {
		return fmt.Errorf("detect.tolerance must be at least 1, got %d", c.Detect.Tolerance)
	}
	if c.Detect.Workers < 0 {
		return fmt.Errorf("detect.workers must not be negative, got %d", c.Detect.Workers)
	}
	if c.FFmpeg.Threads < 0 {
		return fmt.Errorf("ffmpeg.threads must not be negative, got %d", c.FFmpeg.Threads)
	}
	if c.Frames.ResizeWidth < 0 {
		return fmt.Errorf("frames.resize_width must not be negative, got %d", c.Frames.ResizeWidth)
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	return nil
}

// Save writes configuration to file, as TOML for a .toml path and YAML otherwise.
func (c *Config) Save(path string) error {
	data, err := c.Marshal(isTOML(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the configuration as YAML, or TOML when asked.
func (c *Config) Marshal(asTOML bool) ([]byte, error) {
	if asTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		return buf.Bytes(), nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Detect: DetectConfig{
			Tolerance: 2,
			Workers:   0,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "",
			Threads:    0,
			Preset:     "medium",
		},
		Frames: FramesConfig{
			ResizeWidth: 0,
		},
		Export: ExportConfig{
			OutputDir:      "./shots",
			CopyCodec:      false,
			Thumbnails:     true,
			ThumbnailWidth: 320,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// SearchPaths lists the config locations tried when no path is given.
func SearchPaths() []string {
	return []string{
		"./shotcut.yaml",
		"./shotcut.yml",
		"./shotcut.toml",
		filepath.Join(os.Getenv("HOME"), ".shotcut", "config.yaml"),
	}
}

func findConfigFile() string {
	for _, path := range SearchPaths() {
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
