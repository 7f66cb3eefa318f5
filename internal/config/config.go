package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 800
	DefaultFPS    = 60
	DefaultAddr   = ":8080"
	DefaultRate   = 5.0
	DefaultBurst  = 10
	DefaultImage  = "3fas.jpg"
	DefaultTheme  = "cyberpunk"
)

// Environment overrides, read after the config file.
const (
	EnvAddr     = "THREEPHASE_ADDR"
	EnvLogLevel = "THREEPHASE_LOG_LEVEL"
	EnvCORS     = "THREEPHASE_CORS_ORIGINS"
	EnvRate     = "THREEPHASE_RATE"
)

type Config struct {
	Preset   string       `yaml:"preset"`
	LogLevel string       `yaml:"log_level"`
	Window   WindowConfig `yaml:"window"`
	Server   ServerConfig `yaml:"server"`
	TUI      TUIConfig    `yaml:"tui"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Image  string `yaml:"image"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	Rate        float64  `yaml:"rate"`
	Burst       int      `yaml:"burst"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type TUIConfig struct {
	Theme string `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Image:  DefaultImage,
		},
		Server: ServerConfig{
			Addr:  DefaultAddr,
			Rate:  DefaultRate,
			Burst: DefaultBurst,
		},
		TUI: TUIConfig{Theme: DefaultTheme},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv reads .env style files into the process environment. Missing files
// are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from THREEPHASE_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCORS); v != "" {
		c.Server.CORSOrigins = c.Server.CORSOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}
	if v := os.Getenv(EnvRate); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRate, err)
		}
		c.Server.Rate = r
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Window.FPS)
	}
	if c.Server.Rate < 0 || c.Server.Burst < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Preset != "" {
		if _, err := GetPreset(c.Preset); err != nil {
			return err
		}
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// Logger builds a text slog logger at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
