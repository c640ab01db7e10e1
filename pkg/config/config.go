package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Page fetch strategies.
const (
	FetchModeHTTP   = "http"
	FetchModeRender = "render"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFile         string        `mapstructure:"LOG_FILE"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	OutputDir        string `mapstructure:"OUTPUT_DIR"`
	PublicPathPrefix string `mapstructure:"PUBLIC_PATH_PREFIX"`
	ArtifactPrefix   string `mapstructure:"ARTIFACT_PREFIX"`
	FallbackName     string `mapstructure:"FALLBACK_NAME"`

	FetchMode     string        `mapstructure:"FETCH_MODE"`
	FetchTimeout  time.Duration `mapstructure:"FETCH_TIMEOUT"` // 0 keeps the client default
	RenderTimeout time.Duration `mapstructure:"RENDER_TIMEOUT"`
	UserAgent     string        `mapstructure:"USER_AGENT"`

	Minify        bool     `mapstructure:"MINIFY"`
	PurgeSafelist []string `mapstructure:"PURGE_SAFELIST"`
}

var defaults = map[string]any{
	"SERVER_PORT":        "8080",
	"LOG_LEVEL":          "info",
	"LOG_FILE":           "",
	"SHUTDOWN_TIMEOUT":   "10s",
	"OUTPUT_DIR":         "public",
	"PUBLIC_PATH_PREFIX": "/",
	"ARTIFACT_PREFIX":    "purged-",
	"FALLBACK_NAME":      "style.css",
	"FETCH_MODE":         FetchModeHTTP,
	"FETCH_TIMEOUT":      "0s",
	"RENDER_TIMEOUT":     "60s",
	"USER_AGENT":         "css-purge-service/1.0",
	"MINIFY":             true,
	"PURGE_SAFELIST":     "",
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine; the environment alone is a valid source.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.PurgeSafelist = compact(cfg.PurgeSafelist)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeRender:
	default:
		return fmt.Errorf("invalid FETCH_MODE %q: want %q or %q", c.FetchMode, FetchModeHTTP, FetchModeRender)
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR must not be empty")
	}
	if c.ArtifactPrefix == "" {
		return errors.New("ARTIFACT_PREFIX must not be empty")
	}
	if c.FallbackName == "" {
		return errors.New("FALLBACK_NAME must not be empty")
	}
	if c.FetchTimeout < 0 || c.RenderTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
