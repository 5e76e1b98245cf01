package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all runtime configuration. Values come from built-in defaults,
// then an optional TOML file, then environment variables.
type Config struct {
	// Server
	Port        int `toml:"port"`
	MaxUploadMB int `toml:"max_upload_mb"`

	// Audio probing. An empty FFprobe disables the fallback prober.
	FFprobe        string `toml:"ffprobe"`
	FFprobeTimeout int    `toml:"ffprobe_timeout"` // seconds

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // auto, console, json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           8080,
		MaxUploadMB:    64,
		FFprobe:        "ffprobe",
		FFprobeTimeout: 15,
		LogLevel:       "info",
		LogFormat:      "auto",
	}
}

// Load reads the TOML file at path, if any, and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Port = envInt("PO33_PORT", cfg.Port)
	cfg.MaxUploadMB = envInt("PO33_MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.FFprobe = envStr("PO33_FFPROBE", cfg.FFprobe)
	cfg.FFprobeTimeout = envInt("PO33_FFPROBE_TIMEOUT", cfg.FFprobeTimeout)
	cfg.LogLevel = envStr("PO33_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envStr("PO33_LOG_FORMAT", cfg.LogFormat)
	return cfg, nil
}

// MaxUploadBytes is the request body limit for sample uploads.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// FFprobeTimeoutDuration converts FFprobeTimeout to a time.Duration.
func (c Config) FFprobeTimeoutDuration() time.Duration {
	return time.Duration(c.FFprobeTimeout) * time.Second
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// envStr treats a variable set to "" as an override, so PO33_FFPROBE= turns
// the fallback prober off.
func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
