package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envVars = []string{
	"PO33_PORT", "PO33_MAX_UPLOAD_MB", "PO33_FFPROBE",
	"PO33_FFPROBE_TIMEOUT", "PO33_LOG_LEVEL", "PO33_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		// t.Setenv restores the original value after the test.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, Default())
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.MaxUploadBytes() != 64<<20 {
		t.Errorf("MaxUploadBytes = %d, want 64MiB", cfg.MaxUploadBytes())
	}
	if cfg.FFprobe != "ffprobe" {
		t.Errorf("FFprobe = %q, want ffprobe", cfg.FFprobe)
	}
	if cfg.FFprobeTimeoutDuration() != 15*time.Second {
		t.Errorf("FFprobeTimeout = %v, want 15s", cfg.FFprobeTimeoutDuration())
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PO33_PORT", "3000")
	t.Setenv("PO33_MAX_UPLOAD_MB", "8")
	t.Setenv("PO33_FFPROBE", "/opt/ffmpeg/bin/ffprobe")
	t.Setenv("PO33_FFPROBE_TIMEOUT", "3")
	t.Setenv("PO33_LOG_LEVEL", "debug")
	t.Setenv("PO33_LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Config{
		Port:           3000,
		MaxUploadMB:    8,
		FFprobe:        "/opt/ffmpeg/bin/ffprobe",
		FFprobeTimeout: 3,
		LogLevel:       "debug",
		LogFormat:      "json",
	}
	if cfg != want {
		t.Errorf("Load = %+v, want %+v", cfg, want)
	}
}

func TestEnvIntInvalidFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PO33_PORT", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Invalid int env should fallback to default: got %d, want 8080", cfg.Port)
	}
}

func TestEmptyFFprobeEnvDisablesFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PO33_FFPROBE", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FFprobe != "" {
		t.Errorf("FFprobe = %q, want empty", cfg.FFprobe)
	}
}

func TestLoadFilePrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "po33hub.toml")
	content := "port = 9090\nmax_upload_mb = 16\nlog_format = \"console\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PO33_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want env value 7070", cfg.Port)
	}
	if cfg.MaxUploadMB != 16 {
		t.Errorf("MaxUploadMB = %d, want file value 16", cfg.MaxUploadMB)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("LogFormat = %q, want file value console", cfg.LogFormat)
	}
	if cfg.FFprobe != "ffprobe" {
		t.Errorf("FFprobe = %q, want default", cfg.FFprobe)
	}
}

func TestLoadFileErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("port = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed file")
	}
}
