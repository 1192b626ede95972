package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}

	if cfg.Trigger.Mode != "api" {
		t.Errorf("Trigger.Mode = %q, want %q", cfg.Trigger.Mode, "api")
	}

	if cfg.Trigger.Processor != "i386" {
		t.Errorf("Trigger.Processor = %q, want %q", cfg.Trigger.Processor, "i386")
	}

	if cfg.Trigger.API.URL != "https://api.travis-ci.org" {
		t.Errorf("Trigger.API.URL = %q, want %q", cfg.Trigger.API.URL, "https://api.travis-ci.org")
	}

	if cfg.Trigger.API.Branch != "master" {
		t.Errorf("Trigger.API.Branch = %q, want %q", cfg.Trigger.API.Branch, "master")
	}

	if cfg.Uploads.MaxSize != 8388608 {
		t.Errorf("Uploads.MaxSize = %d, want 8388608", cfg.Uploads.MaxSize)
	}

	if len(cfg.Uploads.AllowedExtensions) != 5 {
		t.Errorf("Uploads.AllowedExtensions = %v, want 5 entries", cfg.Uploads.AllowedExtensions)
	}

	if cfg.Staging.FeatureFile != "./features.txt" {
		t.Errorf("Staging.FeatureFile = %q, want %q", cfg.Staging.FeatureFile, "./features.txt")
	}

	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled should be false by default")
	}

	if cfg.RateLimit.Requests != 10 {
		t.Errorf("RateLimit.Requests = %d, want 10", cfg.RateLimit.Requests)
	}

	if cfg.RateLimit.Window != time.Hour {
		t.Errorf("RateLimit.Window = %v, want 1h", cfg.RateLimit.Window)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	content := []byte(`
server:
  port: 8080
trigger:
  mode: script
  script_path: /opt/isoforge/trigger.sh
uploads:
  allowed_extensions: ["png"]
`)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}

	if cfg.Trigger.Mode != "script" {
		t.Errorf("Trigger.Mode = %q, want %q", cfg.Trigger.Mode, "script")
	}

	if cfg.Trigger.ScriptPath != "/opt/isoforge/trigger.sh" {
		t.Errorf("Trigger.ScriptPath = %q, want %q", cfg.Trigger.ScriptPath, "/opt/isoforge/trigger.sh")
	}

	if len(cfg.Uploads.AllowedExtensions) != 1 || cfg.Uploads.AllowedExtensions[0] != "png" {
		t.Errorf("Uploads.AllowedExtensions = %v, want [png]", cfg.Uploads.AllowedExtensions)
	}

	// Values not in the file keep their defaults
	if cfg.Trigger.API.Branch != "master" {
		t.Errorf("Trigger.API.Branch = %q, want default %q", cfg.Trigger.API.Branch, "master")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// When a specific file path is given and doesn't exist, it should error
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() with non-existent file path should return error")
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("invalid: yaml: : :"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Load() with invalid YAML should return error")
	}
}
