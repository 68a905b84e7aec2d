package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadAppliesFileValuesAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := `{
  "server": {"port": 9099},
  "convert": {"api_base": "http://api.internal:8000"},
  "settings": {"default_theme": "dark"}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	if err := cfg.Read(path); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if cfg.Server.Port != 9099 {
		t.Errorf("Expected port 9099, got %d", cfg.Server.Port)
	}
	if cfg.Convert.APIBase != "http://api.internal:8000" {
		t.Errorf("Unexpected api base %q", cfg.Convert.APIBase)
	}
	if cfg.Settings.DefaultTheme != "dark" {
		t.Errorf("Expected dark, got %q", cfg.Settings.DefaultTheme)
	}

	// Untouched fields get defaults.
	if cfg.Upload.MaxRequestBodyMB != 256 {
		t.Errorf("Expected default body limit, got %d", cfg.Upload.MaxRequestBodyMB)
	}
	if cfg.Preview.MaxThumbSide != 256 {
		t.Errorf("Expected default thumb side, got %d", cfg.Preview.MaxThumbSide)
	}
}

func TestReadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"convert": {"api_base": "http://from-file"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("IMAGETOOL_API_BASE", "http://from-env")
	t.Setenv("IMAGETOOL_PORT", "7070")

	cfg := NewConfig()
	if err := cfg.Read(path); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if cfg.Convert.APIBase != "http://from-env" {
		t.Errorf("Expected env override, got %q", cfg.Convert.APIBase)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Server.Port)
	}
}

func TestReadMissingFileStillReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Read(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Expected default port, got %d", cfg.Server.Port)
	}
}
