package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if len(cfg.Assets.Roots) != 1 || cfg.Assets.Roots[0] != "assets" {
		t.Errorf("expected default asset root 'assets', got %v", cfg.Assets.Roots)
	}

	if cfg.Map.Name != "" {
		t.Errorf("expected procedural map by default, got %q", cfg.Map.Name)
	}
	if cfg.Map.Width != 64 || cfg.Map.Height != 64 {
		t.Errorf("expected 64x64 procedural map, got %dx%d", cfg.Map.Width, cfg.Map.Height)
	}

	if cfg.Sprites.PageSize != 1024 {
		t.Errorf("expected page size 1024, got %d", cfg.Sprites.PageSize)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

assets:
  roots:
    - base-assets
    - mod-assets

map:
  name: "harbor"
  seed: 42

sprites:
  page_size: 512

logging:
  level: "debug"
  log_file: "demo.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}

	if len(cfg.Assets.Roots) != 2 || cfg.Assets.Roots[1] != "mod-assets" {
		t.Errorf("expected two asset roots, got %v", cfg.Assets.Roots)
	}

	if cfg.Map.Name != "harbor" {
		t.Errorf("expected map 'harbor', got %q", cfg.Map.Name)
	}
	if cfg.Map.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Map.Seed)
	}
	// Values absent from the file keep their defaults.
	if cfg.Map.Width != 64 {
		t.Errorf("expected default width 64, got %d", cfg.Map.Width)
	}

	if cfg.Sprites.PageSize != 512 {
		t.Errorf("expected page size 512, got %d", cfg.Sprites.PageSize)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "demo.log" {
		t.Errorf("expected log file 'demo.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 800
	cfg.Map.Name = "quarry"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Graphics.Width != 800 {
		t.Errorf("expected width 800 after round trip, got %d", loaded.Graphics.Width)
	}
	if loaded.Map.Name != "quarry" {
		t.Errorf("expected map 'quarry' after round trip, got %q", loaded.Map.Name)
	}
}
