package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Margin.SpacingMM != [3]float64{1, 1, 1} {
		t.Errorf("default spacing = %v", cfg.Margin.SpacingMM)
	}
	if cfg.Margin.PaddingMM < 30 || cfg.Margin.PaddingMM > 50 {
		t.Errorf("default padding %g outside the 30-50 mm range", cfg.Margin.PaddingMM)
	}
	if cfg.Margin.SliceGapFill != 5 {
		t.Errorf("default slice gap fill = %d, want 5", cfg.Margin.SliceGapFill)
	}
	if cfg.Margin.Strategy != "separable" {
		t.Errorf("default strategy = %q", cfg.Margin.Strategy)
	}
	if cfg.Processing.Workers < 1 {
		t.Errorf("default workers = %d", cfg.Processing.Workers)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.Margin.SliceGapFill != DefaultConfig().Margin.SliceGapFill {
		t.Error("missing file did not return defaults")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "engine.yaml")

	cfg := DefaultConfig()
	cfg.Margin.SpacingMM = [3]float64{0.5, 0.5, 3}
	cfg.Margin.Strategy = "exact"
	cfg.Margin.PaddingMM = 35
	cfg.Output.Verbose = false

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Margin.SpacingMM != cfg.Margin.SpacingMM {
		t.Errorf("spacing = %v, want %v", loaded.Margin.SpacingMM, cfg.Margin.SpacingMM)
	}
	if loaded.Margin.Strategy != "exact" || loaded.Margin.PaddingMM != 35 {
		t.Errorf("margin section did not round trip: %+v", loaded.Margin)
	}
	if loaded.Output.Verbose {
		t.Error("verbose flag did not round trip")
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("margin: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML should fail to load")
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}
