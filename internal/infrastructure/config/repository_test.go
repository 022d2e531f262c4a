package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"pdfcompressor/internal/domain/entities"
	"pdfcompressor/internal/infrastructure/config"
)

func TestRepository_LoadDefaultsWhenMissing(t *testing.T) {
	repo := config.NewRepositoryWithEnvFile("")

	cfg, err := repo.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Compression.Preset != string(entities.PresetBalanced) {
		t.Errorf("Expected balanced preset, got %q", cfg.Compression.Preset)
	}
	if cfg.Processing.MaxAttempts != entities.MaxTargetAttempts {
		t.Errorf("Expected %d attempts, got %d", entities.MaxTargetAttempts, cfg.Processing.MaxAttempts)
	}
	if cfg.History.Backend != "file" {
		t.Errorf("Expected file history backend, got %q", cfg.History.Backend)
	}
}

func TestRepository_SaveAndLoad(t *testing.T) {
	repo := config.NewRepositoryWithEnvFile("")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.Compression.Preset = "strong"
	cfg.Compression.TargetSize = "2MB"
	cfg.Compression.Grayscale = true
	cfg.Scanner.PageRange = "1-3"

	if err := repo.Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := repo.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Compression.Preset != "strong" || loaded.Compression.TargetSize != "2MB" ||
		!loaded.Compression.Grayscale || loaded.Scanner.PageRange != "1-3" {
		t.Errorf("Loaded config differs: %+v", loaded.Compression)
	}
}

func TestRepository_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("compression:\n  preset: light\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.NewRepositoryWithEnvFile("").Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Compression.Preset != "light" {
		t.Errorf("Expected light preset, got %q", cfg.Compression.Preset)
	}
	if cfg.Server.Address != ":8080" || cfg.Output.LogFileName != "compressor.log" {
		t.Errorf("Defaults should survive partial config: %+v %+v", cfg.Server, cfg.Output)
	}
}

func TestRepository_EnvOverrides(t *testing.T) {
	t.Setenv("PDFC_PRESET", "strong")
	t.Setenv("PDFC_TARGET_SIZE", "1MB")
	t.Setenv("PDFC_GRAYSCALE", "true")
	t.Setenv("PDFC_MAX_ATTEMPTS", "3")
	t.Setenv("PDFC_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := config.NewRepositoryWithEnvFile("").Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Compression.Preset != "strong" || cfg.Compression.TargetSize != "1MB" || !cfg.Compression.Grayscale {
		t.Errorf("Env overrides not applied: %+v", cfg.Compression)
	}
	if cfg.Processing.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", cfg.Processing.MaxAttempts)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("Unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestRepository_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("PDFC_HISTORY_BACKEND=memory\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv выставляет переменную процесса; t.Setenv вернет прежнее значение
	t.Setenv("PDFC_HISTORY_BACKEND", "")
	os.Unsetenv("PDFC_HISTORY_BACKEND")

	cfg, err := config.NewRepositoryWithEnvFile(envFile).Load(filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.History.Backend != "memory" {
		t.Errorf("Expected memory backend from .env, got %q", cfg.History.Backend)
	}
}

func TestRepository_InvalidValues(t *testing.T) {
	t.Setenv("PDFC_GRAYSCALE", "maybe")
	if _, err := config.NewRepositoryWithEnvFile("").Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Expected error for invalid PDFC_GRAYSCALE")
	}
}

func TestRepository_InvalidPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("compression:\n  preset: extreme\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.NewRepositoryWithEnvFile("").Load(path); err == nil {
		t.Error("Expected error for unknown preset")
	}
}
