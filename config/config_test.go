package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Generate.Marker != "@TemplateMethod" {
		t.Errorf("expected Marker=@TemplateMethod, got %s", cfg.Generate.Marker)
	}
	if cfg.Generate.OutputSuffix != "Accessible" {
		t.Errorf("expected OutputSuffix=Accessible, got %s", cfg.Generate.OutputSuffix)
	}
	if cfg.Generate.DefaultUnit != "de.a0h.javatemplater.TemplateExample" {
		t.Errorf("expected default unit TemplateExample, got %s", cfg.Generate.DefaultUnit)
	}
	if cfg.Source.Root != filepath.Join("src", "main", "java") {
		t.Errorf("expected Root=src/main/java, got %s", cfg.Source.Root)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "templater.yaml")

	content := `
source:
  root: java
  max_size: 1MiB
generate:
  output_suffix: Templates
manifest:
  enabled: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.Root != "java" {
		t.Errorf("expected Root=java, got %s", cfg.Source.Root)
	}
	if cfg.Generate.OutputSuffix != "Templates" {
		t.Errorf("expected OutputSuffix=Templates, got %s", cfg.Generate.OutputSuffix)
	}
	if cfg.Manifest.Enabled {
		t.Error("expected manifest disabled")
	}
	if cfg.Generate.Marker != "@TemplateMethod" {
		t.Errorf("expected unset Marker to keep its default, got %s", cfg.Generate.Marker)
	}

	n, err := cfg.MaxSizeBytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1<<20 {
		t.Errorf("expected 1MiB=%d, got %d", 1<<20, n)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".templater"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".templater", "config.yaml")

	content := `
generate:
  runtime_package: org.example.rt
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generate.RuntimePackage != "org.example.rt" {
		t.Errorf("expected RuntimePackage=org.example.rt, got %s", cfg.Generate.RuntimePackage)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvSourceRoot, "/srv/java")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
	if cfg.SourceRoot("/home/user/project") != "/srv/java" {
		t.Errorf("expected absolute root to win, got %s", cfg.SourceRoot("/home/user/project"))
	}
}

func TestValidate_BadMaxSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.MaxSize = "lots"

	err := cfg.Validate()
	if !errors.Is(err, errdefs.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestManifestPath(t *testing.T) {
	path := DefaultConfig().ManifestPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".templater", "manifest.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
