package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

const (
	EnvLogLevel   = "TEMPLATER_LOG_LEVEL"
	EnvSourceRoot = "TEMPLATER_SOURCE_ROOT"
)

// Config holds all configuration for the templater tool.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Generate GenerateConfig `yaml:"generate"`
	Manifest ManifestConfig `yaml:"manifest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SourceConfig describes where compilation units live.
type SourceConfig struct {
	Root      string   `yaml:"root"`
	Extension string   `yaml:"extension"`
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
	MaxSize   string   `yaml:"max_size"` // e.g. "64MiB"; empty means the Java string limit
}

// GenerateConfig controls extraction and the generated accessor unit.
type GenerateConfig struct {
	Marker         string `yaml:"marker"`
	InlineSuffix   string `yaml:"inline_suffix"`
	OutputSuffix   string `yaml:"output_suffix"`
	RuntimePackage string `yaml:"runtime_package"`
	DefaultUnit    string `yaml:"default_unit"`
	AccessorName   string `yaml:"accessor_name"`
}

// ManifestConfig holds generation manifest configuration.
type ManifestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // relative to the project dir
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Root:      filepath.Join("src", "main", "java"),
			Extension: ".java",
			Includes:  []string{"**/*.java"},
			Excludes:  []string{"**/*Accessible.java", "**/.git/**", "**/target/**", "**/build/**"},
		},
		Generate: GenerateConfig{
			Marker:         "@TemplateMethod",
			InlineSuffix:   "_mustInline",
			OutputSuffix:   "Accessible",
			RuntimePackage: "de.a0h.javatemplater",
			DefaultUnit:    "de.a0h.javatemplater.TemplateExample",
			AccessorName:   "getMethods",
		},
		Manifest: ManifestConfig{
			Enabled: true,
			Path:    filepath.Join(".templater", "manifest.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for templater.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "templater.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".templater", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// ApplyEnv overrides settings from the environment, including values a
// .env file put there.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSourceRoot)); v != "" {
		c.Source.Root = v
	}
}

// MaxSizeBytes parses Source.MaxSize. Zero means no configured limit.
func (c *Config) MaxSizeBytes() (int64, error) {
	if c.Source.MaxSize == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(c.Source.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: source.max_size %q: %v", errdefs.ErrInvalidArgument, c.Source.MaxSize, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: source.max_size must be positive, got %q", errdefs.ErrInvalidArgument, c.Source.MaxSize)
	}
	return n, nil
}

// Validate reports settings the generator cannot work with.
func (c *Config) Validate() error {
	if c.Generate.Marker == "" {
		return fmt.Errorf("%w: generate.marker is empty", errdefs.ErrInvalidArgument)
	}
	if c.Generate.OutputSuffix == "" {
		return fmt.Errorf("%w: generate.output_suffix is empty", errdefs.ErrInvalidArgument)
	}
	if c.Source.Extension == "" {
		return fmt.Errorf("%w: source.extension is empty", errdefs.ErrInvalidArgument)
	}
	if _, err := c.MaxSizeBytes(); err != nil {
		return err
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SourceRoot resolves the source root against the project dir.
func (c *Config) SourceRoot(dir string) string {
	if filepath.IsAbs(c.Source.Root) {
		return c.Source.Root
	}
	return filepath.Join(dir, c.Source.Root)
}

// ManifestPath returns the path to the manifest database.
func (c *Config) ManifestPath(dir string) string {
	if filepath.IsAbs(c.Manifest.Path) {
		return c.Manifest.Path
	}
	return filepath.Join(dir, c.Manifest.Path)
}

// EnsureDir ensures the directory holding the manifest exists.
func (c *Config) EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.ManifestPath(dir)), 0755)
}
