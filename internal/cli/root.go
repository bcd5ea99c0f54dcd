package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/containerd/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"templater/config"
	"templater/internal/adapter/emitter"
	"templater/internal/adapter/extractor"
	srcfs "templater/internal/adapter/fs"
	"templater/internal/adapter/store"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "templater",
	Short: "Extract @TemplateMethod sources into generated Java accessor classes",
	Long: `templater reads Java compilation units, extracts the source text of every
method marked with @TemplateMethod and writes a companion class whose
getMethods() returns those sources as data.

Example usage:
  templater generate                        # Process the default example unit
  templater generate com.example.Kernels    # Process one unit
  templater generate --all                  # Process every marked unit
  templater support                         # Write the Java runtime classes`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if err := godotenv.Load(filepath.Join(rootDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}

		return setupLogging(cfg.Logging)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./templater.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "project directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func setupLogging(c config.LoggingConfig) error {
	log.L.Logger.SetOutput(os.Stderr)
	if err := log.SetLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	format := log.OutputFormat(c.Format)
	if format == "" {
		format = log.TextFormat
	}
	return log.SetFormat(format)
}

func newSourceTree(cfg *config.Config) (*srcfs.SourceTree, error) {
	maxSize, err := cfg.MaxSizeBytes()
	if err != nil {
		return nil, err
	}
	return srcfs.NewSourceTree(cfg.SourceRoot(GetRootDir()), cfg.Source.Extension, maxSize), nil
}

func newExtractor(cfg *config.Config) *extractor.Extractor {
	return extractor.New(extractor.Options{
		Marker:       cfg.Generate.Marker,
		InlineSuffix: cfg.Generate.InlineSuffix,
	})
}

func newEmitter(cfg *config.Config) *emitter.Emitter {
	return emitter.New(emitter.Options{
		RuntimePackage: cfg.Generate.RuntimePackage,
		AccessorName:   cfg.Generate.AccessorName,
	})
}

// openManifest opens the manifest store, creating it when missing. The
// caller closes it.
func openManifest(cfg *config.Config) (*store.BoltStore, error) {
	if err := cfg.EnsureDir(GetRootDir()); err != nil {
		return nil, fmt.Errorf("failed to create manifest directory: %w", err)
	}
	st, err := store.NewBoltStore(cfg.ManifestPath(GetRootDir()))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	return st, nil
}
