package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"templater/internal/adapter/fs"
	"templater/internal/adapter/store"
	"templater/internal/port"
	"templater/internal/usecase"
)

var (
	generateAll   bool
	generateForce bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [unit...]",
	Short: "Generate accessor units for marked Java units",
	Long: `Generate reads each named compilation unit (qualified Java name) below the
source root and writes <Name>Accessible.java next to it. Without arguments
the configured default unit is processed.

A failing unit is reported and the remaining units are still processed; the
command exits non-zero if any unit failed.

Examples:
  templater generate de.a0h.javatemplater.TemplateExample
  templater generate --all
  templater generate --all --force`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "process every unit below the source root that contains the marker")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "regenerate units even if unchanged since the last run")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if generateAll && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with unit names")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	tree, err := newSourceTree(cfg)
	if err != nil {
		return err
	}

	var manifest port.Manifest
	configHash := store.ComputeConfigHash(cfg)
	if cfg.Manifest.Enabled {
		st, err := openManifest(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		cleared, reason, err := st.Prepare(cfg)
		if err != nil {
			return fmt.Errorf("failed to prepare manifest: %w", err)
		}
		if cleared {
			fmt.Printf("Manifest cleared: %s\n", reason)
		}
		manifest = st
	}

	generateUC := usecase.NewGenerateUseCase(tree, tree, manifest, newExtractor(cfg), newEmitter(cfg), usecase.GenerateOptions{
		OutputSuffix: cfg.Generate.OutputSuffix,
		DefaultUnit:  cfg.Generate.DefaultUnit,
		ConfigHash:   configHash,
		Force:        generateForce,
	})

	names := args
	if generateAll {
		walker := fs.NewWalker(cfg.Source.Includes, cfg.Source.Excludes)
		fmt.Printf("Scanning %s...\n", tree.Root())
		names, err = generateUC.Discover(ctx, walker, tree, tree.Root())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No units containing", cfg.Generate.Marker, "found.")
			return nil
		}
	}

	var progress func(string)
	if len(names) > 1 {
		bar := progressbar.NewOptions(len(names),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Generating[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
		progress = func(string) {
			_ = bar.Add(1)
		}
	}

	result, runErr := generateUC.Run(ctx, names, progress)
	if result == nil {
		return runErr
	}

	fmt.Printf("\nGeneration complete:\n")
	fmt.Printf("  Units generated: %d\n", result.Generated())
	fmt.Printf("  Units skipped:   %d (unchanged)\n", result.Skipped())
	fmt.Printf("  Units failed:    %d\n", len(result.Failed))
	fmt.Printf("  Elapsed:         %s\n", formatDuration(result.Elapsed))

	for _, u := range result.Units {
		if !u.Skipped {
			fmt.Printf("  %s -> %s (%d templates)\n", u.Name, u.OutputPath, u.Templates)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if runErr != nil {
		return runErr
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d units failed", len(result.Failed), len(result.Failed)+len(result.Units))
	}
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
