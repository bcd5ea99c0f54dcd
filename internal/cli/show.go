package cli

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/spf13/cobra"
	"templater/internal/domain"
	"templater/internal/usecase"
)

var showCmd = &cobra.Command{
	Use:   "show <unit> <template>",
	Short: "Print the reconstructed source of one template",
	Long: `Show prints the source of a template method as it is stored in the
generated accessor unit. The manifest is consulted first; units without a
record are extracted from their source on the fly.`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	name, templateName := args[0], args[1]

	reg, err := templatesOf(cmd.Context(), name)
	if err != nil {
		return err
	}

	t, ok := reg.Lookup(templateName)
	if !ok {
		return fmt.Errorf("template %s in unit %s: %w", templateName, name, errdefs.ErrNotFound)
	}

	fmt.Print(t.Source())
	return nil
}

func templatesOf(ctx context.Context, name string) (*domain.Registry, error) {
	cfg := GetConfig()

	if cfg.Manifest.Enabled {
		st, err := openManifest(cfg)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		entry, err := st.Get(name)
		switch {
		case err == nil:
			reg := domain.NewRegistry()
			for _, t := range entry.Templates {
				reg.Add(t)
			}
			return reg, nil
		case !errdefs.IsNotFound(err):
			return nil, err
		}
		log.G(ctx).WithField("unit", name).Debug("no manifest entry, extracting from source")
	}

	tree, err := newSourceTree(cfg)
	if err != nil {
		return nil, err
	}
	src := domain.NewUnit(name)
	if err := tree.Load(ctx, src); err != nil {
		return nil, err
	}

	generateUC := usecase.NewGenerateUseCase(tree, nil, nil, newExtractor(cfg), newEmitter(cfg), usecase.GenerateOptions{
		OutputSuffix: cfg.Generate.OutputSuffix,
	})
	return generateUC.Compile(ctx, src, domain.NewUnit(name+cfg.Generate.OutputSuffix))
}
