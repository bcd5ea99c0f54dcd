package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"templater/internal/adapter/support"
)

var supportCmd = &cobra.Command{
	Use:   "support",
	Short: "Write the Java runtime classes used by generated units",
	Long: `Support writes MethodSourceTemplate.java and the marker annotation into the
configured runtime package below the source root. Existing files are
replaced.`,
	Args: cobra.NoArgs,
	RunE: runSupport,
}

func init() {
	rootCmd.AddCommand(supportCmd)
}

func runSupport(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	tree, err := newSourceTree(cfg)
	if err != nil {
		return err
	}

	units, err := support.Install(cmd.Context(), tree, support.Options{
		RuntimePackage: cfg.Generate.RuntimePackage,
		Marker:         cfg.Generate.Marker,
		InlineSuffix:   cfg.Generate.InlineSuffix,
		OutputSuffix:   cfg.Generate.OutputSuffix,
	})
	if err != nil {
		return err
	}

	for _, u := range units {
		fmt.Printf("Wrote %s\n", u.Path)
	}
	return nil
}
