package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List units recorded in the generation manifest",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if !cfg.Manifest.Enabled {
		return fmt.Errorf("manifest is disabled in the configuration")
	}

	st, err := openManifest(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to list manifest: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No units generated yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s\n", e.QualifiedName)
		fmt.Printf("  output:    %s\n", e.OutputPath)
		fmt.Printf("  generated: %s\n", e.GeneratedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  digest:    %s\n", e.SourceDigest)
		for _, t := range e.Templates {
			inline := ""
			if t.MustInline {
				inline = " (inline)"
			}
			fmt.Printf("    - %s%s\n", t.Name, inline)
		}
	}
	return nil
}
