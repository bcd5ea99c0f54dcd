package cli

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"templater/internal/adapter/emitter"
)

var (
	inspectDump   bool
	inspectSource bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <generated-file>",
	Short: "Decode a generated accessor unit back into its templates",
	Long: `Inspect parses a file produced by "templater generate", unescapes the
stored strings and prints the templates it contains.

Examples:
  templater inspect src/main/java/de/a0h/javatemplater/TemplateExampleAccessible.java
  templater inspect --source Foo.java    # Print each template's source
  templater inspect --dump Foo.java      # Dump the decoded structures`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "dump decoded templates with all fields")
	inspectCmd.Flags().BoolVar(&inspectSource, "source", false, "print the reconstructed source of each template")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	reg, err := emitter.Decode(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if inspectDump {
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		dumper.Fdump(cmd.OutOrStdout(), reg.Templates())
		return nil
	}

	fmt.Printf("%s: %d templates\n", args[0], reg.Len())
	for _, t := range reg.Templates() {
		fmt.Printf("\n%s\n", t.Name)
		fmt.Printf("  must inline: %v\n", t.MustInline)
		switch {
		case t.Params.Skipped():
			fmt.Printf("  params:      not parsed (generic types)\n")
		case len(t.Params.Params) == 0:
			fmt.Printf("  params:      none\n")
		default:
			for i, p := range t.Params.Params {
				label := "  params:     "
				if i > 0 {
					label = "             "
				}
				fmt.Printf("%s %s %s\n", label, p.Type, p.Name)
			}
		}
		if inspectSource {
			fmt.Printf("\n%s", t.Source())
		}
	}
	return nil
}
