package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/referee/packages/casefile"
	"github.com/abdul-hamid-achik/referee/packages/format"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List all cases in case documents",
	Long: `List all cases defined in case documents.

Examples:
  referee list users.match.yaml
  referee list ./cases/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := casefile.Collect(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no case documents found"))
	}

	for _, file := range files {
		doc, err := casefile.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %v\n", err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for _, c := range doc.Cases {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", c.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "    %s %s\n", c.Operator(), format.Format(c.Matcher))
			if c.Skip {
				fmt.Fprintf(cmd.OutOrStdout(), "    skipped\n")
			}
		}
	}

	return nil
}
