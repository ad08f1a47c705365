package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <plugin>",
	Short: "Summarize the quests of a plugin",
	Long: `Print the header and every quest of a plugin: editor ID, form ID,
objectives with their targets, and aliases.

Example:
  esxforge-cli inspect SmartMarkers.esx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		inspect := commands.NewInspectCommand(GetRepo(), args[0])
		result, err := inspect.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Print(result.Summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
