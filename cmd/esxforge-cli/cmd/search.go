package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <plugin> <query>",
	Short: "Search the outline of a plugin",
	Long: `Search quests, objectives, aliases and records of a plugin by form ID,
name or detail.

Results are ranked by relevance using fuzzy matching.

Examples:
  esxforge-cli search SmartMarkers.esx Misc_05
  esxforge-cli search SmartMarkers.esx 80a`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		search := commands.NewSearchCommand(GetRepo(), args[0], args[1])
		results, err := search.Execute(ctx)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			kind := strings.ToLower(r.Node.Kind.String())
			fmt.Printf("[%s] %s %s\n", kind, r.Node.ID, r.Node.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
