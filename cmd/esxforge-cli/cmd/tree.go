package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"esxforge/internal/application"
	"esxforge/internal/application/commands"
)

var treeCmd = &cobra.Command{
	Use:   "tree <plugin>",
	Short: "Display the outline of a plugin",
	Long: `Display the outline of a plugin: header, groups, records, and for
quests their objectives, targets and aliases.

Example:
  esxforge-cli tree SmartMarkers.esx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		inspect := commands.NewInspectCommand(GetRepo(), args[0])
		result, err := inspect.Execute(ctx)
		if err != nil {
			return err
		}

		printTree(result.Outline, 0)
		return nil
	},
}

func printTree(node *application.OutlineNode, depth int) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	line := strings.TrimSpace(node.ID + " " + node.Name)
	if node.Detail != "" {
		line += "  (" + node.Detail + ")"
	}
	fmt.Printf("%s%s\n", indent, line)

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
