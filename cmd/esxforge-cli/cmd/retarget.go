package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var (
	retargetQuest  string
	retargetIndex  int
	retargetName   string
	retargetRename string
	retargetOutput string
)

var retargetCmd = &cobra.Command{
	Use:   "retarget <plugin> <alias-prefix>",
	Short: "Rebuild a quest around one objective",
	Long: `Rebuild a quest so a single objective targets every alias whose name
starts with the prefix. Matching aliases are renamed in order, the player
reference is kept, and other aliases, objectives and stages are dropped.

Examples:
  esxforge-cli retarget Quest.esx ObjectiveOne_
  esxforge-cli retarget Quest.esx Marker_ --quest MyQuest --rename Target -o Out.esx`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		retarget := commands.NewRetargetCommand(GetRepo(), args[0], retargetQuest, args[1])
		retarget.ObjectiveIndex = retargetIndex
		retarget.ObjectiveName = retargetName
		retarget.Rename = retargetRename
		retarget.OutputPath = retargetOutput

		result, err := retarget.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	retargetCmd.Flags().StringVar(&retargetQuest, "quest", "", "editor ID of the quest (default: first quest)")
	retargetCmd.Flags().IntVar(&retargetIndex, "objective", 1, "index of the new objective")
	retargetCmd.Flags().StringVar(&retargetName, "objective-name", "Objective One", "display text of the new objective")
	retargetCmd.Flags().StringVar(&retargetRename, "rename", "Objective", "new alias name prefix")
	retargetCmd.Flags().StringVarP(&retargetOutput, "output", "o", "", "write to this plugin instead")
	rootCmd.AddCommand(retargetCmd)
}
