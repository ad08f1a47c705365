package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var (
	cloneFormID string
	cloneSuffix string
	cloneOutput string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <plugin> <source-editor-id> <new-editor-id>",
	Short: "Copy a quest under a new editor ID",
	Long: `Copy a quest with its objectives, aliases and conditions. The copy gets
the first free form ID unless --form-id is given.

Examples:
  esxforge-cli clone Quests.esx MainQuest MainQuest_B
  esxforge-cli clone Quests.esx MainQuest MainQuest_B --form-id 900 -o Out.esx`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		clone := commands.NewCloneQuestCommand(GetRepo(), args[0], args[1], args[2])
		clone.FormID = cloneFormID
		clone.NameSuffix = cloneSuffix
		clone.OutputPath = cloneOutput

		result, err := clone.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneFormID, "form-id", "", "hex form ID for the copy")
	cloneCmd.Flags().StringVar(&cloneSuffix, "suffix", commands.DefaultCloneSuffix, "appended to the full name")
	cloneCmd.Flags().StringVarP(&cloneOutput, "output", "o", "", "write to this plugin instead")
	rootCmd.AddCommand(cloneCmd)
}
