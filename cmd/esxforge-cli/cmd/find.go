package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application"
	"esxforge/internal/application/commands"
)

var findCmd = &cobra.Command{
	Use:   "find [record|alias]",
	Short: "Look up records and alias targets in the index",
	Long: `Query the plugin index built by "esxforge-cli index".

Examples:
  esxforge-cli find record MP_SmartMarkers_Misc_01
  esxforge-cli find record --form-id 800
  esxforge-cli find alias 802`,
}

var findFormID bool

var findRecordCmd = &cobra.Command{
	Use:   "record <editor-id>",
	Short: "Find records by editor ID or form ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		find, closeIndex, err := newFindCommand()
		if err != nil {
			return err
		}
		defer closeIndex()

		if findFormID {
			find.FormID = args[0]
		} else {
			find.EditorID = args[0]
		}
		return runFind(find)
	},
}

var findAliasCmd = &cobra.Command{
	Use:   "alias <alias-id>",
	Short: "Find the objectives that target an alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		find, closeIndex, err := newFindCommand()
		if err != nil {
			return err
		}
		defer closeIndex()

		find.AliasID = args[0]
		return runFind(find)
	},
}

func newFindCommand() (*commands.FindCommand, func(), error) {
	idx, err := openIndex()
	if err != nil {
		return nil, nil, err
	}
	return commands.NewFindCommand(idx), func() { idx.Close() }, nil
}

func runFind(find *commands.FindCommand) error {
	result, err := find.Execute(context.Background())
	if err != nil {
		return err
	}

	for _, r := range result.Records {
		printRecord(r)
	}
	for _, t := range result.Targets {
		printTarget(t)
	}
	fmt.Println(result.Message)
	return nil
}

func printRecord(r application.IndexedRecord) {
	fmt.Printf("%s  %s %s  %s  (%s)\n", r.FormID, r.Tag, r.EditorID, r.Name, r.PluginPath)
}

func printTarget(t application.AliasTarget) {
	fmt.Printf("%s  objective %d %q  alias %s  %d conditions  (%s)\n",
		t.QuestEditorID, t.ObjectiveIndex, t.ObjectiveName, t.AliasID, t.Conditions, t.PluginPath)
}

func init() {
	findRecordCmd.Flags().BoolVar(&findFormID, "form-id", false, "treat the argument as a hex form ID")
	findCmd.AddCommand(findRecordCmd)
	findCmd.AddCommand(findAliasCmd)
	rootCmd.AddCommand(findCmd)
}
