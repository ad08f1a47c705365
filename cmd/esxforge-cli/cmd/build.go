package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var (
	buildAuthor string
	buildIndent bool
)

var buildCmd = &cobra.Command{
	Use:   "build <output>",
	Short: "Generate a plugin of marker quests",
	Long: `Generate a plugin from the build section of esxforge.yaml. Without a
config file the default Smart Markers layout is used: 20 misc quests
and 8 regular quests in the light-plugin range.

Examples:
  esxforge-cli build SmartMarkers.esx
  esxforge-cli -c markers.yaml build Out.esx --author Me`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		buildCfg := GetConfig().Build
		if buildAuthor != "" {
			buildCfg.Author = buildAuthor
		}
		if cmd.Flags().Changed("indent") {
			buildCfg.Indent = buildIndent
		}

		build := commands.NewBuildCommand(GetRepo(), buildCfg, args[0])
		result, err := build.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		for _, problem := range result.ESL.Problems {
			fmt.Println("warning:", problem)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildAuthor, "author", "", "author written to the header")
	buildCmd.Flags().BoolVar(&buildIndent, "indent", false, "indent the XML output, overriding the config")
	rootCmd.AddCommand(buildCmd)
}
