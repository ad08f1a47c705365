package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plugin>",
	Short: "Check a plugin for structural problems",
	Long: `Check that every form ID fits the light-plugin range and that each
quest's aliases, objective targets and conditions agree.

Exits with an error when problems are found.

Example:
  esxforge-cli validate SmartMarkers.esx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		validate := commands.NewValidateCommand(GetRepo(), args[0])
		result, err := validate.Execute(ctx)
		if err != nil {
			return err
		}

		for _, p := range result.Problems {
			fmt.Println(p.String())
		}
		if !result.Valid() {
			return fmt.Errorf("%s", result.Message)
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
