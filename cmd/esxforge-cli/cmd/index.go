package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var indexFull bool

var indexCmd = &cobra.Command{
	Use:   "index [plugin]",
	Short: "Update the plugin index",
	Long: `Catalog the records, aliases and objective targets of every plugin in
the directory. Only changed plugins are read again unless --full is given.
With a plugin argument only that plugin is indexed.

The database lives under $XDG_DATA_HOME/esxforge unless ESXFORGE_INDEX is set.

Examples:
  esxforge-cli index
  esxforge-cli index --full
  esxforge-cli index SmartMarkers.esx`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		idx, err := openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		index := commands.NewIndexCommand(idx, GetRepo())
		index.Full = indexFull
		if len(args) == 1 {
			index.Path = args[0]
		}

		result, err := index.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexFull, "full", false, "rebuild the whole index")
	rootCmd.AddCommand(indexCmd)
}
