package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/application/commands"
)

var (
	allocatePlugin  string
	allocateStart   string
	allocateEnd     string
	allocateReserve []string
	allocateCount   int
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Preview form ID allocation",
	Long: `Show which form IDs would be handed out. The allocator is seeded with the
IDs already used by --plugin, reserves --reserve IDs, then takes --count
consecutive IDs. Nothing is written.

Examples:
  esxforge-cli allocate --count 30
  esxforge-cli allocate --plugin SmartMarkers.esx --count 15
  esxforge-cli allocate --start 900 --end 9ff --reserve 900 --count 4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		allocate := commands.NewAllocateCommand(GetRepo())
		allocate.Path = allocatePlugin
		allocate.Start = allocateStart
		allocate.End = allocateEnd
		allocate.Reserve = allocateReserve
		allocate.Count = allocateCount

		result, err := allocate.Execute(ctx)
		if err != nil {
			return err
		}

		for _, id := range result.Skipped {
			fmt.Printf("skipped %s (outside range)\n", id)
		}
		for _, id := range result.Range {
			fmt.Println(id)
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	allocateCmd.Flags().StringVarP(&allocatePlugin, "plugin", "p", "", "seed with the IDs of this plugin")
	allocateCmd.Flags().StringVar(&allocateStart, "start", "", "first ID of the range (default 800)")
	allocateCmd.Flags().StringVar(&allocateEnd, "end", "", "last ID of the range (default fff)")
	allocateCmd.Flags().StringSliceVar(&allocateReserve, "reserve", nil, "IDs to mark as used")
	allocateCmd.Flags().IntVarP(&allocateCount, "count", "n", 0, "number of consecutive IDs to take")
	rootCmd.AddCommand(allocateCmd)
}
