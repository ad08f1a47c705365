package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"esxforge/internal/adapters/s3"
	"esxforge/internal/application/commands"
)

var (
	publishKey   string
	publishForce bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <plugin>",
	Short: "Upload a plugin to an S3 bucket",
	Long: `Upload a validated plugin to an S3-compatible bucket. Existing objects
are never overwritten. Plugins with problems are refused unless --force is given.

The bucket is configured through ESXFORGE_S3_BUCKET, ESXFORGE_S3_REGION,
ESXFORGE_S3_ENDPOINT, ESXFORGE_S3_PATH_STYLE and ESXFORGE_S3_PREFIX.

Examples:
  esxforge-cli publish SmartMarkers.esx
  esxforge-cli publish SmartMarkers.esx --key releases/1.0/SmartMarkers.esx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := s3.OpenFromEnv(ctx)
		if err != nil {
			return err
		}

		publish := commands.NewPublishCommand(GetRepo(), store, args[0])
		publish.Key = publishKey
		publish.Force = publishForce
		publish.Indent = GetConfig().Build.Indent

		result, err := publish.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishKey, "key", "", "object key (default: file name)")
	publishCmd.Flags().BoolVar(&publishForce, "force", false, "publish even if validation fails")
	rootCmd.AddCommand(publishCmd)
}
