package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"esxforge/internal/adapters/filesystem"
	"esxforge/internal/adapters/sqlite"
	"esxforge/internal/config"
	"esxforge/internal/logger"
)

var (
	pluginDir  string
	configPath string
	logLevel   string

	repo *filesystem.Repository
	cfg  *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "esxforge-cli",
	Short: "CLI for building and editing ESX quest plugins",
	Long: `esxforge-cli reads, generates and edits ESX plugins, the XML form of
Skyrim quest records.

It builds batches of marker quests within the light-plugin form ID range,
clones and retargets quests, validates plugins, and keeps a searchable
index of a plugin directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := logger.Initialize(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		repo = filesystem.NewRepository(pluginDir)
		logger.Debug("cli initialized", "dir", repo.Dir(), "config", configPath)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&pluginDir, "dir", "d", config.PluginDir(), "plugin directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.ConfigPath(), "path to esxforge.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARNING, ERROR)")
}

// GetRepo returns the initialized repository
func GetRepo() *filesystem.Repository {
	return repo
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// openIndex opens the plugin index for the current directory. Callers close it.
func openIndex() (*sqlite.Index, error) {
	idx := sqlite.NewIndex(config.IndexPath())
	if err := idx.Open(repo.Dir()); err != nil {
		return nil, err
	}
	logger.Debug("index opened", "path", idx.Path())
	return idx, nil
}
