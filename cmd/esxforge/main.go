package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/editor"
	"esxforge/internal/adapters/filesystem"
	"esxforge/internal/adapters/tui"
	"esxforge/internal/config"
	"esxforge/internal/logger"
)

func main() {
	dirFlag := flag.String("dir", config.PluginDir(), "plugin directory")
	flag.Parse()

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal; only file logging is kept
	if cfg.Log.FileEnabled {
		cfg.Log.ConsoleEnabled = false
		if err := logger.Initialize(cfg.Log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		logger.Discard()
	}

	// Initialize adapters
	repo := filesystem.NewRepository(*dirFlag)
	editorOpener := editor.NewOpener()

	// Create and run TUI app
	app := tui.NewApp(repo, editorOpener)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
