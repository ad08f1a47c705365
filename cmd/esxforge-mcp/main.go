package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"esxforge/internal/adapters/filesystem"
	mcpadapter "esxforge/internal/adapters/mcp"
	"esxforge/internal/adapters/s3"
	"esxforge/internal/adapters/sqlite"
	"esxforge/internal/application/commands"
	"esxforge/internal/config"
	"esxforge/internal/logger"
	"esxforge/internal/ports"
)

func main() {
	dirFlag := flag.String("dir", config.PluginDir(), "plugin directory")
	configFlag := flag.String("config", config.ConfigPath(), "path to esxforge.yaml")
	noIndex := flag.Bool("no-index", false, "disable the sqlite index and its tools")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("esxforge-mcp: %v", err)
	}
	// stdout carries the protocol
	if err := logger.Initialize(cfg.Log); err != nil {
		log.Fatalf("esxforge-mcp: %v", err)
	}

	ctx := context.Background()
	repo := filesystem.NewRepository(*dirFlag)

	var index ports.PluginIndex
	if !*noIndex {
		idx, err := openIndex(ctx, repo)
		if err != nil {
			logger.Warning("index unavailable", "error", err)
		} else {
			defer idx.Close()
			index = idx
		}
	}

	var artifacts ports.ArtifactStore
	if os.Getenv("ESXFORGE_S3_BUCKET") != "" {
		store, err := s3.OpenFromEnv(ctx)
		if err != nil {
			logger.Warning("publishing disabled", "error", err)
		} else {
			artifacts = store
		}
	}

	mcpServer := server.NewMCPServer(
		"esxforge-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, repo, index)
	mcpadapter.RegisterWriteTools(mcpServer, repo, cfg.Build, artifacts)

	logger.Info("serving", "dir", repo.Dir(), "index", index != nil, "publish", artifacts != nil)
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("esxforge-mcp: %v", err)
	}
}

// openIndex opens the index and brings it up to date with the directory
func openIndex(ctx context.Context, repo *filesystem.Repository) (*sqlite.Index, error) {
	idx := sqlite.NewIndex(config.IndexPath())
	if err := idx.Open(repo.Dir()); err != nil {
		return nil, err
	}

	result, err := commands.NewIndexCommand(idx, repo).Execute(ctx)
	if err != nil {
		idx.Close()
		return nil, err
	}
	logger.Info("index synced", "path", idx.Path(), "full", result.Full, "plugins", result.Stats.FilesScanned)
	return idx, nil
}
