package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"esxforge/internal/application/commands"
	"esxforge/internal/config"
	"esxforge/internal/ports"
)

// RegisterWriteTools adds all plugin-writing tools to the MCP server.
// publish_plugin is registered only when artifacts is not nil.
func RegisterWriteTools(s *server.MCPServer, store ports.PluginStore, build config.BuildConfig, artifacts ports.ArtifactStore) {
	s.AddTool(buildTool(), buildHandler(store, build))
	s.AddTool(cloneTool(), cloneHandler(store))
	s.AddTool(retargetTool(), retargetHandler(store))
	if artifacts != nil {
		s.AddTool(publishTool(), publishHandler(store, artifacts))
	}
}

// --- build_plugin ---

func buildTool() mcp.Tool {
	return mcp.NewTool("build_plugin",
		mcp.WithDescription("Generate a plugin from the configured quest sets. Every quest, player reference and target alias gets a unique id from one allocator; the build fails before writing if the id range is too small."),
		mcp.WithString("output",
			mcp.Description("Output plugin file, relative to the plugin directory"),
			mcp.Required(),
		),
		mcp.WithString("author", mcp.Description("Override the configured author")),
	)
}

func buildHandler(store ports.PluginStore, build config.BuildConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg := build
		if author := req.GetString("author", ""); author != "" {
			cfg.Author = author
		}

		result, err := commands.NewBuildCommand(store, cfg, req.GetString("output", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- clone_quest ---

func cloneTool() mcp.Tool {
	return mcp.NewTool("clone_quest",
		mcp.WithDescription("Copy a quest under a new editor id and a fresh form id. Objectives and aliases are copied as they are."),
		pathArg(),
		mcp.WithString("source_editor_id",
			mcp.Description("Editor id of the quest to copy"),
			mcp.Required(),
		),
		mcp.WithString("new_editor_id",
			mcp.Description("Editor id of the copy"),
			mcp.Required(),
		),
		mcp.WithString("form_id", mcp.Description("Form id of the copy in hex. Omit to take the first free id.")),
		mcp.WithString("output", mcp.Description("Output file. Omit to overwrite the input.")),
	)
}

func cloneHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCloneQuestCommand(store,
			req.GetString("path", ""),
			req.GetString("source_editor_id", ""),
			req.GetString("new_editor_id", ""))
		cmd.FormID = req.GetString("form_id", "")
		cmd.OutputPath = req.GetString("output", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- retarget_objective ---

func retargetTool() mcp.Tool {
	return mcp.NewTool("retarget_objective",
		mcp.WithDescription("Rebuild a quest around one objective targeting every alias whose name starts with a prefix. Matched aliases are renamed, the player reference is kept, other aliases and objectives are dropped."),
		pathArg(),
		mcp.WithString("prefix",
			mcp.Description("Alias name prefix (e.g. Obj1_)"),
			mcp.Required(),
		),
		mcp.WithString("quest", mcp.Description("Quest editor id. Omit for the first quest.")),
		mcp.WithString("objective_name", mcp.Description("Display text of the rebuilt objective")),
		mcp.WithString("rename", mcp.Description("Base name for the matched aliases, numbered from 1")),
		mcp.WithString("output", mcp.Description("Output file. Omit to overwrite the input.")),
	)
}

func retargetHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRetargetCommand(store,
			req.GetString("path", ""),
			req.GetString("quest", ""),
			req.GetString("prefix", ""))
		cmd.ObjectiveName = req.GetString("objective_name", cmd.ObjectiveName)
		cmd.Rename = req.GetString("rename", cmd.Rename)
		cmd.OutputPath = req.GetString("output", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- publish_plugin ---

func publishTool() mcp.Tool {
	return mcp.NewTool("publish_plugin",
		mcp.WithDescription("Upload a validated plugin to the artifact store. Existing objects are never overwritten."),
		pathArg(),
		mcp.WithString("key", mcp.Description("Object key. Omit to use the file name.")),
	)
}

func publishHandler(store ports.PluginStore, artifacts ports.ArtifactStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewPublishCommand(store, artifacts, req.GetString("path", ""))
		cmd.Key = req.GetString("key", "")
		cmd.Indent = true

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(fmt.Errorf("publish: %w", err))
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
