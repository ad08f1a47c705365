package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"esxforge/internal/application/commands"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// RegisterReadTools adds all read-only plugin tools to the MCP server.
// The index tools are registered only when index is not nil.
func RegisterReadTools(s *server.MCPServer, store ports.PluginStore, index ports.PluginIndex) {
	s.AddTool(listQuestsTool(), listQuestsHandler(store))
	s.AddTool(summarizeTool(), summarizeHandler(store))
	s.AddTool(outlineTool(), outlineHandler(store))
	s.AddTool(validateTool(), validateHandler(store))
	s.AddTool(searchTool(), searchHandler(store))
	s.AddTool(allocateTool(), allocateHandler(store))
	if index != nil {
		s.AddTool(findRecordTool(), findRecordHandler(index))
		s.AddTool(aliasUsageTool(), aliasUsageHandler(index))
	}
}

func pathArg() mcp.ToolOption {
	return mcp.WithString("path",
		mcp.Description("Plugin file, relative to the plugin directory (e.g. quests.esx)"),
		mcp.Required(),
	)
}

// --- list_quests ---

func listQuestsTool() mcp.Tool {
	return mcp.NewTool("list_quests",
		mcp.WithDescription("List the quests of a plugin with their form ids, objective and alias counts."),
		pathArg(),
	)
}

func listQuestsHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := store.Load(ctx, req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}
		return formatEntities(p.Quests(), formatQuest)
	}
}

// --- summarize ---

func summarizeTool() mcp.Tool {
	return mcp.NewTool("summarize",
		mcp.WithDescription("Render a markdown summary of a plugin: header, quests, objectives, targets and aliases."),
		pathArg(),
	)
}

func summarizeHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewInspectCommand(store, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Summary), nil
	}
}

// --- outline ---

func outlineTool() mcp.Tool {
	return mcp.NewTool("outline",
		mcp.WithDescription("Display the plugin as an indented tree of groups, records, objectives, targets and aliases."),
		pathArg(),
	)
}

func outlineHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewInspectCommand(store, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		renderOutline(&sb, result.Outline, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderOutline(sb *strings.Builder, node *domain.OutlineNode, prefix string) {
	line := strings.TrimSpace(node.ID + " " + node.Name)
	if node.Detail != "" {
		line += "  (" + node.Detail + ")"
	}
	fmt.Fprintf(sb, "%s%s\n", prefix, line)
	for _, child := range node.Children {
		renderOutline(sb, child, prefix+"  ")
	}
}

// --- validate ---

func validateTool() mcp.Tool {
	return mcp.NewTool("validate",
		mcp.WithDescription("Check light plugin compatibility and quest integrity: targets resolve to aliases, alias counts match, ids are unique."),
		pathArg(),
	)
}

func validateHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewValidateCommand(store, req.GetString("path", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
		for _, problem := range result.Problems {
			fmt.Fprintf(&sb, "- %s\n", problem)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Fuzzy search a plugin's quests, objectives and aliases by form id, editor id or name."),
		pathArg(),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
	)
}

func searchHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchCommand(store, req.GetString("path", ""), query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  %s  %s\n", r.Node.Kind, r.Node.ID, r.Node.Name, r.Node.Detail)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- allocate ---

func allocateTool() mcp.Tool {
	return mcp.NewTool("allocate",
		mcp.WithDescription("Dry run of the form id allocator: which ids a plugin would get next. Nothing is written."),
		mcp.WithString("path",
			mcp.Description("Plugin whose ids are already taken. Omit for an empty range."),
		),
		mcp.WithNumber("count",
			mcp.Description("Number of consecutive ids to take"),
		),
		mcp.WithString("start", mcp.Description("Range start in hex, default 800")),
		mcp.WithString("end", mcp.Description("Range end in hex, default fff")),
	)
}

func allocateHandler(store ports.PluginStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewAllocateCommand(store)
		cmd.Path = req.GetString("path", "")
		cmd.Count = req.GetInt("count", 0)
		cmd.Start = req.GetString("start", "")
		cmd.End = req.GetString("end", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		var sb strings.Builder
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
		if len(result.Range) > 0 {
			fmt.Fprintf(&sb, "range: %s-%s\n", result.Range[0], result.Range[len(result.Range)-1])
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- find_record ---

func findRecordTool() mcp.Tool {
	return mcp.NewTool("find_record",
		mcp.WithDescription("Find records across every indexed plugin by editor id or form id."),
		mcp.WithString("editor_id", mcp.Description("Exact editor id")),
		mcp.WithString("form_id", mcp.Description("Form id in hex")),
	)
}

func findRecordHandler(index ports.PluginIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewFindCommand(index)
		cmd.EditorID = req.GetString("editor_id", "")
		cmd.FormID = req.GetString("form_id", "")

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Records, formatRecord)
	}
}

// --- alias_usage ---

func aliasUsageTool() mcp.Tool {
	return mcp.NewTool("alias_usage",
		mcp.WithDescription("List the objectives, across every indexed plugin, that target an alias id."),
		mcp.WithString("alias_id",
			mcp.Description("Alias id in hex"),
			mcp.Required(),
		),
	)
}

func aliasUsageHandler(index ports.PluginIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewFindCommand(index)
		cmd.AliasID = req.GetString("alias_id", "")
		if cmd.AliasID == "" {
			return toolError(fmt.Errorf("alias_id is required"))
		}

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Targets, formatTarget)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatQuest(q *domain.Quest) string {
	return fmt.Sprintf("%s  %s  %s  (%d objectives, %d aliases)",
		q.FormIDText(), q.EditorID(), q.FullName(), len(q.Objectives), len(q.Aliases))
}

func formatRecord(r domain.IndexedRecord) string {
	return fmt.Sprintf("%s  %s  %s  %s  %s", r.PluginPath, r.FormID, r.Tag, r.EditorID, r.Name)
}

func formatTarget(t domain.AliasTarget) string {
	return fmt.Sprintf("%s  %s  objective %d %s  (%d conditions)",
		t.PluginPath, t.QuestEditorID, t.ObjectiveIndex, t.ObjectiveName, t.Conditions)
}
