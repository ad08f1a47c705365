package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"esxforge/internal/adapters/filesystem"
	"esxforge/internal/config"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), result.IsError
}

func testBuildConfig() config.BuildConfig {
	cfg := config.DefaultBuildConfig()
	cfg.Quests = []config.QuestSet{{
		Name:                "misc",
		Count:               1,
		QuestType:           6,
		Objectives:          2,
		AliasesPerObjective: 2,
		EditorID:            "Misc_{quest:02}",
	}}
	return cfg
}

func TestTools_BuildThenRead(t *testing.T) {
	dir := t.TempDir()
	store := filesystem.NewRepository(dir)

	text, isErr := callTool(t, buildHandler(store, testBuildConfig()), map[string]any{"output": "gen.esx"})
	if isErr {
		t.Fatalf("build_plugin failed: %s", text)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen.esx")); err != nil {
		t.Fatalf("plugin not written: %v", err)
	}

	text, isErr = callTool(t, listQuestsHandler(store), map[string]any{"path": "gen.esx"})
	if isErr || !strings.Contains(text, "Misc_01") || !strings.Contains(text, "2 objectives, 5 aliases") {
		t.Errorf("list_quests = %q", text)
	}

	text, isErr = callTool(t, validateHandler(store), map[string]any{"path": "gen.esx"})
	if isErr || !strings.Contains(text, "is valid") {
		t.Errorf("validate = %q", text)
	}

	text, _ = callTool(t, outlineHandler(store), map[string]any{"path": "gen.esx"})
	if !strings.Contains(text, "Obj2_Ref2") {
		t.Errorf("outline missing alias:\n%s", text)
	}

	text, _ = callTool(t, searchHandler(store), map[string]any{"path": "gen.esx", "query": "Player"})
	if !strings.HasPrefix(text, "Alias") {
		t.Errorf("search = %q", text)
	}
}

func TestTools_CloneAndRetarget(t *testing.T) {
	dir := t.TempDir()
	store := filesystem.NewRepository(dir)
	if text, isErr := callTool(t, buildHandler(store, testBuildConfig()), map[string]any{"output": "gen.esx"}); isErr {
		t.Fatalf("build_plugin failed: %s", text)
	}

	text, isErr := callTool(t, cloneHandler(store), map[string]any{
		"path":             "gen.esx",
		"source_editor_id": "Misc_01",
		"new_editor_id":    "Misc_01_Copy",
	})
	if isErr || !strings.Contains(text, "Misc_01_Copy") {
		t.Errorf("clone_quest = %q", text)
	}

	text, isErr = callTool(t, retargetHandler(store), map[string]any{
		"path":   "gen.esx",
		"quest":  "Misc_01_Copy",
		"prefix": "Obj2_",
	})
	if isErr || !strings.Contains(text, "to 2 aliases (kept PlayerRef)") {
		t.Errorf("retarget_objective = %q", text)
	}

	text, isErr = callTool(t, retargetHandler(store), map[string]any{"path": "gen.esx", "prefix": "Nope"})
	if !isErr || !strings.Contains(text, "no matching aliases") {
		t.Errorf("expected tool error, got %q", text)
	}
}

func TestTools_MissingPlugin(t *testing.T) {
	store := filesystem.NewRepository(t.TempDir())
	_, isErr := callTool(t, summarizeHandler(store), map[string]any{"path": "missing.esx"})
	if !isErr {
		t.Error("expected tool error for a missing plugin")
	}
}
