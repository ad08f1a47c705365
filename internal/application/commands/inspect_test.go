package commands

import (
	"context"
	"testing"

	"esxforge/internal/domain"
)

func TestInspectCommand_Execute(t *testing.T) {
	store := newMemStore()
	store.put("plugins/quests.esx", samplePlugin())

	result, err := NewInspectCommand(store, "plugins/quests.esx").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !contains(result.Summary, "- Editor ID: MainQuest") {
		t.Errorf("summary missing quest:\n%s", result.Summary)
	}
	if result.Outline.Name != "quests.esx" {
		t.Errorf("outline root = %q", result.Outline.Name)
	}
	if len(result.Outline.Children) != 2 || result.Outline.Children[0].Kind != domain.OutlineHeader {
		t.Errorf("outline children = %d", len(result.Outline.Children))
	}
	if !contains(result.Message, "1 quests") {
		t.Errorf("unexpected message: %s", result.Message)
	}
}

func TestInspectCommand_Validate(t *testing.T) {
	if err := NewInspectCommand(newMemStore(), "").Validate(); err == nil {
		t.Error("expected error for empty path")
	}
}
