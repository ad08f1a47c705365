package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"esxforge/internal/application"
	"esxforge/internal/domain"
)

func TestRetargetCommand_Execute(t *testing.T) {
	store := newMemStore()
	store.put("quests.esx", samplePlugin())

	cmd := NewRetargetCommand(store, "quests.esx", "MainQuest", "ObjectiveOne_")
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]domain.FormID{0x802, 0x803}, result.AliasIDs); diff != "" {
		t.Errorf("AliasIDs mismatch (-want +got):\n%s", diff)
	}
	if !result.PlayerRef {
		t.Error("player reference should be kept")
	}

	p, err := store.Load(context.Background(), "quests.esx")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	q := p.Quest("MainQuest")
	if q.FullName() != "Main Quest" {
		t.Errorf("FullName = %q", q.FullName())
	}
	if len(q.Objectives) != 1 {
		t.Fatalf("objectives = %d, want 1", len(q.Objectives))
	}
	o := q.Objectives[0]
	if o.Index != 1 || o.Name != "Objective One" {
		t.Errorf("objective = %d %q", o.Index, o.Name)
	}
	var targets []domain.FormID
	for _, tg := range o.Targets {
		targets = append(targets, tg.AliasID)
	}
	if diff := cmp.Diff([]domain.FormID{0x802, 0x803}, targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for _, a := range q.Aliases {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{"Objective1", "Objective2", domain.PlayerRefName}, names); diff != "" {
		t.Errorf("alias names mismatch (-want +got):\n%s", diff)
	}
	if n, _ := q.DeclaredAliasCount(); n != 3 {
		t.Errorf("declared alias count = %d, want 3", n)
	}
	if q.Alias(0x804) != nil {
		t.Error("unmatched alias should be dropped")
	}
	if err := domain.ValidateForOutput(q); err != nil {
		t.Errorf("retargeted quest invalid: %v", err)
	}
}

func TestRetargetCommand_FirstQuestByDefault(t *testing.T) {
	store := newMemStore()
	store.put("quests.esx", samplePlugin())

	cmd := NewRetargetCommand(store, "quests.esx", "", "Extra_")
	cmd.OutputPath = "retargeted.esx"
	cmd.ObjectiveName = "Find it"
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.AliasIDs) != 1 || result.AliasIDs[0] != 0x804 {
		t.Errorf("AliasIDs = %v", result.AliasIDs)
	}

	if _, ok := store.files["retargeted.esx"]; !ok {
		t.Error("output path not written")
	}
	original, _ := store.Load(context.Background(), "quests.esx")
	if len(original.Quest("MainQuest").Objectives) != 2 {
		t.Error("input should be left alone when an output path is given")
	}
}

func TestRetargetCommand_NoMatch(t *testing.T) {
	store := newMemStore()
	store.put("quests.esx", samplePlugin())

	_, err := NewRetargetCommand(store, "quests.esx", "MainQuest", "Nope").Execute(context.Background())
	if !errors.Is(err, application.ErrNoAliases) {
		t.Fatalf("expected ErrNoAliases, got %v", err)
	}
	if store.saves != 0 {
		t.Error("nothing should be saved without a match")
	}
}

func TestRetargetCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *RetargetCommand)
		wantErr bool
		errMsg  string
	}{
		{"valid", func(c *RetargetCommand) {}, false, ""},
		{"missing prefix", func(c *RetargetCommand) { c.Prefix = " " }, true, "prefix is required"},
		{"negative index", func(c *RetargetCommand) { c.ObjectiveIndex = -1 }, true, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRetargetCommand(newMemStore(), "quests.esx", "MainQuest", "Obj")
			tt.modify(cmd)
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
