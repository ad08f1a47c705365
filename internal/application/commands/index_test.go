package commands

import (
	"context"
	"testing"
)

func TestIndexCommand_Execute(t *testing.T) {
	tests := []struct {
		name         string
		full         bool
		needsRebuild bool
		wantFull     bool
	}{
		{"incremental", false, false, false},
		{"forced full", true, false, true},
		{"rebuild required", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := &fakeIndex{needsRebuild: tt.needsRebuild}
			cmd := NewIndexCommand(idx, newMemStore())
			cmd.Full = tt.full

			result, err := cmd.Execute(context.Background())
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if result.Full != tt.wantFull {
				t.Errorf("Full = %v, want %v", result.Full, tt.wantFull)
			}
			if tt.wantFull && (idx.fullSyncs != 1 || idx.incSyncs != 0) {
				t.Errorf("syncs = %d full, %d incremental", idx.fullSyncs, idx.incSyncs)
			}
			if !tt.wantFull && (idx.fullSyncs != 0 || idx.incSyncs != 1) {
				t.Errorf("syncs = %d full, %d incremental", idx.fullSyncs, idx.incSyncs)
			}
			if !contains(result.Message, "Indexed 3 plugins") {
				t.Errorf("unexpected message: %s", result.Message)
			}
		})
	}
}

func TestIndexCommand_SinglePlugin(t *testing.T) {
	store := newMemStore()
	store.put("quests.esx", samplePlugin())
	idx := &fakeIndex{}

	cmd := NewIndexCommand(idx, store)
	cmd.Path = "quests.esx"
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if idx.indexed["quests.esx"] == nil {
		t.Fatal("plugin was not indexed")
	}
	if result.Stats.RecordsIndexed != 1 || result.Stats.AliasesIndexed != 4 || result.Stats.TargetsIndexed != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if idx.fullSyncs+idx.incSyncs != 0 {
		t.Error("single plugin indexing should not sync the directory")
	}
}
