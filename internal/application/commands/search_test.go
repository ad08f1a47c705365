package commands

import (
	"context"
	"testing"

	"esxforge/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "MainQuest",
			query:     "MainQuest",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "MP_SmartMarkers_Misc_01",
			query:     "MP_Smart",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "Smart Markers Misc 1",
			query:     "Markers",
			wantScore: 100, // contains only
		},
		{
			name:    "fuzzy across word boundaries",
			target:  "Obj1_Ref2",
			query:   "or",
			wantMin: 30,
		},
		{
			name:      "no match",
			target:    "PlayerRef",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "PlayerRef",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "PLAYERREF",
			query:   "playerref",
			wantMin: 100,
		},
		{
			name:    "form id match",
			target:  "00000802",
			query:   "802",
			wantMin: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)

			if tt.wantScore > 0 {
				if score != tt.wantScore {
					t.Errorf("expected score %d, got %d", tt.wantScore, score)
				}
			} else if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("expected score >= %d, got %d", tt.wantMin, score)
				}
			} else {
				if score != 0 {
					t.Errorf("expected score 0, got %d", score)
				}
			}
		})
	}
}

func TestFuzzyScore_Ordering(t *testing.T) {
	query := "target"

	exactScore := FuzzyScore("target", query)
	prefixScore := FuzzyScore("target one", query)
	containsScore := FuzzyScore("obj_target", query)
	fuzzyScore := FuzzyScore("t_a_r_g_e_t", query)

	if exactScore < prefixScore {
		t.Errorf("exact match should score >= prefix: %d < %d", exactScore, prefixScore)
	}
	if prefixScore < containsScore {
		t.Errorf("prefix match should score >= contains: %d < %d", prefixScore, containsScore)
	}
	if containsScore <= fuzzyScore {
		t.Errorf("contains match should score higher than fuzzy: %d <= %d", containsScore, fuzzyScore)
	}
}

func TestFuzzySort(t *testing.T) {
	nodes := []*domain.OutlineNode{
		{Kind: domain.OutlineAlias, ID: "00000801", Name: "PlayerRef", Detail: "player reference"},
		{Kind: domain.OutlineAlias, ID: "00000802", Name: "Obj1_Target1", Detail: "flags 4242"},
		{Kind: domain.OutlineQuest, ID: "00000800", Name: "MainQuest", Detail: "Main Quest"},
		{Kind: domain.OutlineAlias, ID: "00000803", Name: "Target Two", Detail: "flags 4242"},
	}

	sorted := FuzzySort(nodes, "target")

	if len(sorted) != 2 {
		t.Fatalf("expected 2 results, got %d", len(sorted))
	}
	if sorted[0].Node.Name != "Target Two" {
		t.Errorf("prefix match should rank first, got %s", sorted[0].Node.Name)
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score > sorted[i-1].Score {
			t.Errorf("results not sorted by score: %d > %d at index %d",
				sorted[i].Score, sorted[i-1].Score, i)
		}
	}
}

func TestSearchCommand_Execute(t *testing.T) {
	store := newMemStore()
	store.put("quests.esx", samplePlugin())

	results, err := NewSearchCommand(store, "quests.esx", "Extra").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Node.Name != "Extra_C" {
		t.Errorf("first result = %s", results[0].Node.Name)
	}

	short, err := NewSearchCommand(store, "quests.esx", "E").Execute(context.Background())
	if err != nil || short != nil {
		t.Errorf("single character query should return nothing, got %v, %v", short, err)
	}
}
