package domain

import "testing"

func TestBuildOutline(t *testing.T) {
	p := NewPlugin()
	p.SetHeader(NewHeader())
	p.Header().AddMaster(DefaultMaster)

	q := soundQuest()
	p.GetOrCreateGroup(QuestGroupLabel, "0").AddRecord(q)
	p.GetOrCreateGroup("NPC_", "0").AddRecord(NewRecord("NPC_", 0x900))

	root := BuildOutline(p, "test.esx")

	if root.Kind != OutlinePlugin || !root.IsExpanded {
		t.Fatalf("root = %+v", root)
	}
	// header, QUST group, NPC_ group
	if got := len(root.Flatten()); got != 4 {
		t.Errorf("visible nodes = %d, want 4", got)
	}

	questGroup := root.Children[1]
	questNode := questGroup.Children[0]
	if questNode.Kind != OutlineQuest || questNode.Name != "Q1" {
		t.Fatalf("quest node = %+v", questNode)
	}
	if questNode.Depth() != 2 {
		t.Errorf("quest depth = %d, want 2", questNode.Depth())
	}

	// one objective then two aliases
	if len(questNode.Children) != 3 {
		t.Fatalf("quest children = %d, want 3", len(questNode.Children))
	}
	target := questNode.Children[0].Children[0]
	if target.Kind != OutlineTarget || target.Name != "T_Target1" {
		t.Errorf("target = %+v, want it named after its alias", target)
	}
	if questNode.Children[1].Detail != "player reference" {
		t.Errorf("player alias detail = %q", questNode.Children[1].Detail)
	}

	questGroup.Expand()
	questNode.Toggle()
	if got := len(root.Flatten()); got != 8 {
		t.Errorf("visible nodes after expanding = %d, want 8", got)
	}
	questNode.Collapse()
	if questNode.IsExpanded || !questNode.HasChildren() {
		t.Error("Collapse should hide but keep children")
	}
}

func TestOutlineKind_String(t *testing.T) {
	if OutlineTarget.String() != "Target" || OutlineKind(99).String() != "Unknown" {
		t.Error("unexpected kind names")
	}
}
