package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPlugin_DefaultVersion(t *testing.T) {
	p := NewPlugin()
	if p.Node().Tag != TagPlugin {
		t.Errorf("root tag = %q, want %q", p.Node().Tag, TagPlugin)
	}
	if p.Version() != DefaultPluginVersion {
		t.Errorf("Version = %q, want %q", p.Version(), DefaultPluginVersion)
	}
}

func TestPlugin_GetOrCreateGroup(t *testing.T) {
	p := NewPlugin()
	g1 := p.GetOrCreateGroup("QUST", "0")
	g2 := p.GetOrCreateGroup("QUST", "0")

	if g1 != g2 {
		t.Error("expected the existing group to be returned")
	}
	if len(p.Groups()) != 1 || len(p.Node().Children) != 1 {
		t.Errorf("expected exactly one group, have %d", len(p.Groups()))
	}
	if g1.Label() != "QUST" || g1.GroupType() != "0" {
		t.Errorf("group label/type = %q/%q", g1.Label(), g1.GroupType())
	}
}

func TestPlugin_GetOrCreateQuest(t *testing.T) {
	p := NewPlugin()
	q := p.GetOrCreateQuest("Q1", 0x800)
	again := p.GetOrCreateQuest("Q1", 0x900)

	if q != again {
		t.Error("expected the existing quest to be returned")
	}
	if p.Quest("Q1") != q {
		t.Error("Quest lookup by editor id failed")
	}
	if p.Quest("missing") != nil {
		t.Error("expected nil for unknown editor id")
	}
	if diff := cmp.Diff([]FormID{0x800}, p.FormIDs()); diff != "" {
		t.Errorf("FormIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestPlugin_SetHeaderIsFirstChild(t *testing.T) {
	p := NewPlugin()
	p.GetOrCreateGroup("QUST", "0")
	p.SetHeader(NewHeader())

	if p.Node().Children[0].Tag != TagTES4 {
		t.Fatalf("first child = %s, want TES4", p.Node().Children[0].Tag)
	}

	replacement := NewHeader()
	replacement.SetAuthor("me")
	p.SetHeader(replacement)
	if len(p.Node().FindAll(TagTES4)) != 1 {
		t.Error("SetHeader should replace the existing header")
	}
	if p.Header().Author() != "me" {
		t.Errorf("Author = %q, want me", p.Header().Author())
	}
}

func TestHeader_Masters(t *testing.T) {
	h := NewHeader()
	h.SetAuthor(DefaultAuthor)
	h.AddMaster("Skyrim.esm")
	h.AddMaster("Update.esm")

	if diff := cmp.Diff([]string{"Skyrim.esm", "Update.esm"}, h.Masters()); diff != "" {
		t.Errorf("Masters mismatch (-want +got):\n%s", diff)
	}
	if got := len(h.Node().FindAll(TagDATA)); got != 2 {
		t.Errorf("expected a DATA sentinel per master, got %d", got)
	}
}

func TestPlugin_SyncHeader(t *testing.T) {
	p := NewPlugin()
	h := NewHeader()
	h.SetAuthor(DefaultAuthor)
	p.SetHeader(h)

	alloc := NewESLAllocator()
	for _, name := range []string{"Q1", "Q2"} {
		id, _ := alloc.Next()
		p.GetOrCreateQuest(name, id)
	}
	alloc.Range(3)

	if err := p.SyncHeader(alloc); err != nil {
		t.Fatalf("SyncHeader failed: %v", err)
	}

	if h.Node().Children[0].Tag != TagHEDR {
		t.Errorf("HEDR should be the first header child, got %s", h.Node().Children[0].Tag)
	}
	data, ok, err := h.Data()
	if err != nil || !ok {
		t.Fatalf("Data() = %v, %v", ok, err)
	}
	want := HeaderData{Version: DefaultHeaderVersion, NumRecords: 2, NextObjectID: 0x805}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("header data mismatch (-want +got):\n%s", diff)
	}
	if err := CheckHeader(p, alloc); err != nil {
		t.Errorf("CheckHeader after sync: %v", err)
	}

	alloc.Next()
	if err := CheckHeader(p, alloc); !errors.Is(err, ErrStructural) {
		t.Errorf("CheckHeader after further allocation = %v, want ErrStructural", err)
	}

	if err := p.SyncHeader(alloc); err != nil {
		t.Fatal(err)
	}
	if got := len(h.Node().FindAll(TagHEDR)); got != 1 {
		t.Errorf("repeated sync created %d HEDR elements", got)
	}
}

func TestPlugin_ESLCompatibility(t *testing.T) {
	t.Run("compatible", func(t *testing.T) {
		p := NewPlugin()
		p.GetOrCreateQuest("Q1", 0x800)
		p.GetOrCreateQuest("Q2", 0xFFF)

		report := p.ESLCompatibility()
		if !report.Compatible || report.Count != 2 {
			t.Errorf("report = %+v, want compatible with 2 ids", report)
		}
	})

	t.Run("out of range and malformed", func(t *testing.T) {
		p := NewPlugin()
		p.GetOrCreateQuest("Q1", 0x1000)
		bad := p.GetOrCreateQuest("Q2", 0x801)
		bad.Node().SetAttr("id", "xyz")

		report := p.ESLCompatibility()
		if report.Compatible {
			t.Fatal("expected incompatible report")
		}
		if len(report.Problems) != 2 {
			t.Errorf("problems = %v, want 2", report.Problems)
		}
	})
}

func TestGroup_Remove(t *testing.T) {
	p := NewPlugin()
	q1 := p.GetOrCreateQuest("Q1", 0x800)
	p.GetOrCreateQuest("Q2", 0x801)
	g := p.Group(QuestGroupLabel)

	if !g.Remove(q1) {
		t.Fatal("expected Remove to find the quest")
	}
	if g.Len() != 1 || len(g.Node().Children) != 1 {
		t.Errorf("group has %d entries and %d children after Remove", g.Len(), len(g.Node().Children))
	}
	if q1.Node().Parent() != nil {
		t.Error("removed record should be detached")
	}
	if g.Remove(q1) {
		t.Error("second Remove should report false")
	}
}
