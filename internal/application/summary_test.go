package application

import (
	"strings"
	"testing"

	"esxforge/internal/domain"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestSummarize(t *testing.T) {
	p := domain.NewPlugin()
	h := domain.NewHeader()
	h.SetAuthor(domain.DefaultAuthor)
	h.AddMaster(domain.DefaultMaster)
	p.SetHeader(h)

	alloc := domain.NewESLAllocator()
	b, err := NewQuestBuilder(p, alloc, "MP_Test", "")
	if err != nil {
		t.Fatal(err)
	}
	b.SetName("Test Quest").SetQuestData(domain.QuestData{Flags: "0x0111", Priority: 40, Type: 6})
	b.AddPlayerReference()
	b.AddObjectiveWithTargets(0, "Go there", 1, "G")
	b.UpdateAliasCount()
	p.SyncHeader(alloc)

	got := Summarize(p)

	wantLines := []string{
		"# Skyrim ESP Plugin Summary",
		"## Plugin Header (TES4)",
		"- Version: 0.7.4",
		"- File Version: 1.71000004",
		"- Number of Records: 1",
		"- Next Object ID: 00000803",
		"- Creator: DEFAULT",
		"  - Skyrim.esm",
		"## Quest Group (1 records)",
		"### Quest: Test Quest",
		"- Editor ID: MP_Test",
		"- Flags: 0x0111",
		"- Priority: 40",
		"- **0: Go there**",
		"  - Targets: Alias 2050 with conditions: [Function 566 Param1=0x00000802 Param2=0x00000000]",
		"- **2049: PlayerRef**",
		"  - Reference: 00000014",
		"- **2050: G_Target1**",
		"  - Flags: 4242",
	}
	for _, want := range wantLines {
		if !contains(got, want) {
			t.Errorf("summary missing %q\n%s", want, got)
		}
	}
}

func TestSummarize_EmptyPlugin(t *testing.T) {
	got := Summarize(domain.NewPlugin())
	if contains(got, "Plugin Header") || contains(got, "Quest Group") {
		t.Errorf("empty plugin summary has sections:\n%s", got)
	}
}
