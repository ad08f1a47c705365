package application

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"esxforge/internal/codec"
	"esxforge/internal/domain"
)

func newBuilder(t *testing.T, editorID string) *QuestBuilder {
	t.Helper()
	b, err := NewQuestBuilder(domain.NewPlugin(), domain.NewESLAllocator(), editorID, "")
	if err != nil {
		t.Fatalf("NewQuestBuilder failed: %v", err)
	}
	return b
}

func TestQuestBuilder_PlayerRefAndTargets(t *testing.T) {
	b := newBuilder(t, "Q1")
	b.SetName("Quest One").SetQuestData(domain.DefaultQuestData(0))

	if _, err := b.AddPlayerReference(); err != nil {
		t.Fatalf("AddPlayerReference failed: %v", err)
	}
	res, err := b.AddObjectiveWithTargets(10, "Find it", 3, "T")
	if err != nil {
		t.Fatalf("AddObjectiveWithTargets failed: %v", err)
	}
	if !res.Created || len(res.AliasIDs) != 3 {
		t.Errorf("result = %+v", res)
	}

	q := b.Quest()
	var names []string
	for _, a := range q.Aliases[1:] {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{"T_Target1", "T_Target2", "T_Target3"}, names); diff != "" {
		t.Errorf("alias names mismatch (-want +got):\n%s", diff)
	}

	o := q.Objective(10)
	if o == nil || len(o.Targets) != 3 {
		t.Fatalf("objective 10 = %+v", o)
	}
	for i, target := range o.Targets {
		if len(target.Conditions) != 1 {
			t.Fatalf("target %d has %d conditions", i, len(target.Conditions))
		}
		if target.Conditions[0].FunctionIndex != domain.DefaultFunctionIndex {
			t.Errorf("target %d function index = %d", i, target.Conditions[0].FunctionIndex)
		}
	}

	b.UpdateAliasCount()
	if n, ok := q.DeclaredAliasCount(); !ok || n != 4 {
		t.Errorf("declared alias count = %d, %v; want 4", n, ok)
	}
	if err := domain.ValidateForOutput(q); err != nil {
		t.Errorf("built quest failed validation: %v", err)
	}
}

func TestQuestBuilder_TargetIDsAreContiguous(t *testing.T) {
	b := newBuilder(t, "Q1")
	b.AddPlayerReference()
	res, err := b.AddObjectiveWithTargets(0, "Obj", 5, "")
	if err != nil {
		t.Fatal(err)
	}

	want := []domain.FormID{0x802, 0x803, 0x804, 0x805, 0x806}
	if diff := cmp.Diff(want, res.AliasIDs); diff != "" {
		t.Errorf("alias ids mismatch (-want +got):\n%s", diff)
	}
	if b.Quest().Aliases[1].Name != "Obj_Target1" {
		t.Errorf("default prefix not derived from objective name: %q", b.Quest().Aliases[1].Name)
	}
}

func TestQuestBuilder_AliasCountNeedsExplicitUpdate(t *testing.T) {
	b := newBuilder(t, "Q1")
	b.AddObjectiveWithTargets(1, "First", 2, "A")
	b.UpdateAliasCount()

	if err := domain.ValidateForOutput(b.Quest()); err != nil {
		t.Fatalf("unexpected error after update: %v", err)
	}

	b.AddObjectiveWithTargets(1, "First", 1, "A")
	if n, _ := b.Quest().DeclaredAliasCount(); n != 2 {
		t.Errorf("declared count changed without UpdateAliasCount: %d", n)
	}
	if err := domain.ValidateForOutput(b.Quest()); !errors.Is(err, domain.ErrStructural) {
		t.Errorf("stale count should fail output validation, got %v", err)
	}

	b.UpdateAliasCount()
	if err := domain.ValidateForOutput(b.Quest()); err != nil {
		t.Errorf("unexpected error after second update: %v", err)
	}
	if got := b.Quest().Aliases[2].Name; got != "A_Target3" {
		t.Errorf("appended alias name = %q, want numbering to continue", got)
	}
}

func TestQuestBuilder_PlayerReferenceIsIdempotent(t *testing.T) {
	b := newBuilder(t, "Q1")
	first, err := b.AddPlayerReference()
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.AddPlayerReference()
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("ids differ: %s vs %s", first.Hex(), second.Hex())
	}
	if len(b.Quest().Aliases) != 1 || len(b.Quest().Node().FindAll(domain.TagALST)) != 1 {
		t.Error("second call appended another alias")
	}
	sum := b.FormIDSummary()
	if !sum.HasPlayerRef || sum.PlayerRefID != first || sum.TotalUsed != 2 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestQuestBuilder_ReopeningEarlierObjectiveFails(t *testing.T) {
	b := newBuilder(t, "Q1")
	b.AddObjectiveWithTargets(1, "One", 1, "")
	b.AddObjectiveWithTargets(2, "Two", 1, "")
	used := b.Allocator().UsedCount()

	_, err := b.AddObjectiveWithTargets(1, "One", 1, "")
	if !errors.Is(err, domain.ErrStructural) {
		t.Fatalf("error = %v, want ErrStructural", err)
	}
	if b.Allocator().UsedCount() != used {
		t.Error("failed call minted ids")
	}
}

func TestQuestBuilder_Exhaustion(t *testing.T) {
	alloc, _ := domain.NewAllocator(0x800, 0x803)
	b, err := NewQuestBuilder(domain.NewPlugin(), alloc, "Q1", "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = b.AddObjectiveWithTargets(0, "Obj", 4, "")
	var ex *domain.ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected *ExhaustedError, got %v", err)
	}
	if ex.Requested != 4 || ex.Available != 3 {
		t.Errorf("ExhaustedError = %+v", ex)
	}
	if len(b.Quest().Objectives) != 0 || b.Quest().Node().Find(domain.TagQOBJ) != nil {
		t.Error("failed call left an objective behind")
	}
}

func TestNewQuestBuilder(t *testing.T) {
	t.Run("explicit form id", func(t *testing.T) {
		b, err := NewQuestBuilder(domain.NewPlugin(), domain.NewESLAllocator(), "Q1", "0x900")
		if err != nil {
			t.Fatal(err)
		}
		if b.FormIDSummary().QuestID != 0x900 {
			t.Errorf("QuestID = %s", b.FormIDSummary().QuestID.Hex())
		}
	})

	t.Run("duplicate editor id", func(t *testing.T) {
		p := domain.NewPlugin()
		alloc := domain.NewESLAllocator()
		if _, err := NewQuestBuilder(p, alloc, "Q1", ""); err != nil {
			t.Fatal(err)
		}
		_, err := NewQuestBuilder(p, alloc, "Q1", "")
		var ce *domain.ConflictError
		if !errors.As(err, &ce) || ce.Kind != "editor id" {
			t.Errorf("error = %v, want editor id conflict", err)
		}
	})

	t.Run("form id out of range", func(t *testing.T) {
		_, err := NewQuestBuilder(domain.NewPlugin(), domain.NewESLAllocator(), "Q1", "0x1000")
		if !errors.Is(err, domain.ErrOutOfRange) {
			t.Errorf("error = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("missing editor id", func(t *testing.T) {
		_, err := NewQuestBuilder(domain.NewPlugin(), domain.NewESLAllocator(), " ", "")
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})
}

func TestQuestBuilder_OutputSurvivesRoundTrip(t *testing.T) {
	p := domain.NewPlugin()
	alloc := domain.NewESLAllocator()
	for i := 1; i <= 2; i++ {
		b, err := NewQuestBuilder(p, alloc, fmt.Sprintf("Q%d", i), "")
		if err != nil {
			t.Fatal(err)
		}
		b.AddPlayerReference()
		b.AddObjectiveWithTargets(0, "Obj", 2, "")
		b.AddObjectiveWithTargets(1, "Next", 3, "")
		b.UpdateAliasCount()
	}
	if err := p.SyncHeader(alloc); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := codec.EncodePlugin(&buf, p, codec.Options{Indent: true}); err != nil {
		t.Fatal(err)
	}
	parsed, err := codec.Decode(&buf, "built.esx")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	for _, q := range p.Quests() {
		got := parsed.Quest(q.EditorID())
		if got == nil {
			t.Fatalf("quest %s missing after round trip", q.EditorID())
		}
		if diff := cmp.Diff(q.Aliases, got.Aliases); diff != "" {
			t.Errorf("%s aliases changed (-built +parsed):\n%s", q.EditorID(), diff)
		}
		if diff := cmp.Diff(q.Objectives, got.Objectives); diff != "" {
			t.Errorf("%s objectives changed (-built +parsed):\n%s", q.EditorID(), diff)
		}
	}

	if err := domain.CheckHeader(parsed, alloc); err != nil {
		t.Errorf("header out of sync: %v", err)
	}
}

func TestSeedAllocator(t *testing.T) {
	p := domain.NewPlugin()
	q := p.GetOrCreateQuest("Q1", 0x800)
	q.Aliases = []*domain.Alias{{ID: 0x801, Name: "A"}, {ID: 0x2000, Name: "Far"}}
	p.GetOrCreateGroup("NPC_", "0").AddRecord(domain.NewRecord("NPC_", 0x800))

	alloc := domain.NewESLAllocator()
	skipped := SeedAllocator(alloc, p)

	if diff := cmp.Diff([]domain.FormID{0x2000}, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	if alloc.UsedCount() != 2 {
		t.Errorf("UsedCount = %d, want 2", alloc.UsedCount())
	}
	next, _ := alloc.Next()
	if next != 0x802 {
		t.Errorf("Next = %s, want 0x00000802", next.Hex())
	}
}
