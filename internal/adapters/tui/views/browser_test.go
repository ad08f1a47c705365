package views

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/filesystem"
	"esxforge/internal/application"
	"esxforge/internal/codec"
	"esxforge/internal/domain"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// writeQuestPlugin saves MainQuest 00000800 with a player reference (801)
// and objective 1 targeting Obj1_Target1 (802) and Obj1_Target2 (803)
func writeQuestPlugin(t *testing.T) *filesystem.Repository {
	t.Helper()

	p := domain.NewPlugin()
	alloc := domain.NewESLAllocator()
	b, err := application.NewQuestBuilder(p, alloc, "MainQuest", "")
	if err != nil {
		t.Fatal(err)
	}
	b.SetName("Main Quest").SetQuestData(domain.DefaultQuestData(0))
	if _, err := b.AddPlayerReference(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddObjectiveWithTargets(1, "Find", 2, "Obj1"); err != nil {
		t.Fatal(err)
	}
	b.UpdateAliasCount()
	if err := p.SyncHeader(alloc); err != nil {
		t.Fatal(err)
	}

	repo := filesystem.NewRepository(t.TempDir())
	if err := repo.Save(context.Background(), "quests.esx", p, codec.Options{Indent: true}); err != nil {
		t.Fatal(err)
	}
	return repo
}

// press sends a key and runs the returned command once, feeding its message back
func press(m *BrowserModel, k string) tea.Msg {
	_, cmd := m.Update(keyPress(k))
	if cmd == nil {
		return nil
	}
	msg := cmd()
	m.Update(msg)
	return msg
}

func loadedBrowser(t *testing.T) (*BrowserModel, *filesystem.Repository) {
	t.Helper()
	repo := writeQuestPlugin(t)
	m := NewBrowserModel(repo)
	m.SetSize(100, 40)
	m.Update(m.Init()())
	return m, repo
}

func TestBrowser_ListsPlugins(t *testing.T) {
	m, _ := loadedBrowser(t)

	if len(m.flatNodes) != 1 {
		t.Fatalf("flatNodes = %d, want 1", len(m.flatNodes))
	}
	node := m.selectedNode()
	if node.Kind != domain.OutlinePlugin || node.Name != "quests.esx" {
		t.Errorf("selected = %+v", node)
	}
	if !strings.Contains(m.View(), "quests.esx") {
		t.Error("view should list the plugin")
	}
}

func TestBrowser_ExpandLoadsOutline(t *testing.T) {
	m, _ := loadedBrowser(t)

	if _, ok := press(m, "l").(pluginLoadedMsg); !ok {
		t.Fatal("expanding a plugin should load it")
	}

	// plugin, header, QUST group
	if len(m.flatNodes) != 3 {
		t.Fatalf("flatNodes = %d, want 3", len(m.flatNodes))
	}
	group := m.flatNodes[2]
	if group.Kind != domain.OutlineGroup || group.Parent != m.flatNodes[0] {
		t.Errorf("group = %+v", group)
	}

	press(m, "j")
	press(m, "j")
	press(m, "l")
	press(m, "j")
	quest := m.selectedNode()
	if quest.Kind != domain.OutlineQuest || quest.ID != "00000800" || quest.Name != "MainQuest" {
		t.Fatalf("selected = %+v", quest)
	}

	press(m, "h")
	if m.selectedNode() != group {
		t.Error("h on a collapsed node should move to its parent")
	}
	press(m, "h")
	if group.IsExpanded {
		t.Error("h on an expanded node should collapse it")
	}
}

func TestBrowser_CopyFormID(t *testing.T) {
	var copied []string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	m, _ := loadedBrowser(t)

	press(m, "y")
	if len(copied) != 0 {
		t.Errorf("plugin entries have no id, copied %v", copied)
	}

	press(m, "l")
	m.Reveal(m.root.Children[0].Children[1].Children[0])
	press(m, "y")

	if len(copied) != 1 || copied[0] != "00000800" {
		t.Errorf("copied = %v", copied)
	}
	if m.Message != "Copied 00000800" || m.MessageErr {
		t.Errorf("message = %q", m.Message)
	}
}

func TestBrowser_QuestActions(t *testing.T) {
	m, repo := loadedBrowser(t)

	if msg := press(m, "c"); msg != nil {
		t.Errorf("clone outside a quest should not switch views, got %T", msg)
	}
	if !m.MessageErr {
		t.Error("expected an error message")
	}

	press(m, "l")
	quest := m.root.Children[0].Children[1].Children[0]
	target := quest.Children[0].Children[1]
	m.Reveal(target)
	if m.selectedNode() != target {
		t.Fatalf("Reveal did not select %+v", target)
	}

	_, cmd := m.Update(keyPress("t"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	want := SwitchToActionMsg{Action: ActionRetarget, Plugin: "quests.esx", EditorID: "MainQuest"}
	if got := cmd(); got != want {
		t.Errorf("retarget msg = %+v, want %+v", got, want)
	}

	_, cmd = m.Update(keyPress("e"))
	open, ok := cmd().(OpenEditorMsg)
	if !ok {
		t.Fatal("expected OpenEditorMsg")
	}
	if open.Path != repo.Resolve("quests.esx") || open.Line < 2 {
		t.Errorf("open = %+v", open)
	}

	msg := press(m, "v")
	v, ok := msg.(validatedMsg)
	if !ok || !v.valid || !strings.Contains(v.message, "is valid") {
		t.Errorf("validate = %+v", msg)
	}
}

func TestBrowser_SearchNeedsLoadedPlugin(t *testing.T) {
	m, _ := loadedBrowser(t)

	if _, cmd := m.Update(keyPress("/")); cmd != nil {
		t.Error("search on an unloaded plugin should not switch views")
	}

	press(m, "l")
	_, cmd := m.Update(keyPress("/"))
	msg, ok := cmd().(SwitchToSearchMsg)
	if !ok || msg.Plugin != "quests.esx" || msg.Root != m.root.Children[0] {
		t.Errorf("search msg = %+v", msg)
	}
}

func TestBrowser_ReloadKeepsLoadedPlugins(t *testing.T) {
	m, _ := loadedBrowser(t)
	press(m, "l")

	m.Update(m.Reload()())

	plugin := m.root.Children[0]
	if !plugin.HasChildren() || !plugin.IsExpanded {
		t.Error("reload should load the expanded plugin again")
	}
	if len(m.flatNodes) != 3 {
		t.Errorf("flatNodes = %d, want 3", len(m.flatNodes))
	}
}

func TestActionModel_Clone(t *testing.T) {
	repo := writeQuestPlugin(t)
	m := NewActionModel(repo)
	m.Open(ActionClone, "quests.esx", "MainQuest")

	if got := m.form.Value(0); got != "MainQuest_Copy" {
		t.Errorf("default editor id = %q", got)
	}

	_, cmd := m.Update(keyPress("enter"))
	done, ok := cmd().(ActionDoneMsg)
	if !ok {
		t.Fatal("expected ActionDoneMsg")
	}
	if !strings.Contains(done.Message, "MainQuest_Copy") {
		t.Errorf("message = %q", done.Message)
	}

	p, err := repo.Load(context.Background(), "quests.esx")
	if err != nil {
		t.Fatal(err)
	}
	if p.Quest("MainQuest_Copy") == nil {
		t.Error("clone was not saved")
	}
}

func TestActionModel_InvalidInput(t *testing.T) {
	repo := writeQuestPlugin(t)
	m := NewActionModel(repo)
	m.Open(ActionRetarget, "quests.esx", "MainQuest")

	if _, cmd := m.Update(keyPress("enter")); cmd != nil {
		t.Error("an empty prefix should not run the command")
	}
	if !m.MessageErr || !strings.Contains(m.Message, "is required") {
		t.Errorf("message = %q", m.Message)
	}

	_, cmd := m.Update(keyPress("esc"))
	if _, ok := cmd().(SwitchToBrowserMsg); !ok {
		t.Error("esc should return to the browser")
	}
}
