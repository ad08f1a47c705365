package editor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func noEditors(string) (string, error) { return "", errors.New("not found") }

func TestCommandAt(t *testing.T) {
	tests := []struct {
		name   string
		editor string
		line   int
		want   []string
	}{
		{"no line", "vim", 0, []string{"vim", "quests.esx"}},
		{"vim line", "vim", 12, []string{"vim", "+12", "quests.esx"}},
		{"editor with flags", "/usr/bin/nvim -R", 3, []string{"/usr/bin/nvim", "-R", "+3", "quests.esx"}},
		{"vscode", "code --wait", 7, []string{"code", "--wait", "--goto", "quests.esx:7"}},
		{"unknown editor", "ed", 5, []string{"ed", "quests.esx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ESXFORGE_EDITOR", tt.editor)
			o := &Opener{lookPath: noEditors}

			cmd, err := o.CommandAt("quests.esx", tt.line)
			if err != nil {
				t.Fatalf("CommandAt failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, cmd.Args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommand_NoEditor(t *testing.T) {
	t.Setenv("ESXFORGE_EDITOR", "")
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	o := &Opener{lookPath: noEditors}
	if _, err := o.Command("quests.esx"); err == nil {
		t.Error("expected error when no editor is available")
	}
}

func TestCommand_FallsBackToEditorEnv(t *testing.T) {
	t.Setenv("ESXFORGE_EDITOR", "")
	t.Setenv("EDITOR", "nano")

	o := &Opener{lookPath: noEditors}
	cmd, err := o.Command("quests.esx")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Args[0] != "nano" {
		t.Errorf("editor = %s, want nano", cmd.Args[0])
	}
}

func TestLineOf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quests.esx")
	content := "<Plugin>\n  <GRUP label=\"QUST\">\n    <QUST id=\"00000800\">\n      <EDID>MainQuest</EDID>\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		needle string
		want   int
	}{
		{"<EDID>MainQuest</EDID>", 4},
		{`id="00000800"`, 3},
		{"Missing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.needle, func(t *testing.T) {
			got, err := LineOf(path, tt.needle)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("LineOf = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := LineOf(filepath.Join(t.TempDir(), "missing.esx"), "x"); err == nil {
		t.Error("expected error for missing file")
	}
}
