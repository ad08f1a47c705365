package editor

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"esxforge/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	lookPath func(string) (string, error)
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{lookPath: exec.LookPath}
}

// OpenFile opens a plugin in the user's preferred editor
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor,
// for use with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	return o.CommandAt(path, 0)
}

// CommandAt is Command positioned on line. Line 0 opens the file at the top.
// Editors without a known line syntax ignore the line.
func (o *Opener) CommandAt(path string, line int) (*exec.Cmd, error) {
	args := o.editorArgs()
	if len(args) == 0 {
		return nil, fmt.Errorf("no editor found: set $ESXFORGE_EDITOR or $EDITOR")
	}

	name := filepath.Base(args[0])
	switch {
	case line <= 0:
		args = append(args, path)
	case name == "code" || name == "codium":
		args = append(args, "--goto", fmt.Sprintf("%s:%d", path, line))
	case isLineFlagEditor(name):
		args = append(args, fmt.Sprintf("+%d", line), path)
	default:
		args = append(args, path)
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

func isLineFlagEditor(name string) bool {
	switch name {
	case "nvim", "vim", "vi", "nano", "emacs", "micro", "hx", "kak":
		return true
	}
	return false
}

// editorArgs returns the editor command split into words
func (o *Opener) editorArgs() []string {
	for _, env := range []string{"ESXFORGE_EDITOR", "EDITOR", "VISUAL"} {
		if v := strings.Fields(os.Getenv(env)); len(v) > 0 {
			return v
		}
	}

	// Try common editors
	for _, editor := range []string{"nvim", "vim", "vi", "nano", "code"} {
		if path, err := o.lookPath(editor); err == nil {
			return []string{path}
		}
	}
	return nil
}

// LineOf returns the 1-based line of the first occurrence of needle in the file, or 0
func LineOf(path, needle string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		if strings.Contains(scanner.Text(), needle) {
			return n, nil
		}
	}
	return 0, scanner.Err()
}
