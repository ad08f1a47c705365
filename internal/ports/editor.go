package ports

import "os/exec"

// EditorOpener opens plugin documents in the user's text editor
type EditorOpener interface {
	// OpenFile runs the editor on path and waits for it to exit
	OpenFile(path string) error

	// Command returns the editor process for path without starting it,
	// for handing the terminal over with tea.ExecProcess
	Command(path string) (*exec.Cmd, error)
}
