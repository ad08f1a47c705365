package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/domain"
)

// ViewState holds the size and status line shared by every view.
// Embed it in view models.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err on the status line
func (s *ViewState) SetError(err error) {
	s.SetMessage(err.Error(), true)
}

// ClearMessage clears the status line
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type (
	SwitchToBrowserMsg struct{}
	SwitchToHelpMsg    struct{}

	// SwitchToSearchMsg opens the search over one plugin's outline
	SwitchToSearchMsg struct {
		Plugin string
		Root   *domain.OutlineNode
	}

	// SwitchToActionMsg opens the form of a quest action
	SwitchToActionMsg struct {
		Action   Action
		Plugin   string
		EditorID string
	}

	// OpenEditorMsg asks the app to open a file, positioned on Line when it is positive
	OpenEditorMsg struct {
		Path string
		Line int
	}

	// ActionDoneMsg reports a completed write; the browser reloads
	ActionDoneMsg struct {
		Message string
	}
)

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
