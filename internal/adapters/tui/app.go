package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/editor"
	"esxforge/internal/adapters/tui/views"
	"esxforge/internal/logger"
	"esxforge/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewSearch
	ViewAction
	ViewHelp
)

// App is the main TUI application model
type App struct {
	repo   ports.PluginDirectory
	editor *editor.Opener

	state   ViewState
	browser *views.BrowserModel
	search  *views.SearchModel
	action  *views.ActionModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. A nil editor disables opening plugins.
func NewApp(repo ports.PluginDirectory, ed *editor.Opener) *App {
	return &App{
		repo:    repo,
		editor:  ed,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(repo),
		search:  views.NewSearchModel(),
		action:  views.NewActionModel(repo),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.action.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Open(msg.Plugin, msg.Root)
		return a, a.search.Init()

	case views.SwitchToActionMsg:
		a.state = ViewAction
		a.action.Open(msg.Action, msg.Plugin, msg.EditorID)
		return a, a.action.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		a.browser.Reveal(msg.Node)
		return a, nil

	case views.ActionDoneMsg:
		logger.Info("plugin updated", "message", msg.Message)
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, a.browser.Reload()

	case views.OpenEditorMsg:
		a.state = ViewBrowser
		return a, a.openEditor(msg.Path, msg.Line)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
		}
		return a, a.browser.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewAction:
		_, cmd = a.action.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string, line int) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.CommandAt(path, line)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSearch:
		return a.search.View()
	case ViewAction:
		return a.action.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
