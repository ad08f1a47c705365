package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/application/commands"
	"esxforge/internal/ports"
)

// Action is a quest operation started from the browser
type Action int

const (
	ActionClone Action = iota
	ActionRetarget
)

func (a Action) String() string {
	switch a {
	case ActionClone:
		return "Clone Quest"
	case ActionRetarget:
		return "Retarget Objective"
	default:
		return "Unknown"
	}
}

type actionErrMsg struct {
	err error
}

// ActionModel is the form for cloning or retargeting a quest
type ActionModel struct {
	ViewState
	store    ports.PluginStore
	action   Action
	plugin   string
	editorID string
	form     *InputForm
	running  bool
}

// NewActionModel creates a new action model
func NewActionModel(store ports.PluginStore) *ActionModel {
	return &ActionModel{store: store, form: NewInputForm()}
}

// Open resets the form for action on the quest editorID of plugin
func (m *ActionModel) Open(action Action, plugin, editorID string) {
	m.action = action
	m.plugin = plugin
	m.editorID = editorID
	m.running = false
	m.ClearMessage()

	switch action {
	case ActionClone:
		m.form = NewInputForm(
			NewInputField("New editor ID", "MyQuest_Copy", editorID+"_Copy", 128),
			NewInputField("Form ID (blank allocates)", "00000900", "", 8),
		)
	case ActionRetarget:
		m.form = NewInputForm(
			NewInputField("Alias prefix", "ObjectiveOne_", "", 128),
			NewInputField("Objective name", "Objective One", "Objective One", 128),
		)
	}
}

// Init initializes the action view
func (m *ActionModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the action view
func (m *ActionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case actionErrMsg:
		m.running = false
		m.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, send(SwitchToBrowserMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	return m, m.form.Update(msg)
}

func (m *ActionModel) submit() tea.Cmd {
	var run func(ctx context.Context) (string, error)

	switch m.action {
	case ActionClone:
		cmd := commands.NewCloneQuestCommand(m.store, m.plugin, m.editorID, m.form.Value(0))
		cmd.FormID = m.form.Value(1)
		if err := cmd.Validate(); err != nil {
			m.SetError(err)
			return nil
		}
		run = func(ctx context.Context) (string, error) {
			result, err := cmd.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		}

	case ActionRetarget:
		cmd := commands.NewRetargetCommand(m.store, m.plugin, m.editorID, m.form.Value(0))
		if name := m.form.Value(1); name != "" {
			cmd.ObjectiveName = name
		}
		if err := cmd.Validate(); err != nil {
			m.SetError(err)
			return nil
		}
		run = func(ctx context.Context) (string, error) {
			result, err := cmd.Execute(ctx)
			if err != nil {
				return "", err
			}
			return result.Message, nil
		}

	default:
		return nil
	}

	m.running = true
	return func() tea.Msg {
		message, err := run(context.Background())
		if err != nil {
			return actionErrMsg{err}
		}
		return ActionDoneMsg{Message: message}
	}
}

// View renders the action form
func (m *ActionModel) View() string {
	vb := NewViewBuilder().
		Title(m.action.String()).
		Subtitle(fmt.Sprintf("%s in %s", m.editorID, m.plugin)).
		Line(m.form.View()).
		Message(m.Message, m.MessageErr)

	if m.running {
		vb.Muted("Working...")
	} else {
		vb.Line(m.form.RenderHelp("run"))
	}
	return vb.String()
}
