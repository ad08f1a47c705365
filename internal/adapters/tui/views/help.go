package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, send(SwitchToBrowserMsg{})
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("esxforge Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("ESX quest plugin browser"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("Ctrl+F / Ctrl+B", "Page down/up"))
	b.WriteString(helpLine("h / ←", "Collapse / go to parent"))
	b.WriteString(helpLine("l / → / Enter", "Expand (loads the plugin)"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(helpLine("y", "Copy form ID"))
	b.WriteString(helpLine("e", "Open plugin at the record"))
	b.WriteString(helpLine("v", "Validate plugin"))
	b.WriteString(helpLine("c", "Clone selected quest"))
	b.WriteString(helpLine("t", "Retarget quest objective"))
	b.WriteString(helpLine("/", "Search loaded plugin"))
	b.WriteString(helpLine("r", "Reload directory"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Outline"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  TES4 header, then each GRUP with its records"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Quest     : 00000800 EditorID  Full Name"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Objective : index, name and its alias targets"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Alias     : alias id, name and flags"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
