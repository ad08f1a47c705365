package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/tui/styles"
	"esxforge/internal/application/commands"
	"esxforge/internal/domain"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "jump"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const maxSearchResults = 10

// SearchSelectMsg is sent when a search result is chosen
type SearchSelectMsg struct {
	Node *domain.OutlineNode
}

// SearchModel fuzzy-searches the outline of one loaded plugin
type SearchModel struct {
	ViewState
	input   textinput.Model
	plugin  string
	nodes   []*domain.OutlineNode
	results []commands.SearchResult
	cursor  int
}

// NewSearchModel creates a new search view model
func NewSearchModel() *SearchModel {
	input := textinput.New()
	input.Placeholder = "editor id, alias name or form id..."
	input.Focus()

	return &SearchModel{input: input}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Open resets the search over the outline under root
func (m *SearchModel) Open(plugin string, root *domain.OutlineNode) {
	m.plugin = plugin
	m.nodes = commands.Descendants(root)
	m.input.SetValue("")
	m.input.Focus()
	m.results = nil
	m.cursor = 0
	m.ClearMessage()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, send(SwitchToBrowserMsg{})

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < min(len(m.results), maxSearchResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if m.cursor < 0 || m.cursor >= len(m.results) {
				return m, nil
			}
			node := m.results[m.cursor].Node
			if node.ID != "" {
				// Best effort: a headless session has no clipboard
				_ = copyToClipboard(node.ID)
			}
			return m, send(SearchSelectMsg{Node: node})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search(m.input.Value())
	return m, cmd
}

func (m *SearchModel) search(query string) {
	if len(query) < 2 {
		m.results = nil
		m.cursor = 0
		return
	}
	m.results = commands.FuzzySort(m.nodes, query)
	if m.cursor >= len(m.results) {
		m.cursor = max(len(m.results)-1, 0)
	}
}

// Results returns the current matches, best first
func (m *SearchModel) Results() []commands.SearchResult {
	return m.results
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search " + m.plugin))
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if len(m.input.Value()) >= 2 {
			b.WriteString(styles.MutedText.Render("No results found"))
		} else {
			b.WriteString(styles.MutedText.Render("Type at least 2 characters to search"))
		}
	} else {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.results))))
		b.WriteString("\n\n")

		shown := min(len(m.results), maxSearchResults)
		for i := 0; i < shown; i++ {
			node := m.results[i].Node
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-10s", "["+node.Kind.String()+"]")))
			b.WriteString(RenderNode(node, i == m.cursor))
			b.WriteString("\n")
		}

		if len(m.results) > maxSearchResults {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", len(m.results)-maxSearchResults)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(RenderHelpLine(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Cancel))

	return styles.App.Render(b.String())
}
