package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/editor"
	"esxforge/internal/adapters/tui/styles"
	"esxforge/internal/application"
	"esxforge/internal/application/commands"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Copy     key.Binding
	Edit     key.Binding
	Validate key.Binding
	Clone    key.Binding
	Retarget key.Binding
	Reload   key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "page down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Validate: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "validate"),
	),
	Clone: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clone quest"),
	),
	Retarget: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "retarget"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserModel shows the plugins of a directory; each plugin expands into its outline
type BrowserModel struct {
	ViewState
	repo      ports.PluginDirectory
	root      *domain.OutlineNode
	flatNodes []*domain.OutlineNode
	cursor    int
	window    Window
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(repo ports.PluginDirectory) *BrowserModel {
	return &BrowserModel{repo: repo}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree(nil)
}

type treeLoadedMsg struct {
	root *domain.OutlineNode
}

type pluginLoadedMsg struct {
	node    *domain.OutlineNode
	outline *domain.OutlineNode
}

type errMsg struct {
	err error
}

type validatedMsg struct {
	message string
	valid   bool
}

// loadTree lists the plugins. Plugins named in expanded are loaded again
// so a reload keeps them open.
func (m *BrowserModel) loadTree(expanded map[string]bool) tea.Cmd {
	return func() tea.Msg {
		paths, err := m.repo.ListPlugins()
		if err != nil {
			return errMsg{err}
		}

		root := &domain.OutlineNode{Kind: domain.OutlineGroup, Name: m.repo.Resolve(""), IsExpanded: true}
		for _, path := range paths {
			node := &domain.OutlineNode{Kind: domain.OutlinePlugin, Name: path, Parent: root}
			root.Children = append(root.Children, node)
			if !expanded[path] {
				continue
			}
			if p, err := m.repo.Load(context.Background(), path); err == nil {
				attachOutline(node, application.BuildOutline(p, path))
			}
		}
		return treeLoadedMsg{root}
	}
}

func (m *BrowserModel) loadPlugin(node *domain.OutlineNode) tea.Cmd {
	return func() tea.Msg {
		p, err := m.repo.Load(context.Background(), node.Name)
		if err != nil {
			return errMsg{err}
		}
		return pluginLoadedMsg{node: node, outline: application.BuildOutline(p, node.Name)}
	}
}

// attachOutline grafts a plugin outline under its directory entry
func attachOutline(node, outline *domain.OutlineNode) {
	node.Children = outline.Children
	for _, child := range node.Children {
		child.Parent = node
	}
	node.Detail = outline.Detail
	node.IsExpanded = true
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.root = msg.root
		m.refreshFlatNodes()
		return m, nil

	case pluginLoadedMsg:
		attachOutline(msg.node, msg.outline)
		m.refreshFlatNodes()
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case validatedMsg:
		m.SetMessage(msg.message, !msg.valid)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	node := m.selectedNode()

	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, BrowserKeys.Down):
		if m.cursor < len(m.flatNodes)-1 {
			m.cursor++
		}

	case key.Matches(msg, BrowserKeys.PageUp):
		m.cursor = max(m.cursor-m.pageSize(), 0)

	case key.Matches(msg, BrowserKeys.PageDown):
		m.cursor = max(min(m.cursor+m.pageSize(), len(m.flatNodes)-1), 0)

	case key.Matches(msg, BrowserKeys.Left):
		if node == nil {
			return nil
		}
		if node.IsExpanded {
			node.Collapse()
			m.refreshFlatNodes()
		} else if node.Parent != nil && node.Parent != m.root {
			m.selectNode(node.Parent)
		}

	case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
		if node == nil {
			return nil
		}
		if node.Kind == domain.OutlinePlugin && !node.HasChildren() {
			return m.loadPlugin(node)
		}
		if !node.HasChildren() {
			return nil
		}
		if !node.IsExpanded {
			node.Expand()
		} else if key.Matches(msg, BrowserKeys.Enter) {
			node.Collapse()
		}
		m.refreshFlatNodes()

	case key.Matches(msg, BrowserKeys.Copy):
		if node == nil || node.ID == "" {
			return nil
		}
		if err := copyToClipboard(node.ID); err != nil {
			m.SetError(fmt.Errorf("copy failed: %w", err))
			return nil
		}
		m.SetMessage("Copied "+node.ID, false)

	case key.Matches(msg, BrowserKeys.Edit):
		if node == nil {
			return nil
		}
		return m.openEditor(node)

	case key.Matches(msg, BrowserKeys.Validate):
		if plugin := pluginOf(node); plugin != nil {
			return m.validate(plugin.Name)
		}

	case key.Matches(msg, BrowserKeys.Clone), key.Matches(msg, BrowserKeys.Retarget):
		quest := questOf(node)
		if quest == nil {
			m.SetMessage("Select a quest first", true)
			return nil
		}
		action := ActionClone
		if key.Matches(msg, BrowserKeys.Retarget) {
			action = ActionRetarget
		}
		return send(SwitchToActionMsg{Action: action, Plugin: pluginOf(quest).Name, EditorID: quest.Name})

	case key.Matches(msg, BrowserKeys.Search):
		plugin := pluginOf(node)
		if plugin == nil || !plugin.HasChildren() {
			m.SetMessage("Expand a plugin to search it", true)
			return nil
		}
		return send(SwitchToSearchMsg{Plugin: plugin.Name, Root: plugin})

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Help):
		return send(SwitchToHelpMsg{})
	}

	return nil
}

func (m *BrowserModel) validate(plugin string) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewValidateCommand(m.repo, plugin).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		message := result.Message
		if !result.Valid() {
			message += ": " + result.Problems[0].String()
		}
		return validatedMsg{message: message, valid: result.Valid()}
	}
}

// openEditor opens the plugin positioned on the enclosing record
func (m *BrowserModel) openEditor(node *domain.OutlineNode) tea.Cmd {
	plugin := pluginOf(node)
	if plugin == nil {
		return nil
	}
	path := m.repo.Resolve(plugin.Name)

	return func() tea.Msg {
		line := 0
		if rec := recordOf(node); rec != nil && rec.ID != "" {
			line, _ = editor.LineOf(path, `id="`+rec.ID+`"`)
		}
		return OpenEditorMsg{Path: path, Line: line}
	}
}

// pluginOf returns the plugin entry a node belongs to
func pluginOf(n *domain.OutlineNode) *domain.OutlineNode {
	for ; n != nil; n = n.Parent {
		if n.Kind == domain.OutlinePlugin {
			return n
		}
	}
	return nil
}

// questOf returns the quest a node belongs to
func questOf(n *domain.OutlineNode) *domain.OutlineNode {
	for ; n != nil; n = n.Parent {
		if n.Kind == domain.OutlineQuest {
			return n
		}
	}
	return nil
}

// recordOf returns the group member a node belongs to
func recordOf(n *domain.OutlineNode) *domain.OutlineNode {
	for ; n != nil; n = n.Parent {
		switch n.Kind {
		case domain.OutlineQuest:
			return n
		case domain.OutlineRecord:
			if n.Parent != nil && n.Parent.Kind == domain.OutlineGroup {
				return n
			}
		}
	}
	return nil
}

// Reveal expands the ancestors of n and moves the cursor onto it
func (m *BrowserModel) Reveal(n *domain.OutlineNode) {
	for p := n.Parent; p != nil; p = p.Parent {
		p.Expand()
	}
	m.refreshFlatNodes()
	m.selectNode(n)
}

func (m *BrowserModel) selectNode(n *domain.OutlineNode) {
	for i, candidate := range m.flatNodes {
		if candidate == n {
			m.cursor = i
			return
		}
	}
}

func (m *BrowserModel) selectedNode() *domain.OutlineNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	// Clamp cursor
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *BrowserModel) pageSize() int {
	// title, subtitle, message and help lines
	return max(m.Height-9, 5)
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("esxforge"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d plugins in %s", len(m.root.Children), m.root.Name)))
	b.WriteString("\n\n")

	if len(m.flatNodes) == 0 {
		b.WriteString(styles.MutedText.Render("No .esx plugins found"))
		b.WriteString("\n")
	}
	start, end := m.window.Visible(m.cursor, len(m.flatNodes), m.pageSize())
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.flatNodes[i], i == m.cursor))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Right, BrowserKeys.Copy, BrowserKeys.Edit, BrowserKeys.Validate,
		BrowserKeys.Clone, BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(node *domain.OutlineNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth()-1)

	prefix := styles.TreeLeaf
	switch {
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	case node.HasChildren() || node.Kind == domain.OutlinePlugin:
		prefix = styles.TreeCollapsed
	}

	return indent + styles.TreeBranch.Render(prefix) + RenderNode(node, selected)
}

// Reload lists the plugins again, keeping loaded plugins open
func (m *BrowserModel) Reload() tea.Cmd {
	expanded := make(map[string]bool)
	if m.root != nil {
		for _, n := range m.root.Children {
			if n.HasChildren() && n.IsExpanded {
				expanded[n.Name] = true
			}
		}
	}
	m.window.Reset()
	return m.loadTree(expanded)
}
