package styles

import (
	"github.com/charmbracelet/lipgloss"

	"esxforge/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#B45309") // Amber
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Outline kind colors
	GroupColor     = lipgloss.Color("#8B5CF6") // Violet
	QuestColor     = lipgloss.Color("#F97316") // Orange
	ObjectiveColor = lipgloss.Color("#60A5FA") // Blue
	AliasColor     = lipgloss.Color("#10B981") // Green
	PlayerColor    = lipgloss.Color("#EC4899") // Pink

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Outline node styles
	NodePlugin = lipgloss.NewStyle().
			Bold(true)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	NodeDetail = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// KindStyle returns the style of an outline entry
func KindStyle(n *domain.OutlineNode) lipgloss.Style {
	switch n.Kind {
	case domain.OutlinePlugin:
		return NodePlugin
	case domain.OutlineHeader:
		return lipgloss.NewStyle().Foreground(Muted)
	case domain.OutlineGroup:
		return lipgloss.NewStyle().Foreground(GroupColor).Bold(true)
	case domain.OutlineQuest:
		return lipgloss.NewStyle().Foreground(QuestColor).Bold(true)
	case domain.OutlineObjective:
		return lipgloss.NewStyle().Foreground(ObjectiveColor)
	case domain.OutlineAlias:
		if n.Name == domain.PlayerRefName {
			return lipgloss.NewStyle().Foreground(PlayerColor)
		}
		return lipgloss.NewStyle().Foreground(AliasColor)
	default:
		return lipgloss.NewStyle()
	}
}
