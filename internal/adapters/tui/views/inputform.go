package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"esxforge/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

// InputField is a labelled text input
type InputField struct {
	Label string
	Input textinput.Model
}

// NewInputField creates an input field with a placeholder and an optional initial value
func NewInputField(label, placeholder, value string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	input.SetValue(value)
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{Label: label, Input: input}
}

// InputForm manages several text inputs with one focused at a time
type InputForm struct {
	Fields  []InputField
	Focused int
	Keys    InputFormKeyMap
}

// NewInputForm creates a form focused on its first field
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{Fields: fields, Keys: DefaultInputFormKeys}
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update moves focus on tab and forwards everything else to the focused input
func (f *InputForm) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, f.Keys.Tab) {
		f.NextField()
		return nil
	}

	var cmd tea.Cmd
	if f.Focused >= 0 && f.Focused < len(f.Fields) {
		f.Fields[f.Focused].Input, cmd = f.Fields[f.Focused].Input.Update(msg)
	}
	return cmd
}

// NextField moves focus to the next field, wrapping around
func (f *InputForm) NextField() {
	if len(f.Fields) <= 1 {
		return
	}
	f.Fields[f.Focused].Input.Blur()
	f.Focused = (f.Focused + 1) % len(f.Fields)
	f.Fields[f.Focused].Input.Focus()
}

// Value returns the trimmed value of a field
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// View renders every field, the focused one highlighted
func (f *InputForm) View() string {
	var b strings.Builder
	for i, field := range f.Fields {
		b.WriteString(styles.InputLabel.Render(field.Label))
		b.WriteString("\n")
		if i == f.Focused {
			b.WriteString(styles.InputFocused.Render(field.Input.View()))
		} else {
			b.WriteString(styles.InputField.Render(field.Input.View()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string
	if len(f.Fields) > 1 {
		parts = append(parts, RenderKeyHelp(f.Keys.Tab))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, RenderKeyHelp(f.Keys.Cancel))
	return strings.Join(parts, "  ")
}
