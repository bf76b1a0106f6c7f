package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shrey150/openclaw-browserbase/internal/browserbase"
)

// SetupAction represents the outcome of the setup form.
type SetupAction int

const (
	// SetupActionNone means the user cancelled or skipped.
	SetupActionNone SetupAction = iota
	// SetupActionSave means the user submitted values.
	SetupActionSave
)

// SetupResult contains the values entered in the setup form. A blank
// field means "keep the current value".
type SetupResult struct {
	Action    SetupAction
	APIKey    string
	ProjectID string
	BaseURL   string
}

const (
	fieldAPIKey = iota
	fieldProjectID
	fieldBaseURL
	fieldCount
)

// setupKeyMap defines the key bindings for the setup form.
type setupKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func defaultSetupKeyMap() setupKeyMap {
	return setupKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next/submit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// SetupFormModel is the BubbleTea model for credential entry.
type SetupFormModel struct {
	inputs   []textinput.Model
	focus    int
	keys     setupKeyMap
	result   SetupResult
	width    int
	height   int
	quitting bool
}

// Styles for the setup form TUI.
var setupFormStyles = struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Hint  lipgloss.Style
	Help  lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Label: lipgloss.NewStyle().Bold(true).Padding(0, 1),
	Hint:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Help:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// NewSetupFormModel creates a setup form seeded with the current
// configuration. Existing secrets appear masked in placeholders and are
// kept when their field is left blank.
func NewSetupFormModel(current browserbase.Config) SetupFormModel {
	apiKey := textinput.New()
	apiKey.Placeholder = "bb_live_..."
	if current.APIKey != "" {
		apiKey.Placeholder = browserbase.MaskSecret(current.APIKey) + " (keep)"
	}
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'
	apiKey.CharLimit = 256
	apiKey.Width = 48

	projectID := textinput.New()
	projectID.Placeholder = "project id"
	if current.ProjectID != "" {
		projectID.Placeholder = current.ProjectID + " (keep)"
	}
	projectID.CharLimit = 256
	projectID.Width = 48

	baseURL := textinput.New()
	baseURL.Placeholder = browserbase.DefaultBaseURL
	if current.BaseURL != "" && current.BaseURL != browserbase.DefaultBaseURL {
		baseURL.Placeholder = current.BaseURL + " (keep)"
	}
	baseURL.CharLimit = 256
	baseURL.Width = 48

	m := SetupFormModel{
		inputs: []textinput.Model{apiKey, projectID, baseURL},
		keys:   defaultSetupKeyMap(),
	}
	m.inputs[fieldAPIKey].Focus()
	return m
}

// Init implements tea.Model.
func (m SetupFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			if m.focus < fieldCount-1 {
				return m.setFocus(m.focus + 1)
			}
			return m.submit()

		case key.Matches(msg, m.keys.Next):
			return m.setFocus((m.focus + 1) % fieldCount)

		case key.Matches(msg, m.keys.Prev):
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		}
	}

	return m.updateFocused(msg)
}

func (m SetupFormModel) setFocus(i int) (tea.Model, tea.Cmd) {
	m.focus = i
	cmds := make([]tea.Cmd, len(m.inputs))
	for j := range m.inputs {
		if j == i {
			cmds[j] = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m SetupFormModel) submit() (tea.Model, tea.Cmd) {
	apiKey := strings.TrimSpace(m.inputs[fieldAPIKey].Value())
	projectID := strings.TrimSpace(m.inputs[fieldProjectID].Value())
	baseURL := strings.TrimSpace(m.inputs[fieldBaseURL].Value())

	m.quitting = true
	if apiKey == "" && projectID == "" && baseURL == "" {
		// Nothing entered; the user is keeping what they have.
		return m, tea.Quit
	}

	m.result = SetupResult{
		Action:    SetupActionSave,
		APIKey:    apiKey,
		ProjectID: projectID,
		BaseURL:   baseURL,
	}
	return m, tea.Quit
}

func (m SetupFormModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m SetupFormModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(setupFormStyles.Title.Render("🔑 Browserbase Setup"))
	b.WriteString("\n\n")

	labels := []string{"API key", "Project ID", "Base URL"}
	for i, input := range m.inputs {
		b.WriteString(setupFormStyles.Label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString("  " + input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(setupFormStyles.Hint.Render("Leave a field blank to keep its current value"))
	b.WriteString("\n")
	b.WriteString(setupFormStyles.Help.Render("tab next • enter submit • esc cancel"))

	return b.String()
}

// Result returns the values entered by the user.
func (m SetupFormModel) Result() SetupResult {
	return m.result
}

// RunSetupForm runs the interactive credential form and returns the
// entered values.
func RunSetupForm(current browserbase.Config) (SetupResult, error) {
	finalModel, err := Run(NewSetupFormModel(current))
	if err != nil {
		return SetupResult{}, err
	}

	if m, ok := finalModel.(SetupFormModel); ok {
		return m.Result(), nil
	}

	return SetupResult{}, nil
}
