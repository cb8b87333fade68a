// ABOUTME: Interactive TUI wizard for streak preferences and remote sync.
// ABOUTME: Bubbletea model choosing the grace period, then optionally collecting sync credentials.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/daylock/internal/storage"
)

// Step represents the current wizard step.
type Step int

const (
	StepGrace Step = iota
	StepSyncChoice
	StepAPIURL
	StepTeamID
	StepAPIKey
	StepValidating
	StepDone
	StepFailed
)

// input indexes
const (
	inputURL = iota
	inputTeam
	inputKey
)

// SetupResult holds the values collected by the wizard.
type SetupResult struct {
	GracePeriod bool
	Sync        bool
	APIURL      string
	TeamID      string
	APIKey      string
}

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for connection validation.
type ValidateFn func(ctx context.Context, apiURL, apiKey, teamID string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// It must stay a pointer field: tea.Model methods have value receivers, and
// every copy of the model has to see the cancel func stored by startValidation.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	grace         bool
	sync          bool
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// NewSetupModel creates a new setup wizard model, pre-filled with existing values.
func NewSetupModel(existing SetupResult) SetupModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://journal.example.com"
	urlInput.Width = 50
	urlInput.SetValue(existing.APIURL)

	teamInput := textinput.New()
	teamInput.Placeholder = "your-team-id"
	teamInput.Width = 50
	teamInput.SetValue(existing.TeamID)

	keyInput := textinput.New()
	keyInput.Placeholder = "your-api-key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 50
	keyInput.SetValue(existing.APIKey)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepGrace,
		grace:      existing.GracePeriod,
		sync:       existing.Sync,
		inputs:     [3]textinput.Model{urlInput, teamInput, keyInput},
		spinner:    s,
		validateFn: ValidateConnection,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepGrace, StepSyncChoice:
			return m.updateChoice(msg)
		case StepAPIURL, StepTeamID, StepAPIKey:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// updateChoice handles the yes/no steps. y/n set the value, arrows and tab toggle, Enter confirms.
func (m SetupModel) updateChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	value := &m.grace
	if m.step == StepSyncChoice {
		value = &m.sync
	}

	switch msg.Type {
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		*value = !*value
		return m, nil
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return m, nil
		}
		switch msg.Runes[0] {
		case 'y', 'Y':
			*value = true
		case 'n', 'N':
			*value = false
		}
		return m, nil
	case tea.KeyEnter:
	default:
		return m, nil
	}

	if m.step == StepGrace {
		m.step = StepSyncChoice
		return m, nil
	}
	if !m.sync {
		m.step = StepDone
		return m, tea.Quit
	}
	m.step = StepAPIURL
	m.inputs[inputURL].Focus()
	return m, textinput.Blink
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := int(m.step - StepAPIURL)

	if msg.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.inputs[idx].Value())
		if m.step == StepAPIURL && value != "" {
			value = storage.NormalizeAPIURL(value)
		}
		m.inputs[idx].SetValue(value)

		// Every sync field is required.
		if value == "" {
			return m, nil
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepAPIURL:
			m.step = StepTeamID
			m.inputs[inputTeam].Focus()
			return m, textinput.Blink
		case StepTeamID:
			m.step = StepAPIKey
			m.inputs[inputKey].Focus()
			return m, textinput.Blink
		case StepAPIKey:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	apiURL := m.inputs[inputURL].Value()
	apiKey := m.inputs[inputKey].Value()
	teamID := m.inputs[inputTeam].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, apiURL, apiKey, teamID)}
	}
}

func renderChoice(value bool) string {
	if value {
		return selectedStyle.Render("[ yes ]") + "  no  "
	}
	return "  yes  " + selectedStyle.Render("[ no ]")
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   DAYLOCK"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")

	switch m.step {
	case StepGrace:
		b.WriteString(stepStyle.Render("Step 1: Grace period"))
		b.WriteString("\n")
		b.WriteString("Allow one missed day per streak without breaking it?\n\n")
		b.WriteString(renderChoice(m.grace))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("(y/n or arrows to choose, Enter to continue)"))
		b.WriteString("\n")

	case StepSyncChoice:
		b.WriteString(fmt.Sprintf("  Grace period: %s\n\n", onOff(m.grace)))
		b.WriteString(stepStyle.Render("Step 2: Remote sync"))
		b.WriteString("\n")
		b.WriteString("Push locked entries to a remote journal API?\n\n")
		b.WriteString(renderChoice(m.sync))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("(y/n or arrows to choose, Enter to continue)"))
		b.WriteString("\n")

	case StepAPIURL:
		b.WriteString(stepStyle.Render("Step 3: API URL"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputURL].View())
		b.WriteString("\n")

	case StepTeamID:
		b.WriteString(fmt.Sprintf("  API URL: %s\n\n", m.inputs[inputURL].Value()))
		b.WriteString(stepStyle.Render("Step 4: Team ID"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputTeam].View())
		b.WriteString("\n")

	case StepAPIKey:
		b.WriteString(fmt.Sprintf("  API URL: %s\n", m.inputs[inputURL].Value()))
		b.WriteString(fmt.Sprintf("  Team ID: %s\n\n", m.inputs[inputTeam].Value()))
		b.WriteString(stepStyle.Render("Step 5: API Key"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputKey].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  API URL: %s\n", m.inputs[inputURL].Value()))
		b.WriteString(fmt.Sprintf("  Team ID: %s\n", m.inputs[inputTeam].Value()))
		b.WriteString(fmt.Sprintf("  API Key: %s\n\n", strings.Repeat("*", len(m.inputs[inputKey].Value()))))
		b.WriteString(m.spinner.View())
		b.WriteString(" Validating connection...")
		b.WriteString("\n")

	case StepDone:
		if m.sync {
			b.WriteString(successStyle.Render("✓ Connected!"))
		} else {
			b.WriteString(successStyle.Render("✓ Saved."))
		}
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Result returns the collected values. Sync credentials are empty when sync was declined.
func (m SetupModel) Result() SetupResult {
	res := SetupResult{GracePeriod: m.grace, Sync: m.sync}
	if m.sync {
		res.APIURL = m.inputs[inputURL].Value()
		res.TeamID = m.inputs[inputTeam].Value()
		res.APIKey = m.inputs[inputKey].Value()
	}
	return res
}

// ShouldSave returns true if the wizard completed (via validation success,
// "save anyway", or declining sync) and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
