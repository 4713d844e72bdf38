package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/priya-kumar159/CodeQuest-Project/internal/session"
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Padding(0, 1)
	styleHeading  = lipgloss.NewStyle().Bold(true)
	stylePoints   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleMotivate = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleStatus   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleFocused  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("14"))
	styleBlurred  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)

const helpLine = "enter: submit mood • ctrl+d: done • ctrl+s: solution • ctrl+k: skip • ctrl+p: progress • tab: switch focus • esc: quit"

type focusArea int

// Tab cycles through the areas in declaration order.
const (
	focusInput focusArea = iota
	focusEditor
	focusOutput
	focusAreas
)

// viewMsg carries the outcome of a controller call back into Update.
type viewMsg struct {
	view session.View
	err  error
}

// Model is the bubbletea model for the local CodeQuest client.
type Model struct {
	ctx        context.Context
	controller *session.Controller
	sessionID  string

	input  textinput.Model
	editor textarea.Model
	output textarea.Model
	focus  focusArea

	view   session.View
	status string
	busy   bool
}

// New builds a Model bound to one session of controller.
func New(ctx context.Context, controller *session.Controller, sessionID string) Model {
	ti := textinput.New()
	ti.Placeholder = "How are you feeling? (text or emoji)"
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()

	// The editor is a scratchpad for the user's attempt; its text never leaves the model.
	ed := textarea.New()
	ed.Placeholder = "Write your code here..."
	ed.SetWidth(72)
	ed.SetHeight(8)
	ed.Blur()

	out := textarea.New()
	out.Placeholder = "Solutions and progress appear here."
	out.ShowLineNumbers = false
	out.SetWidth(72)
	out.SetHeight(12)
	out.Blur()

	return Model{
		ctx:        ctx,
		controller: controller,
		sessionID:  sessionID,
		input:      ti,
		editor:     ed,
		output:     out,
		focus:      focusInput,
	}
}

// Init restores the session view.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.call(m.controller.Current))
}

func (m Model) call(action func(context.Context, string) (session.View, error)) tea.Cmd {
	ctx, id := m.ctx, m.sessionID
	return func() tea.Msg {
		view, err := action(ctx, id)
		return viewMsg{view: view, err: err}
	}
}

func (m Model) submit(text string) tea.Cmd {
	ctx, id, ctrl := m.ctx, m.sessionID, m.controller
	return func() tea.Msg {
		view, err := ctrl.SubmitMood(ctx, id, text)
		return viewMsg{view: view, err: err}
	}
}

// Update handles key bindings and controller results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := max(msg.Width-4, 20)
		m.input.Width = width - 4
		m.editor.SetWidth(width)
		m.output.SetWidth(width)
		return m, nil

	case viewMsg:
		m.busy = false
		m.applyResult(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			return m, m.toggleFocus()
		case "ctrl+d":
			return m.dispatch(m.call(m.controller.Done))
		case "ctrl+s":
			return m.dispatch(m.call(m.controller.ShowSolution))
		case "ctrl+k":
			return m.dispatch(m.call(m.controller.Skip))
		case "ctrl+p":
			return m.dispatch(m.call(m.controller.ShowProgress))
		case "enter":
			if m.focus == focusInput {
				text := m.input.Value()
				if m.busy || strings.TrimSpace(text) == "" {
					return m, nil
				}
				m.input.Reset()
				return m.dispatch(m.submit(text))
			}
		}

		if m.focus == focusOutput {
			// The output pane is read-only; only scrolling keys reach it.
			switch msg.Type {
			case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
			default:
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusEditor:
		m.editor, cmd = m.editor.Update(msg)
	case focusOutput:
		m.output, cmd = m.output.Update(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) dispatch(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	m.status = ""
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	m.input.Blur()
	m.editor.Blur()
	m.output.Blur()

	m.focus = (m.focus + 1) % focusAreas
	switch m.focus {
	case focusEditor:
		return m.editor.Focus()
	case focusOutput:
		return m.output.Focus()
	default:
		return m.input.Focus()
	}
}

func (m *Model) applyResult(msg viewMsg) {
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, session.ErrNoActiveChallenge):
			m.status = "Submit a mood to get a challenge first."
		case errors.Is(msg.err, session.ErrEmptyMood):
			m.status = ""
		default:
			m.status = "Error: " + msg.err.Error()
		}
		return
	}

	if challengeID(msg.view) != challengeID(m.view) {
		m.editor.Reset()
	}
	m.view = msg.view
	m.output.SetValue(outputText(msg.view))
}

func challengeID(v session.View) string {
	if v.Challenge == nil {
		return ""
	}
	return v.Challenge.ID
}

// outputText renders the read-only pane: a solution, a progress report, or nothing.
func outputText(v session.View) string {
	if v.Solution != "" {
		return v.Solution
	}
	if p := v.Progress; p != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "Total points: %d (%d entries)\n", p.TotalPoints, p.Entries)
		for _, e := range p.Recent {
			fmt.Fprintf(&b, "%s  %-8s %-20s +%d\n", e.Timestamp, e.Mood, e.Title, e.Points)
		}
		return strings.TrimRight(b.String(), "\n")
	}
	return ""
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("CodeQuest"))
	b.WriteString("\n\n")

	box := func(area focusArea) lipgloss.Style {
		if m.focus == area {
			return styleFocused
		}
		return styleBlurred
	}
	inputBox, editorBox, outputBox := box(focusInput), box(focusEditor), box(focusOutput)
	b.WriteString(inputBox.Render(m.input.View()))
	b.WriteString("\n")

	if m.view.Mood != "" {
		b.WriteString(styleSubtle.Render("Mood: " + string(m.view.Mood)))
		b.WriteString("\n")
	}
	if ch := m.view.Challenge; ch != nil {
		b.WriteString(styleHeading.Render(fmt.Sprintf("%s (%d pts)", ch.Title, ch.Points)))
		b.WriteString("\n")
		b.WriteString(ch.Description)
		b.WriteString("\n")
	}
	if m.view.PointsMessage != "" {
		b.WriteString(stylePoints.Render(m.view.PointsMessage))
		b.WriteString("\n")
	}
	if m.view.MotivationMessage != "" {
		b.WriteString(styleMotivate.Render(m.view.MotivationMessage))
		b.WriteString("\n")
	}
	if m.view.Notice != "" {
		b.WriteString(styleSubtle.Render(m.view.Notice))
		b.WriteString("\n")
	}

	b.WriteString(editorBox.Render(m.editor.View()))
	b.WriteString("\n")
	b.WriteString(outputBox.Render(m.output.View()))
	b.WriteString("\n")

	if m.view.Warning != "" {
		b.WriteString(styleWarning.Render(m.view.Warning))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(styleStatus.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(styleSubtle.Render(helpLine))
	b.WriteString("\n")
	return b.String()
}
