// Package tui is the operator-facing front end: it renders the transcript
// and session status, issues start/stop/clear commands to the session
// controller, and falls back to text echo while no voice session is active.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	interview "github.com/interviewkit/jordan/core"
	"github.com/interviewkit/jordan/core/events"
	"github.com/interviewkit/jordan/internal/config"
)

type transcriptUpdatedMsg struct{}

type sessionEventMsg struct{ event events.Event }

type startResultMsg struct{ err error }

type stopResultMsg struct{ err error }

// Model is the bubbletea model for the interview console.
type Model struct {
	controller *interview.Controller
	cfg        config.Config

	input    textinput.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	starting bool
	status   string
	warning  string

	transcriptUpdates <-chan struct{}
	sessionEvents     <-chan events.Event
}

func New(controller *interview.Controller, cfg config.Config, sessionEvents <-chan events.Event) Model {
	input := textinput.New()
	input.Placeholder = "Type your message here..."
	input.CharLimit = 500
	input.Focus()

	return Model{
		controller:        controller,
		cfg:               cfg,
		input:             input,
		transcriptUpdates: controller.Transcript().Subscribe(),
		sessionEvents:     sessionEvents,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForTranscriptUpdate(m.transcriptUpdates),
		waitForSessionEvent(m.sessionEvents),
	)
}

func waitForTranscriptUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return transcriptUpdatedMsg{}
	}
}

func waitForSessionEvent(sessionEvents <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sessionEvents
		if !ok {
			return nil
		}
		return sessionEventMsg{event: event}
	}
}

func (m Model) startSession() tea.Cmd {
	return func() tea.Msg {
		return startResultMsg{err: m.controller.Start(context.Background())}
	}
}

func (m Model) stopSession() tea.Cmd {
	return func() tea.Msg {
		return stopResultMsg{err: m.controller.Stop(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := max(msg.Height-8, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case transcriptUpdatedMsg:
		m.refreshTranscript()
		return m, waitForTranscriptUpdate(m.transcriptUpdates)

	case sessionEventMsg:
		m.applySessionEvent(msg.event)
		return m, waitForSessionEvent(m.sessionEvents)

	case startResultMsg:
		m.starting = false
		if msg.err == nil {
			m.status = "Voice conversation started. Speak into your microphone!"
			m.warning = ""
		}
		return m, nil

	case stopResultMsg:
		if msg.err == nil {
			m.status = "Voice conversation stopped."
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		_ = m.controller.Stop(context.Background())
		return m, tea.Quit

	case "ctrl+s":
		if m.canStart() {
			m.starting = true
			m.status = "Starting voice conversation..."
			return m, m.startSession()
		}
		return m, nil

	case "ctrl+x":
		if m.controller.State().Active {
			return m, m.stopSession()
		}
		return m, nil

	case "ctrl+l":
		m.controller.Transcript().Clear()
		m.status = "Chat history cleared."
		return m, nil

	case "enter":
		return m.submitFallbackText()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitFallbackText() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	if err := m.controller.SendText(text); err != nil {
		if errors.Is(err, interview.ErrSessionActive) {
			m.status = "Voice conversation is active; speak instead of typing."
		} else {
			m.warning = err.Error()
		}
		return m, nil
	}

	m.input.Reset()
	return m, nil
}

func (m *Model) applySessionEvent(event events.Event) {
	switch typedEvent := event.(type) {
	case events.Warning:
		m.warning = typedEvent.Message
	case events.SessionStarted:
		m.warning = ""
	case events.SessionEnded:
		if typedEvent.Forced {
			m.status = "Voice conversation stopped (forced cleanup)."
		}
	}
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if wasAtBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderTranscript() string {
	messages := m.controller.Transcript().Messages()
	if len(messages) == 0 {
		return subtitleStyle.Render("No messages yet.")
	}

	wrapWidth := max(m.viewport.Width-2, 20)

	lines := make([]string, 0, len(messages)*2)
	for _, message := range messages {
		label := userLabelStyle.Render("You")
		if message.Role == interview.RoleAssistant {
			label = assistantLabelStyle.Render("Jordan")
		}
		lines = append(lines, label+": "+wordwrap.String(message.Content, wrapWidth))
	}
	return strings.Join(lines, "\n")
}

func (m Model) canStart() bool {
	return !m.starting && m.cfg.HasCredentials() && !m.controller.State().Active
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := titleStyle.Render("Jordan — Technical Interview Assistant")

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(transcriptStyle.Width(m.viewport.Width + 2).Render(m.viewport.View()))
	b.WriteString("\n")

	if m.controller.State().Active {
		b.WriteString(subtitleStyle.Render("Voice conversation is active. Speak into your microphone!"))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))

	return b.String()
}

func (m Model) statusLine() string {
	state := m.controller.State()

	var parts []string
	if state.Active {
		parts = append(parts, activeBadgeStyle.Render("● voice active"))
	} else {
		parts = append(parts, inactiveBadgeStyle.Render("○ voice inactive"))
	}

	if missing := m.cfg.MissingCredentials(); len(missing) > 0 {
		parts = append(parts, errorStyle.Render("missing config: "+strings.Join(missing, ", ")))
	}
	if state.ErrorCount > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("error count: %d", state.ErrorCount)))
	}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render(m.warning))
	} else if m.status != "" {
		parts = append(parts, subtitleStyle.Render(m.status))
	}

	return strings.Join(parts, "  ")
}

func (m Model) helpLine() string {
	if m.controller.State().Active {
		return "ctrl+x stop  ctrl+l clear  esc quit"
	}
	if !m.cfg.HasCredentials() {
		return "set AGENT_ID and ELEVENLABS_API_KEY to enable voice  •  ctrl+l clear  esc quit"
	}
	return "ctrl+s start voice  ctrl+l clear  enter send text  esc quit"
}
