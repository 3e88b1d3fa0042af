package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	interview "github.com/interviewkit/jordan/core"
	"github.com/interviewkit/jordan/core/audio"
	"github.com/interviewkit/jordan/core/conversationalai"
	"github.com/interviewkit/jordan/core/events"
	"github.com/interviewkit/jordan/internal/config"
)

type sessionStub struct{ startErr error }

func (s *sessionStub) StartSession(context.Context) error { return s.startErr }
func (s *sessionStub) EndSession() error                  { return nil }
func (s *sessionStub) WaitForSessionEnd() (string, error) { return "conv_stub", nil }

type audioStub struct{}

func (audioStub) Start(context.Context, func(audio []byte)) error { return nil }
func (audioStub) Play([]byte) error                               { return nil }
func (audioStub) Interrupt()                                      {}
func (audioStub) EncodingInfo() audio.EncodingInfo                { return audio.GetDefaultEncodingInfo() }
func (audioStub) Release() []error                                { return nil }

func newTestModel(t *testing.T, cfg config.Config) (Model, *interview.Controller) {
	t.Helper()

	controller := interview.NewController(
		interview.WithProvider(interview.SessionProviderFunc(
			func(_ conversationalai.AudioInterface, _ ...conversationalai.SessionOption) conversationalai.Session {
				return &sessionStub{}
			})),
		interview.WithAudioInterfaceFactory(func() (conversationalai.AudioInterface, error) {
			return audioStub{}, nil
		}),
	)
	return New(controller, cfg, make(chan events.Event)), controller
}

func configuredConfig() config.Config {
	return config.Config{Agent: config.AgentConfig{ID: "agent_123", APIKey: "sk_test"}}
}

func TestEnterSubmitsFallbackTextWhileInactive(t *testing.T) {
	model, controller := newTestModel(t, configuredConfig())
	model.input.SetValue("What is your experience?")

	updated, _ := model.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)

	messages := controller.Transcript().Messages()
	if len(messages) != 2 {
		t.Fatalf("expected echo plus acknowledgement, got %d messages", len(messages))
	}
	if messages[0].Role != interview.RoleUser || messages[0].Content != "What is your experience?" {
		t.Fatalf("expected the typed text first, got %+v", messages[0])
	}
	if messages[1].Role != interview.RoleAssistant {
		t.Fatalf("expected canned acknowledgement second, got %+v", messages[1])
	}
	if model.input.Value() != "" {
		t.Fatalf("expected input reset after submit, got %q", model.input.Value())
	}
}

func TestEnterWithBlankInputAppendsNothing(t *testing.T) {
	model, controller := newTestModel(t, configuredConfig())
	model.input.SetValue("   ")

	model.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if got := controller.Transcript().Len(); got != 0 {
		t.Fatalf("expected no messages for blank input, got %d", got)
	}
}

func TestStartDisabledWithoutCredentials(t *testing.T) {
	model, _ := newTestModel(t, config.Config{})

	if model.canStart() {
		t.Fatalf("expected start disabled while credentials are missing")
	}

	_, cmd := model.handleKey(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatalf("expected no start command without credentials")
	}
}

func TestStartDisabledWhileActive(t *testing.T) {
	model, controller := newTestModel(t, configuredConfig())

	if err := controller.Start(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if model.canStart() {
		t.Fatalf("expected start disabled while a session is active")
	}
}

func TestClearResetsTranscript(t *testing.T) {
	model, controller := newTestModel(t, configuredConfig())
	controller.Transcript().Append(interview.RoleUser, "hello")

	model.handleKey(tea.KeyMsg{Type: tea.KeyCtrlL})

	if got := controller.Transcript().Len(); got != 0 {
		t.Fatalf("expected transcript cleared, got %d messages", got)
	}
}

func TestWarningEventsSurfaceInStatusLine(t *testing.T) {
	model, _ := newTestModel(t, configuredConfig())
	model.ready = true

	model.applySessionEvent(events.NewWarning("Cleanup warning: socket already gone"))

	if model.warning != "Cleanup warning: socket already gone" {
		t.Fatalf("expected warning captured, got %q", model.warning)
	}

	model.applySessionEvent(events.NewSessionStarted())
	if model.warning != "" {
		t.Fatalf("expected warning cleared on session start, got %q", model.warning)
	}
}
