// Package interview mediates between an operator-facing front end and an
// external conversational voice-AI provider: it owns the lifecycle of the
// single active voice session, the shared chat transcript, and the text-only
// fallback used while no session is live.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/interviewkit/jordan/core/conversationalai"
	"github.com/interviewkit/jordan/core/events"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrSessionActive = errors.New("a voice session is already active")
	ErrNotConfigured = errors.New("voice provider is not configured")
)

// repeatedFailureThreshold is the number of consecutive start failures after
// which the operator is told to check their audio device configuration.
// Local policy, not a provider contract; there is no automatic retry.
const repeatedFailureThreshold = 3

// SessionState is a point-in-time view of the controller. Active is true
// exactly while a provider session handle is held.
type SessionState struct {
	Active     bool
	ErrorCount int
}

// SessionProvider opens streaming sessions against the external voice-AI
// service.
type SessionProvider interface {
	NewSession(audioInterface conversationalai.AudioInterface, opts ...conversationalai.SessionOption) conversationalai.Session
}

// SessionProviderFunc adapts a session-constructor function to the
// SessionProvider interface.
type SessionProviderFunc func(audioInterface conversationalai.AudioInterface, opts ...conversationalai.SessionOption) conversationalai.Session

func (f SessionProviderFunc) NewSession(audioInterface conversationalai.AudioInterface, opts ...conversationalai.SessionOption) conversationalai.Session {
	return f(audioInterface, opts...)
}

// AudioInterfaceFactory acquires a fresh audio interface for one session.
type AudioInterfaceFactory func() (conversationalai.AudioInterface, error)

// Controller owns the lifecycle of at most one active voice session and the
// transcript it feeds. All state transitions happen under one mutex; the
// provider's callbacks serialize through the transcript's own lock.
type Controller struct {
	mu sync.Mutex

	provider          SessionProvider
	newAudioInterface AudioInterfaceFactory
	transcript        *Transcript
	emit              func(events.Event)

	active     conversationalai.Session
	errorCount int
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		transcript: NewTranscript(),
		emit:       func(events.Event) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Transcript() *Transcript { return c.transcript }

func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SessionState{Active: c.active != nil, ErrorCount: c.errorCount}
}

// Start opens a streaming voice session bound to a fresh audio interface.
// Any failure leaves the controller inactive, increments the consecutive
// failure count, and surfaces an operator-visible message; a success resets
// the count to zero.
func (c *Controller) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "interview.start_session")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return ErrSessionActive
	}
	if c.provider == nil || c.newAudioInterface == nil {
		return ErrNotConfigured
	}

	audioInterface, err := c.newAudioInterface()
	if err != nil {
		return c.failStartLocked(ctx, fmt.Errorf("failed to acquire audio devices: %w", err))
	}

	session := c.provider.NewSession(audioInterface,
		conversationalai.WithUserTranscriptCallback(func(transcript string) {
			c.transcript.Append(RoleUser, transcript)
		}),
		conversationalai.WithAgentResponseCallback(func(response string) {
			c.transcript.Append(RoleAssistant, response)
		}),
	)

	if err := session.StartSession(ctx); err != nil {
		for _, releaseErr := range audioInterface.Release() {
			c.emit(events.NewWarning(fmt.Sprintf("Audio cleanup warning: %v", releaseErr)))
		}
		return c.failStartLocked(ctx, err)
	}

	c.active = session
	c.errorCount = 0
	c.emit(events.NewSessionStarted())
	return nil
}

func (c *Controller) failStartLocked(ctx context.Context, err error) error {
	c.errorCount++

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	c.emit(events.NewWarning(fmt.Sprintf("Failed to start conversation (attempt %d): %v", c.errorCount, err)))
	if c.errorCount >= repeatedFailureThreshold {
		c.emit(events.NewWarning("Multiple connection failures. Please check your audio device settings."))
	}

	return err
}

// Stop ends the active session. The controller transitions to inactive and
// drops the session handle regardless of whether the provider's end-session
// call succeeds: a broken session must never block starting a new one.
// Stopping while inactive is a no-op.
func (c *Controller) Stop(ctx context.Context) error {
	_, span := tracer.Start(ctx, "interview.stop_session")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return nil
	}

	session := c.active
	c.active = nil

	err := session.EndSession()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.emit(events.NewWarning(fmt.Sprintf("Cleanup warning: %v", err)))
	}

	c.emit(events.NewSessionEnded(err != nil))
	return err
}

// SendText is the text-only fallback path, accepted only while no voice
// session is active. The user's message is echoed into the transcript
// followed by a canned acknowledgement; no AI-generated content is involved.
func (c *Controller) SendText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return ErrSessionActive
	}

	c.transcript.Append(RoleUser, text)
	c.transcript.Append(RoleAssistant,
		fmt.Sprintf("I received: '%s'. Start voice conversation for full capabilities!", text))
	return nil
}
