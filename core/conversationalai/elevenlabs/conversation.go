package elevenlabs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/interviewkit/jordan/core/audio"
	"github.com/interviewkit/jordan/core/conversationalai"
	"go.opentelemetry.io/otel/codes"
)

var _ conversationalai.Session = (*Conversation)(nil)

// Conversation is one live streaming session against a Conversational AI
// agent. The provider pushes user transcripts, agent responses, and agent
// speech over the websocket; microphone audio is forwarded the other way.
type Conversation struct {
	client         *Client
	audioInterface conversationalai.AudioInterface
	options        conversationalai.SessionOptions
	tools          *clientToolRegistry

	conn   *websocket.Conn
	connMu sync.Mutex

	cancel context.CancelFunc

	mu             sync.Mutex
	conversationID string

	done    chan struct{}
	endOnce sync.Once
}

// StartSession dials the conversation websocket, announces the client
// configuration, and begins pumping microphone audio. Audio interface
// teardown on failure is left to the caller, which owns the interface until
// the session is live.
func (c *Conversation) StartSession(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "elevenlabs.start_session")
	defer span.End()

	conversationURL, err := c.client.conversationURL(ctx)
	if err != nil {
		recordedErr := fmt.Errorf("failed to resolve conversation url: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, conversationURL, nil)
	if err != nil {
		recordedErr := fmt.Errorf("failed to open socket connection to elevenlabs: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	if err := c.writeJSON(conversationInitiationClientData{
		Type:        "conversation_initiation_client_data",
		ClientTools: c.tools.Definitions(),
	}); err != nil {
		c.closeConn()
		recordedErr := fmt.Errorf("failed to announce conversation initiation: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel

	go c.readAndProcessMessages(sessionCtx, conn)

	if err := c.audioInterface.Start(sessionCtx, func(chunk []byte) {
		if err := c.sendAudio(chunk); err != nil {
			logger.Warn("Failed to forward microphone audio", "error", err)
		}
	}); err != nil {
		cancel()
		c.closeConn()
		recordedErr := fmt.Errorf("failed to start audio capture: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return recordedErr
	}

	return nil
}

// EndSession closes the provider session and releases the audio interface.
// Every teardown step is attempted; failures are joined into the returned
// error so the caller can surface them as warnings.
func (c *Conversation) EndSession() error {
	var endErr error
	c.endOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}

		var errs []error

		c.connMu.Lock()
		if c.conn != nil {
			if err := c.conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			); err != nil {
				errs = append(errs, fmt.Errorf("failed to send close message: %w", err))
			}
			if err := c.conn.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close websocket: %w", err))
			}
			c.conn = nil
		}
		c.connMu.Unlock()

		for _, err := range c.audioInterface.Release() {
			errs = append(errs, fmt.Errorf("audio cleanup warning: %w", err))
		}

		endErr = errors.Join(errs...)
	})
	return endErr
}

// WaitForSessionEnd blocks until the websocket read loop exits and returns
// the conversation ID assigned by the provider.
func (c *Conversation) WaitForSessionEnd() (string, error) {
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conversationID == "" {
		return "", fmt.Errorf("session ended before conversation ID was assigned")
	}
	return c.conversationID, nil
}

// ConversationID returns the provider-assigned ID, or an empty string before
// the initiation metadata arrives.
func (c *Conversation) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

func (c *Conversation) closeConn() {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Conversation) sendAudio(chunk []byte) error {
	return c.writeJSON(userAudioChunk{
		UserAudioChunk: base64.StdEncoding.EncodeToString(chunk),
	})
}

func (c *Conversation) writeJSON(message any) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("conversation is not connected")
	}
	if err := c.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write to elevenlabs client: %w", err)
	}
	return nil
}

func (c *Conversation) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	defer close(c.done)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && ctx.Err() == nil {
				logger.Warn("Failed to read elevenlabs websocket message", "error", err)
			}
			return
		}

		for _, reply := range c.dispatch(ctx, msg) {
			if err := c.writeJSON(reply); err != nil {
				logger.Warn("Failed to reply to elevenlabs event", "error", err)
			}
		}
	}
}

// dispatch routes one server event to the configured callbacks and returns
// any replies owed to the provider. Callback failures are contained here so
// a misbehaving consumer cannot take the session down.
func (c *Conversation) dispatch(ctx context.Context, msg []byte) []any {
	var event serverEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		logger.Warn("Failed to unmarshal elevenlabs message", "error", err)
		return nil
	}

	switch event.Type {
	case eventConversationInitiationMetadata:
		if event.ConversationInitiationMetadataEvent != nil {
			c.mu.Lock()
			c.conversationID = event.ConversationInitiationMetadataEvent.ConversationID
			c.mu.Unlock()

			if err := checkInputEncoding(
				c.audioInterface.EncodingInfo(),
				event.ConversationInitiationMetadataEvent.UserInputAudioFormat,
			); err != nil {
				logger.Warn("Audio interface does not match the agent's input format", "error", err)
			}
		}

	case eventUserTranscript:
		if event.UserTranscriptionEvent != nil && c.options.UserTranscriptCallback != nil {
			c.safeCallback("user transcript", func() {
				c.options.UserTranscriptCallback(event.UserTranscriptionEvent.UserTranscript)
			})
		}

	case eventAgentResponse:
		if event.AgentResponseEvent != nil && c.options.AgentResponseCallback != nil {
			c.safeCallback("agent response", func() {
				c.options.AgentResponseCallback(event.AgentResponseEvent.AgentResponse)
			})
		}

	case eventAgentResponseCorrection:
		if event.AgentResponseCorrectionEvent != nil && c.options.AgentResponseCorrectionCallback != nil {
			c.safeCallback("agent response correction", func() {
				c.options.AgentResponseCorrectionCallback(
					event.AgentResponseCorrectionEvent.OriginalAgentResponse,
					event.AgentResponseCorrectionEvent.CorrectedAgentResponse,
				)
			})
		}

	case eventAudio:
		if event.AudioEvent != nil {
			audioBytes, err := base64.StdEncoding.DecodeString(event.AudioEvent.AudioBase64)
			if err != nil {
				logger.Warn("Failed to decode agent audio", "error", err)
				return nil
			}
			if err := c.audioInterface.Play(audioBytes); err != nil {
				logger.Warn("Failed to play agent audio", "error", err)
			}
		}

	case eventInterruption:
		c.audioInterface.Interrupt()

	case eventPing:
		if event.PingEvent != nil {
			if c.options.LatencyMeasurementCallback != nil {
				c.safeCallback("latency measurement", func() {
					c.options.LatencyMeasurementCallback(event.PingEvent.PingMs)
				})
			}
			return []any{pongMessage{Type: "pong", EventID: event.PingEvent.EventID}}
		}

	case eventClientToolCall:
		if event.ClientToolCall != nil {
			return []any{c.tools.Dispatch(ctx, *event.ClientToolCall)}
		}
	}

	return nil
}

// checkInputEncoding compares what the capture stream produces against the
// format label the agent announced in the initiation metadata.
func checkInputEncoding(have audio.EncodingInfo, expectedLabel string) error {
	if have.IsZero() || expectedLabel == "" {
		return nil
	}

	expected, err := audio.ParseEncoding(expectedLabel)
	if err != nil {
		return err
	}
	if expected != have {
		return fmt.Errorf("capturing %s but the agent expects %s", have, expected)
	}
	return nil
}

func (c *Conversation) safeCallback(name string, callback func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Error processing "+name, "error", r)
		}
	}()
	callback()
}
