// Package conversationalai defines the contract between the session
// controller and an external conversational voice-AI provider. The provider
// owns speech recognition, dialogue generation, and speech synthesis; this
// package only models the session lifecycle and the push callbacks the
// provider invokes while a session is live.
package conversationalai

import (
	"context"

	"github.com/interviewkit/jordan/core/audio"
)

// AudioInterface is the local audio device surface a session drives: a
// microphone capture stream in, agent speech out. EncodingInfo describes the
// format the capture stream produces so sessions can check it against what
// the provider expects. Release must be safe to call after partial
// acquisition failures and must attempt every teardown step it owns.
type AudioInterface interface {
	Start(ctx context.Context, onAudio func(audio []byte)) error
	Play(audio []byte) error
	Interrupt()
	EncodingInfo() audio.EncodingInfo
	Release() []error
}

// Session is one live streaming conversation with the provider.
//
// StartSession and EndSession may both fail; neither failure is expected to
// leave local audio devices acquired. WaitForSessionEnd blocks until the
// provider side closes and reports the provider-assigned conversation ID.
type Session interface {
	StartSession(ctx context.Context) error
	EndSession() error
	WaitForSessionEnd() (conversationID string, err error)
}
