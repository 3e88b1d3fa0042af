package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/interviewkit/jordan/core/audio"
)

// Interface is the miniaudio-backed audio interface: a capture device, a
// playback device, and the allocated context that owns both. Both devices are
// opened with the same encoding, which is what the conversation session
// reports to the agent side.
type Interface struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	encoding     audio.EncodingInfo

	playbackClient
	captureClient
}

func NewInterface() (*Interface, error) {
	encoding := audio.GetDefaultEncodingInfo()
	format, err := deviceFormat(encoding)
	if err != nil {
		return nil, err
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize miniaudio context: %w", err)
	}

	client := Interface{
		audioContext: audioCtx,
		encoding:     encoding,
	}

	if err := client.playbackClient.Init(audioCtx, encoding, format); err != nil {
		client.Release()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playbackClient.Start(); err != nil {
		client.Release()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.captureClient.Init(audioCtx, encoding, format); err != nil {
		client.Release()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Interface) Start(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Interface) Play(audio []byte) error {
	return c.playbackClient.SendAudio(audio)
}

func (c *Interface) Interrupt() {
	c.playbackClient.ClearBuffer()
}

// EncodingInfo describes the format both devices were opened with.
func (c *Interface) EncodingInfo() audio.EncodingInfo {
	return c.encoding
}

// Release uninitializes the capture device, the playback device, and the
// owning context in that order, attempting every step regardless of earlier
// failures.
func (c *Interface) Release() []error {
	return audio.Release(
		audio.ReleaseStep{Name: "capture device", Close: c.captureClient.Uninit},
		audio.ReleaseStep{Name: "playback device", Close: c.playbackClient.Uninit},
		audio.ReleaseStep{Name: "miniaudio context", Close: func() error {
			if err := c.audioContext.Uninit(); err != nil {
				return err
			}
			c.audioContext.Free()
			return nil
		}},
	)
}

// deviceFormat maps an encoding descriptor onto the miniaudio sample format.
// Only raw PCM encodings have a device-level equivalent; companded formats
// would need a transcode step this backend does not do.
func deviceFormat(encoding audio.EncodingInfo) (malgo.FormatType, error) {
	if encoding.Format == audio.EncodingLinear16 {
		return malgo.FormatS16, nil
	}
	return malgo.FormatUnknown, fmt.Errorf("unsupported device encoding %s", encoding)
}
