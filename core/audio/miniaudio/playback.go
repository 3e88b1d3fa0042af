package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/interviewkit/jordan/core/audio"
)

const playbackChannels = 1

type playbackClient struct {
	device        *malgo.Device
	bytesPerFrame int

	mu sync.Mutex

	// pending is agent audio queued for the device; it is appended to by the
	// websocket read loop and drained on the miniaudio playback thread, so
	// every access goes through audioMu.
	pending []byte
	audioMu sync.Mutex
}

// Init opens the default playback device with the given encoding. The period
// is sized to roughly 100ms of audio so interrupts cut off quickly.
func (c *playbackClient) Init(audioContext *malgo.AllocatedContext, encoding audio.EncodingInfo, format malgo.FormatType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bytesPerFrame = encoding.Format.ByteSize() * playbackChannels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Playback.Format = format
	config.Playback.Channels = playbackChannels
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = uint32(encoding.SampleRate / 10)
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(pOutput, _ []byte, frameCount uint32) {
			c.feedOutput(pOutput, frameCount)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	c.device = device
	return nil
}

func (c *playbackClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.pending = append(c.pending, audio...)
	return nil
}

func (c *playbackClient) ClearBuffer() {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()
	c.pending = nil
}

func (c *playbackClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	return nil
}

// feedOutput runs on the miniaudio playback thread. audioMu is held for the
// whole drain so SendAudio and ClearBuffer never race the copy.
func (c *playbackClient) feedOutput(pOutput []byte, frameCount uint32) {
	c.audioMu.Lock()
	defer c.audioMu.Unlock()

	need := int(frameCount) * c.bytesPerFrame
	if len(c.pending) == 0 || need == 0 {
		return
	}

	if len(c.pending) < need {
		copy(pOutput, c.pending)
		c.pending = nil
		return
	}

	copy(pOutput, c.pending[:need])
	c.pending = c.pending[need:]
}
