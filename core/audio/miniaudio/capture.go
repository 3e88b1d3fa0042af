package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/interviewkit/jordan/core/audio"
)

const (
	captureChannels = 1
	// capturePeriodMs keeps microphone chunks small enough to stream to the
	// agent without noticeable input lag.
	capturePeriodMs = 30
)

type captureClient struct {
	device        *malgo.Device
	bytesPerFrame int

	onAudio func(audio []byte)

	mu sync.Mutex
}

// Init opens the default capture device with the given encoding. The device
// stays stopped until Start; chunks are sized by the encoding's sample width.
func (c *captureClient) Init(audioContext *malgo.AllocatedContext, encoding audio.EncodingInfo, format malgo.FormatType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bytesPerFrame = encoding.Format.ByteSize() * captureChannels

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Capture.Format = format
	config.Capture.Channels = captureChannels
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = uint32(encoding.SampleRate * capturePeriodMs / 1000)
	config.Periods = 3

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			c.forwardChunk(pInput, frameCount)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.device = device
	return nil
}

// forwardChunk runs on the miniaudio capture thread.
func (c *captureClient) forwardChunk(pInput []byte, frameCount uint32) {
	n := int(frameCount) * c.bytesPerFrame
	if n == 0 || len(pInput) < n {
		return
	}

	c.mu.Lock()
	onAudio := c.onAudio
	c.mu.Unlock()

	if onAudio != nil {
		onAudio(pInput[:n])
	}
}

func (c *captureClient) Start(onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	c.onAudio = onAudio
	if err := c.device.Start(); err != nil {
		c.onAudio = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.onAudio = nil
	return nil
}
