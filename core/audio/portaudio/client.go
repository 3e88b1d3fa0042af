package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/interviewkit/jordan/core/audio"
)

// Interface owns the default microphone and speaker streams plus the
// PortAudio subsystem itself. It is acquired per voice session and must be
// released exactly once when the session ends.
type Interface struct {
	bufferSize int
	encoding   audio.EncodingInfo

	inStream  *portaudio.Stream
	outStream *portaudio.Stream

	in  []int16
	out []int16

	leftoverAudio []byte
	playbackMu    sync.Mutex

	releaseOnce sync.Once
}

func NewInterface(bufferSize int) (*Interface, error) {
	encoding := audio.GetDefaultEncodingInfo()
	if encoding.Format != audio.EncodingLinear16 {
		return nil, fmt.Errorf("unsupported capture encoding %s", encoding)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	sampleRate := float64(encoding.SampleRate)

	in := make([]int16, bufferSize)
	inStream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, bufferSize, in)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio input stream: %w", err)
	}

	out := make([]int16, bufferSize)
	outStream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, bufferSize, out)
	if err != nil {
		_ = inStream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open PortAudio output stream: %w", err)
	}

	return &Interface{
		bufferSize: bufferSize,
		encoding:   encoding,
		inStream:   inStream,
		outStream:  outStream,
		in:         in,
		out:        out,
	}, nil
}

// Start begins microphone capture, handing each captured chunk to onAudio.
// It returns once the streams are started; capture runs until ctx is
// cancelled.
func (c *Interface) Start(ctx context.Context, onAudio func(audio []byte)) error {
	if err := c.inStream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio input stream: %w", err)
	}
	if err := c.outStream.Start(); err != nil {
		return fmt.Errorf("failed to start PortAudio output stream: %w", err)
	}

	go c.capture(ctx, onAudio)
	return nil
}

func (c *Interface) capture(ctx context.Context, onAudio func(audio []byte)) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.inStream.Read(); err != nil {
				logger.Warn("Failed to read from PortAudio input stream", "error", err)
				continue
			}

			audioBuffer := bytes.Buffer{}
			binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}
}

// Play queues agent audio on the speaker stream, writing it out in
// stream-sized chunks and carrying any remainder over to the next call.
func (c *Interface) Play(audioBytes []byte) error {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()

	bufferSize := c.bufferSize * c.encoding.Format.ByteSize()

	audioBytes = append(c.leftoverAudio, audioBytes...)
	for i := range len(audioBytes)/bufferSize + 1 {
		if (i+1)*bufferSize > len(audioBytes) {
			c.leftoverAudio = make([]byte, len(audioBytes)-i*bufferSize)
			copy(c.leftoverAudio, audioBytes[i*bufferSize:])
			break
		}

		binary.Read(bytes.NewBuffer(audioBytes[i*bufferSize:(i+1)*bufferSize]), binary.LittleEndian, c.out)
		if err := c.outStream.Write(); err != nil {
			return fmt.Errorf("failed to write to PortAudio output stream: %w", err)
		}
	}

	return nil
}

// Interrupt discards audio that has been queued but not yet played.
func (c *Interface) Interrupt() {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()
	c.leftoverAudio = nil
}

// Release tears down the input stream, the output stream, and the PortAudio
// subsystem. Each step is attempted even if an earlier one fails; failures
// come back as warnings rather than aborting the teardown.
func (c *Interface) Release() []error {
	var errs []error
	c.releaseOnce.Do(func() {
		errs = audio.Release(
			audio.ReleaseStep{Name: "input stream", Close: c.inStream.Close},
			audio.ReleaseStep{Name: "output stream", Close: c.outStream.Close},
			audio.ReleaseStep{Name: "PortAudio subsystem", Close: portaudio.Terminate},
		)
	})
	return errs
}

// EncodingInfo describes the format both streams were opened with.
func (c *Interface) EncodingInfo() audio.EncodingInfo {
	return c.encoding
}
