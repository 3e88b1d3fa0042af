package miniaudio

import (
	"bytes"
	"sync"
	"testing"

	"github.com/gen2brain/malgo"
	"github.com/interviewkit/jordan/core/audio"
)

func TestFeedOutputDrainsPendingInDeviceSizedChunks(t *testing.T) {
	c := &playbackClient{bytesPerFrame: 2}
	c.pending = []byte{1, 2, 3, 4, 5, 6, 7, 8}

	out := make([]byte, 4)
	c.feedOutput(out, 2)
	if !bytes.Equal(out, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected first device period to get the head of the queue, got %v", out)
	}

	out = make([]byte, 4)
	c.feedOutput(out, 2)
	if !bytes.Equal(out, []byte{5, 6, 7, 8}) {
		t.Fatalf("expected second device period to get the tail of the queue, got %v", out)
	}
	if len(c.pending) != 0 {
		t.Fatalf("expected the queue to be drained, got %d bytes", len(c.pending))
	}
}

func TestFeedOutputHandlesShortQueue(t *testing.T) {
	c := &playbackClient{bytesPerFrame: 2}
	c.pending = []byte{9, 9}

	out := make([]byte, 4)
	c.feedOutput(out, 2)
	if !bytes.Equal(out, []byte{9, 9, 0, 0}) {
		t.Fatalf("expected a short queue to fill only its own bytes, got %v", out)
	}
	if c.pending != nil {
		t.Fatalf("expected a short queue to be consumed entirely, got %v", c.pending)
	}

	out = make([]byte, 4)
	c.feedOutput(out, 2)
	if !bytes.Equal(out, []byte{0, 0, 0, 0}) {
		t.Fatalf("expected an empty queue to leave the period silent, got %v", out)
	}
}

func TestClearBufferDropsQueuedAudio(t *testing.T) {
	c := &playbackClient{bytesPerFrame: 2}
	c.pending = []byte{1, 2, 3, 4}

	c.ClearBuffer()

	out := make([]byte, 4)
	c.feedOutput(out, 2)
	if !bytes.Equal(out, []byte{0, 0, 0, 0}) {
		t.Fatalf("expected no audio after an interrupt, got %v", out)
	}
}

func TestFeedOutputSurvivesConcurrentQueueMutation(t *testing.T) {
	c := &playbackClient{bytesPerFrame: 2}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for range 200 {
			c.audioMu.Lock()
			c.pending = append(c.pending, make([]byte, 64)...)
			c.audioMu.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			c.ClearBuffer()
		}
	}()
	go func() {
		defer wg.Done()
		out := make([]byte, 32)
		for range 200 {
			c.feedOutput(out, 16)
		}
	}()
	wg.Wait()
}

func TestDeviceFormatFollowsEncoding(t *testing.T) {
	format, err := deviceFormat(audio.GetDefaultEncodingInfo())
	if err != nil {
		t.Fatalf("expected the default encoding to map to a device format, got %v", err)
	}
	if format != malgo.FormatS16 {
		t.Fatalf("expected 16-bit signed samples for linear16, got %v", format)
	}

	if _, err := deviceFormat(audio.EncodingInfo{}); err == nil {
		t.Fatalf("expected an undeclared encoding to be rejected")
	}
}
