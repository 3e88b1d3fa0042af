package audio

import "testing"

func TestParseEncoding(t *testing.T) {
	encoding, err := ParseEncoding("pcm_16000")
	if err != nil {
		t.Fatalf("expected pcm_16000 to parse, got %v", err)
	}
	if encoding.Format != EncodingLinear16 || encoding.SampleRate != 16000 {
		t.Fatalf("expected 16kHz linear16, got %v", encoding)
	}
	if encoding.Format.ByteSize() != 2 {
		t.Fatalf("expected 2-byte linear16 samples, got %d", encoding.Format.ByteSize())
	}

	encoding, err = ParseEncoding("ulaw_8000")
	if err != nil {
		t.Fatalf("expected ulaw_8000 to parse, got %v", err)
	}
	if encoding.Format != EncodingMulaw || encoding.SampleRate != 8000 {
		t.Fatalf("expected 8kHz mulaw, got %v", encoding)
	}
	if encoding.Format.ByteSize() != 1 {
		t.Fatalf("expected 1-byte mulaw samples, got %d", encoding.Format.ByteSize())
	}
}

func TestParseEncodingRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "pcm", "opus_48000", "pcm_zero", "pcm_-1"} {
		if _, err := ParseEncoding(label); err == nil {
			t.Fatalf("expected %q to be rejected", label)
		}
	}
}

func TestDefaultEncodingInfoIsUsable(t *testing.T) {
	encoding := GetDefaultEncodingInfo()
	if encoding.IsZero() {
		t.Fatalf("expected a populated default encoding, got %v", encoding)
	}
	if encoding.Format != EncodingLinear16 || encoding.SampleRate != DefaultSampleRate {
		t.Fatalf("expected default linear16 at %d Hz, got %v", DefaultSampleRate, encoding)
	}
	if (EncodingInfo{}).IsZero() != true {
		t.Fatalf("expected the zero descriptor to report IsZero")
	}
}
