package audio

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

// ParseEncoding maps a provider format label such as "pcm_16000" or
// "ulaw_8000" onto an encoding descriptor.
func ParseEncoding(label string) (EncodingInfo, error) {
	name, rate, found := strings.Cut(label, "_")
	if !found {
		return EncodingInfo{}, fmt.Errorf("unrecognized audio format %q", label)
	}

	sampleRate, err := strconv.Atoi(rate)
	if err != nil || sampleRate <= 0 {
		return EncodingInfo{}, fmt.Errorf("invalid sample rate in audio format %q", label)
	}

	var format encodingFormat
	switch name {
	case "pcm":
		format = EncodingLinear16
	case "ulaw":
		format = EncodingMulaw
	default:
		return EncodingInfo{}, fmt.Errorf("unrecognized audio format %q", label)
	}

	return EncodingInfo{SampleRate: sampleRate, Format: format}, nil
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) String() string {
	return fmt.Sprintf("%s at %d Hz", e.Format.Name(), e.SampleRate)
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingLinear16 encodingFormat = "linear16"
)
