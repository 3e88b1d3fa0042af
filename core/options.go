package interview

import "github.com/interviewkit/jordan/core/events"

type ControllerOption func(*Controller)

func WithProvider(provider SessionProvider) ControllerOption {
	return func(c *Controller) {
		c.provider = provider
	}
}

func WithAudioInterfaceFactory(factory AudioInterfaceFactory) ControllerOption {
	return func(c *Controller) {
		c.newAudioInterface = factory
	}
}

// WithTranscript injects a shared transcript instead of the controller's
// own. Used when the presentation layer constructs the transcript first.
func WithTranscript(transcript *Transcript) ControllerOption {
	return func(c *Controller) {
		if transcript != nil {
			c.transcript = transcript
		}
	}
}

// WithEventEmitter registers the sink for session lifecycle events and
// operator-visible warnings.
func WithEventEmitter(emit func(events.Event)) ControllerOption {
	return func(c *Controller) {
		if emit != nil {
			c.emit = emit
		}
	}
}
