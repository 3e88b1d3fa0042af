package conversationalai

import "context"

type SessionOptions struct {
	UserTranscriptCallback          func(transcript string)
	AgentResponseCallback           func(response string)
	AgentResponseCorrectionCallback func(original, corrected string)
	LatencyMeasurementCallback      func(latencyMs int)

	ClientTools []ClientTool
}

type SessionOption func(*SessionOptions)

func WithUserTranscriptCallback(callback func(transcript string)) SessionOption {
	return func(o *SessionOptions) {
		o.UserTranscriptCallback = callback
	}
}

func WithAgentResponseCallback(callback func(response string)) SessionOption {
	return func(o *SessionOptions) {
		o.AgentResponseCallback = callback
	}
}

func WithAgentResponseCorrectionCallback(callback func(original, corrected string)) SessionOption {
	return func(o *SessionOptions) {
		o.AgentResponseCorrectionCallback = callback
	}
}

func WithLatencyMeasurementCallback(callback func(latencyMs int)) SessionOption {
	return func(o *SessionOptions) {
		o.LatencyMeasurementCallback = callback
	}
}

// ClientTool is a locally-executed tool the agent may call mid-conversation.
// Parameters is an example value whose type is reflected into a JSON schema
// when the tool is described to the provider.
type ClientTool struct {
	Name        string
	Description string
	Parameters  any
	Handler     func(ctx context.Context, args map[string]any) (any, error)
}

func WithClientTool(tool ClientTool) SessionOption {
	return func(o *SessionOptions) {
		o.ClientTools = append(o.ClientTools, tool)
	}
}
