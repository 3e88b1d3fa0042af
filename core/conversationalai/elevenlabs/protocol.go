package elevenlabs

// Server event payloads for the Conversational AI websocket. Only the events
// this client reacts to are modelled; anything else is ignored on read.

const (
	eventConversationInitiationMetadata = "conversation_initiation_metadata"
	eventUserTranscript                 = "user_transcript"
	eventAgentResponse                  = "agent_response"
	eventAgentResponseCorrection        = "agent_response_correction"
	eventAudio                          = "audio"
	eventInterruption                   = "interruption"
	eventPing                           = "ping"
	eventClientToolCall                 = "client_tool_call"
)

type serverEvent struct {
	Type string `json:"type"`

	ConversationInitiationMetadataEvent *conversationInitiationMetadataEvent `json:"conversation_initiation_metadata_event,omitempty"`
	UserTranscriptionEvent              *userTranscriptionEvent              `json:"user_transcription_event,omitempty"`
	AgentResponseEvent                  *agentResponseEvent                  `json:"agent_response_event,omitempty"`
	AgentResponseCorrectionEvent        *agentResponseCorrectionEvent        `json:"agent_response_correction_event,omitempty"`
	AudioEvent                          *audioEvent                          `json:"audio_event,omitempty"`
	PingEvent                           *pingEvent                           `json:"ping_event,omitempty"`
	ClientToolCall                      *clientToolCall                      `json:"client_tool_call,omitempty"`
}

type conversationInitiationMetadataEvent struct {
	ConversationID         string `json:"conversation_id"`
	AgentOutputAudioFormat string `json:"agent_output_audio_format"`
	UserInputAudioFormat   string `json:"user_input_audio_format"`
}

type userTranscriptionEvent struct {
	UserTranscript string `json:"user_transcript"`
}

type agentResponseEvent struct {
	AgentResponse string `json:"agent_response"`
}

type agentResponseCorrectionEvent struct {
	OriginalAgentResponse  string `json:"original_agent_response"`
	CorrectedAgentResponse string `json:"corrected_agent_response"`
}

type audioEvent struct {
	AudioBase64 string `json:"audio_base_64"`
	EventID     int    `json:"event_id"`
}

type pingEvent struct {
	EventID int `json:"event_id"`
	PingMs  int `json:"ping_ms"`
}

type clientToolCall struct {
	ToolName   string         `json:"tool_name"`
	ToolCallID string         `json:"tool_call_id"`
	Parameters map[string]any `json:"parameters"`
}

// Client → server payloads.

type pongMessage struct {
	Type    string `json:"type"`
	EventID int    `json:"event_id"`
}

type userAudioChunk struct {
	UserAudioChunk string `json:"user_audio_chunk"`
}

type clientToolResult struct {
	Type       string `json:"type"`
	ToolCallID string `json:"tool_call_id"`
	Result     any    `json:"result"`
	IsError    bool   `json:"is_error"`
}

type conversationInitiationClientData struct {
	Type        string           `json:"type"`
	ClientTools []toolDefinition `json:"client_tools,omitempty"`
}
