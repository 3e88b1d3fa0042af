package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/interviewkit/jordan/core/conversationalai"
)

type notetakerParams struct {
	Topic string `json:"topic" jsonschema:"title=Topic,description=Subject the note is about"`
	Body  string `json:"body" jsonschema:"title=Body"`
}

func TestClientToolRegistryDispatchesRegisteredTool(t *testing.T) {
	calls := []map[string]any{}
	registry := newClientToolRegistry([]conversationalai.ClientTool{{
		Name: "take_note",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			calls = append(calls, args)
			return "noted", nil
		},
	}})

	result := registry.Dispatch(context.Background(), clientToolCall{
		ToolName:   "take_note",
		ToolCallID: "call_1",
		Parameters: map[string]any{"topic": "availability"},
	})

	if len(calls) != 1 || calls[0]["topic"] != "availability" {
		t.Fatalf("expected handler invoked with parameters, got %v", calls)
	}
	if result.IsError || result.Result != "noted" || result.ToolCallID != "call_1" {
		t.Fatalf("expected successful tool result, got %+v", result)
	}
}

func TestClientToolRegistryReportsUnknownToolAndHandlerFailure(t *testing.T) {
	registry := newClientToolRegistry([]conversationalai.ClientTool{{
		Name: "take_note",
		Handler: func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("notebook unavailable")
		},
	}})

	unknown := registry.Dispatch(context.Background(), clientToolCall{ToolName: "no_such_tool", ToolCallID: "call_2"})
	if !unknown.IsError {
		t.Fatalf("expected unknown tool to be reported as an error, got %+v", unknown)
	}

	failed := registry.Dispatch(context.Background(), clientToolCall{ToolName: "take_note", ToolCallID: "call_3"})
	if !failed.IsError || failed.Result != "notebook unavailable" {
		t.Fatalf("expected handler failure surfaced in result, got %+v", failed)
	}
}

func TestClientToolRegistryRecoversPanickingHandler(t *testing.T) {
	registry := newClientToolRegistry([]conversationalai.ClientTool{{
		Name: "take_note",
		Handler: func(context.Context, map[string]any) (any, error) {
			panic("nil notebook")
		},
	}})

	result := registry.Dispatch(context.Background(), clientToolCall{ToolName: "take_note", ToolCallID: "call_4"})
	if !result.IsError {
		t.Fatalf("expected panicking handler to be reported as a tool error, got %+v", result)
	}
}

func TestDefinitionsReflectParameterSchema(t *testing.T) {
	registry := newClientToolRegistry([]conversationalai.ClientTool{{
		Name:        "take_note",
		Description: "Record a note about the candidate",
		Parameters:  notetakerParams{},
	}})

	definitions := registry.Definitions()
	if len(definitions) != 1 {
		t.Fatalf("expected one tool definition, got %d", len(definitions))
	}

	encoded, err := json.Marshal(definitions[0])
	if err != nil {
		t.Fatalf("expected definition to marshal, got %v", err)
	}

	var decoded struct {
		Name       string `json:"name"`
		Parameters struct {
			Type       string                     `json:"type"`
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"parameters"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("expected definition to round-trip, got %v", err)
	}

	if decoded.Name != "take_note" {
		t.Fatalf("expected tool name preserved, got %q", decoded.Name)
	}
	if decoded.Parameters.Type != "object" {
		t.Fatalf("expected object parameter schema, got %q", decoded.Parameters.Type)
	}
	if _, ok := decoded.Parameters.Properties["topic"]; !ok {
		t.Fatalf("expected topic property in schema, got %v", decoded.Parameters.Properties)
	}
}

func TestDefinitionsEmptyWithoutTools(t *testing.T) {
	registry := newClientToolRegistry(nil)
	if definitions := registry.Definitions(); definitions != nil {
		t.Fatalf("expected no definitions without registered tools, got %v", definitions)
	}
}
