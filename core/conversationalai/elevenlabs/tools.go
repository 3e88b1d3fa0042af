package elevenlabs

import (
	"context"
	"fmt"

	"github.com/interviewkit/jordan/core/conversationalai"
	"github.com/invopop/jsonschema"
)

type toolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type clientToolRegistry struct {
	tools map[string]conversationalai.ClientTool
}

func newClientToolRegistry(tools []conversationalai.ClientTool) *clientToolRegistry {
	registry := &clientToolRegistry{tools: map[string]conversationalai.ClientTool{}}
	for _, tool := range tools {
		registry.tools[tool.Name] = tool
	}
	return registry
}

// Definitions describes the registered tools to the provider, reflecting
// each tool's example parameter value into an inline JSON schema.
func (r *clientToolRegistry) Definitions() []toolDefinition {
	if len(r.tools) == 0 {
		return nil
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	definitions := make([]toolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		definition := toolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
		}
		if tool.Parameters != nil {
			schema := reflector.Reflect(tool.Parameters)
			schema.Version = ""
			definition.Parameters = schema
		}
		definitions = append(definitions, definition)
	}
	return definitions
}

// Dispatch runs the named tool and packages its outcome as the result
// payload the provider expects. Unknown tools and handler failures are
// reported back as tool errors, never as a dropped call.
func (r *clientToolRegistry) Dispatch(ctx context.Context, call clientToolCall) clientToolResult {
	result := clientToolResult{
		Type:       "client_tool_result",
		ToolCallID: call.ToolCallID,
	}

	tool, ok := r.tools[call.ToolName]
	if !ok || tool.Handler == nil {
		result.IsError = true
		result.Result = fmt.Sprintf("unknown client tool: %s", call.ToolName)
		return result
	}

	value, err := runToolHandler(ctx, tool, call.Parameters)
	if err != nil {
		result.IsError = true
		result.Result = err.Error()
		return result
	}

	result.Result = value
	return result
}

func runToolHandler(ctx context.Context, tool conversationalai.ClientTool, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("client tool %s panicked: %v", tool.Name, r)
		}
	}()

	return tool.Handler(ctx, args)
}
