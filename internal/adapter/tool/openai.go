package tool

import (
	"context"

	"dom-snapshot/internal/application/port/input"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

func ToOpenAITool(def entity.ToolDefinition) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        def.Name.String(),
			Description: def.Description,
			Parameters:  def.Parameters,
		},
	}
}

// ToOpenAITools lists the registry as chat completion tools.
func ToOpenAITools(registry output.ToolRegistry) []openai.Tool {
	defs := registry.Definitions()
	result := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		result = append(result, ToOpenAITool(def))
	}
	return result
}

// ExecuteToolCall runs a tool call from a chat completion and answers with
// the tool message to append to the conversation.
func ExecuteToolCall(ctx context.Context, dispatcher input.ToolDispatcher, call openai.ToolCall) openai.ChatCompletionMessage {
	content := dispatcher.Observe(ctx, entity.ToolCall{
		ID:        call.ID,
		Name:      call.Function.Name,
		Arguments: call.Function.Arguments,
	})
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    content,
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	}
}
