package core

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/CosmicDialog/internal/models"
)

// ToOpenAIToolCall converts an invocation to the OpenAI tool call shape.
// The arguments travel as a JSON object {"input": ...}.
func ToOpenAIToolCall(id string, inv models.ToolInvocation) openai.ToolCall {
	// A map of strings always marshals; invalid UTF-8 is coerced, not rejected
	args, _ := json.Marshal(map[string]string{"input": inv.Arguments})
	return openai.ToolCall{
		ID:   id,
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      inv.Name,
			Arguments: string(args),
		},
	}
}

// OpenAIHistory converts the transcript to OpenAI chat messages. Planner and
// executor messages become named system messages; pending placeholders are
// skipped.
func (cs *ChatService) OpenAIHistory() []openai.ChatCompletionMessage {
	return toOpenAIHistory(cs.state.GetMessages())
}

func toOpenAIHistory(messages []models.Message) []openai.ChatCompletionMessage {
	history := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Pending {
			continue
		}

		switch msg.Role {
		case models.User:
			history = append(history, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: msg.Content,
			})
		case models.Assistant:
			history = append(history, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Content,
			})
		default:
			history = append(history, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Name:    string(msg.Role),
				Content: msg.Content,
			})
		}
	}
	return history
}

// OpenAIToolCalls converts the tool log to OpenAI tool calls, oldest first
func (cs *ChatService) OpenAIToolCalls() []openai.ToolCall {
	logs := cs.state.GetLogs()
	calls := make([]openai.ToolCall, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		entry := logs[i]
		calls = append(calls, ToOpenAIToolCall(entry.ID, models.ToolInvocation{
			Name:      entry.Tool,
			Arguments: entry.Input,
		}))
	}
	return calls
}
