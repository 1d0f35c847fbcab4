package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"mcp-gateway/internal/config"
	"mcp-gateway/internal/llm"
)

// Runner is the agent capability consumed by the query orchestrator: given
// a query and a step budget, produce a text answer or fail.
type Runner interface {
	Run(ctx context.Context, query string, maxSteps int) (string, error)
}

// ToolInvoker abstracts the MCP tool session the agent acts through.
type ToolInvoker interface {
	Tools() []llm.ToolDefinition
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Agent implements Runner with a think→act→observe loop over a single
// bound provider. Each Run is stateless; conversation continuity is the
// caller's concern.
type Agent struct {
	provider    llm.Provider
	tools       ToolInvoker // nil means no tool server is connected
	maxTokens   int
	temperature float64
}

// New creates an agent bound to one provider.
func New(provider llm.Provider, tools ToolInvoker, gen config.GenerationConfig) *Agent {
	return &Agent{
		provider:    provider,
		tools:       tools,
		maxTokens:   gen.MaxTokens,
		temperature: gen.Temperature,
	}
}

// Run executes the loop: send the query, invoke any requested tools, feed
// results back, and return the first tool-free reply. maxSteps bounds the
// number of LLM round-trips.
func (a *Agent) Run(ctx context.Context, query string, maxSteps int) (string, error) {
	if maxSteps <= 0 {
		maxSteps = 1
	}

	var tools []llm.ToolDefinition
	if a.tools != nil {
		tools = a.tools.Tools()
	}

	messages := []llm.Message{{Role: "user", Content: query}}

	for step := 1; ; step++ {
		resp, err := a.provider.Chat(ctx, &llm.ChatRequest{
			Messages:    messages,
			Tools:       tools,
			MaxTokens:   a.maxTokens,
			Temperature: a.temperature,
		})
		if err != nil {
			return "", fmt.Errorf("LLM error: %w", err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, nil
		}

		if step >= maxSteps {
			log.Warn("step budget exhausted", "provider", a.provider.Name(), "steps", step)
			if resp.Content != "" {
				return resp.Content, nil
			}
			return "I've reached the maximum number of steps for this request.", nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			result := a.invokeTool(ctx, tc)
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}
}

func (a *Agent) invokeTool(ctx context.Context, tc llm.ToolCall) string {
	if a.tools == nil {
		return fmt.Sprintf("Error: tool '%s' not available", tc.Name)
	}
	log.Debug("invoking tool", "tool", tc.Name)
	result, err := a.tools.Call(ctx, tc.Name, tc.Arguments)
	if err != nil {
		return "Error executing tool: " + err.Error()
	}
	return result
}
