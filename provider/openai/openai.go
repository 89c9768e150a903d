// Package openai provides the hosted-API model provider backed by the
// OpenAI Chat Completions API. Any OpenAI-compatible endpoint can be
// targeted through the config's endpoint override, so the same variant
// serves gateways like OpenRouter or LM Studio.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// Options configure the OpenAI provider.
type Options struct {
	Logger logging.Logger
}

// Provider implements core.ModelProvider against the Chat Completions API.
// The SDK client is built per call because endpoint and credential arrive
// with each AgentConfig.
type Provider struct {
	logger logging.Logger
}

var _ core.ModelProvider = (*Provider)(nil)

// New creates the OpenAI provider.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{logger: opts.Logger}
}

// Name implements core.ModelProvider.
func (p *Provider) Name() string { return "openai" }

// ExecuteChat implements core.ModelProvider. Transport and parsing failures
// degrade to an "Error: " turn; only context cancellation returns an error.
func (p *Provider) ExecuteChat(ctx context.Context, cfg core.AgentConfig, messages []core.ConversationMessage, tools []core.ToolDefinition) (core.Turn, error) {
	var clientOpts []option.RequestOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.APIEndpoint != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.APIEndpoint))
	}
	client := openai.NewClient(clientOpts...)

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(cfg.ModelName),
		Messages:            buildMessages(messages),
		Temperature:         openai.Float(cfg.Temperature),
		MaxCompletionTokens: openai.Int(int64(cfg.MaxTokens)),
	}
	if len(tools) > 0 {
		params.Tools = buildTools(tools)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return core.Turn{}, ctx.Err()
		}
		p.logger.Error("provider.openai.call_failed", "model", cfg.ModelName, "error", err.Error())
		return core.ErrorTurn(fmt.Errorf("openai api error: %w", err)), nil
	}

	// An empty choice list is a degenerate answer, not a failure.
	if len(resp.Choices) == 0 {
		return core.Turn{}, nil
	}

	msg := resp.Choices[0].Message
	turn := core.Turn{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		turn.Calls = append(turn.Calls, core.ProposedCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	if resp.Usage.TotalTokens > 0 {
		turn.Usage = &core.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}
	return turn, nil
}

// buildMessages reduces the conversation history to the SDK's {role, content}
// message union. Tool results keep their call correlation id.
func buildMessages(messages []core.ConversationMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		case core.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// buildTools converts registry definitions into function-tool declarations,
// passing the opaque parameter schema through unchanged.
func buildTools(tools []core.ToolDefinition) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  openai.FunctionParameters(parseSchema(t.ParametersSchema)),
			},
		}
	}
	return out
}

// parseSchema decodes the opaque schema text, falling back to a permissive
// object schema when absent or malformed.
func parseSchema(schema string) map[string]any {
	if schema != "" {
		var m map[string]any
		if err := json.Unmarshal([]byte(schema), &m); err == nil {
			return m
		}
	}
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
