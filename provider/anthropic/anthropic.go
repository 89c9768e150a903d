// Package anthropic provides the hosted-API model provider backed by the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// Options configure the Anthropic provider.
type Options struct {
	Logger logging.Logger
}

// Provider implements core.ModelProvider against the Messages API. The SDK
// client is built per call because endpoint and credential arrive with each
// AgentConfig.
type Provider struct {
	logger logging.Logger
}

var _ core.ModelProvider = (*Provider)(nil)

// New creates the Anthropic provider.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{logger: opts.Logger}
}

// Name implements core.ModelProvider.
func (p *Provider) Name() string { return "anthropic" }

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
	client := anthropic.NewClient(clientOpts...)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.ModelName),
		MaxTokens:   int64(cfg.MaxTokens),
		Temperature: anthropic.Float(cfg.Temperature),
		Messages:    buildMessages(messages),
	}
	if system := extractSystem(messages); len(system) > 0 {
		params.System = system
	}
	if len(tools) > 0 {
		params.Tools = buildTools(tools)
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return core.Turn{}, ctx.Err()
		}
		p.logger.Error("provider.anthropic.call_failed", "model", cfg.ModelName, "error", err.Error())
		return core.ErrorTurn(fmt.Errorf("anthropic api error: %w", err)), nil
	}

	var turn core.Turn
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			turn.Text += block.AsText().Text
		case "tool_use":
			toolBlock := block.AsToolUse()
			args := ""
			if toolBlock.Input != nil {
				if raw, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(raw)
				}
			}
			turn.Calls = append(turn.Calls, core.ProposedCall{
				ID:        toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: args,
			})
		}
	}
	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		turn.Usage = &core.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		}
	}
	return turn, nil
}

// buildMessages reduces the history to alternating user/assistant params.
// System turns are handled separately; tool results become user turns since
// the reduced {role, content} history carries no tool_use blocks for the
// API to pair a tool_result against.
func buildMessages(messages []core.ConversationMessage) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			if m.Content != "" {
				out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			}
		case core.RoleTool:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("[%s result] %s", m.ToolName, m.Content))))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}

// extractSystem collects system-role turns into system blocks.
func extractSystem(messages []core.ConversationMessage) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, m := range messages {
		if m.Role == core.RoleSystem && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// buildTools converts registry definitions to the Messages API tool format.
func buildTools(tools []core.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}

		var schema map[string]any
		if t.ParametersSchema != "" {
			if err := json.Unmarshal([]byte(t.ParametersSchema), &schema); err == nil {
				if properties, ok := schema["properties"]; ok {
					inputSchema.Properties = properties
				}
				inputSchema.Required = requiredStrings(schema["required"])
			}
		}

		out[i] = anthropic.ToolUnionParamOfTool(inputSchema, t.Name)
	}
	return out
}

// requiredStrings normalizes the decoded "required" entry, which arrives as
// []any from JSON.
func requiredStrings(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, item := range req {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
