// Package ollama provides the local-endpoint model provider backed by an
// Ollama server's chat API.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/ollama/ollama/api"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// DefaultEndpoint is the Ollama server address used when the config carries
// no endpoint override.
const DefaultEndpoint = "http://localhost:11434"

// Options configure the Ollama provider.
type Options struct {
	Logger logging.Logger
	// HTTPClient used for the api.Client; defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Provider implements core.ModelProvider against a local Ollama server.
// Requests are issued non-streaming; the token bound maps to Ollama's
// num_predict option.
type Provider struct {
	logger     logging.Logger
	httpClient *http.Client
}

var _ core.ModelProvider = (*Provider)(nil)

// New creates the Ollama provider.
func New(optFns ...func(o *Options)) *Provider {
	opts := Options{Logger: logging.NoOpLogger{}, HTTPClient: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{logger: opts.Logger, httpClient: opts.HTTPClient}
}

// Name implements core.ModelProvider.
func (p *Provider) Name() string { return "ollama" }

// ExecuteChat implements core.ModelProvider. Transport and parsing failures
// degrade to an "Error: " turn; only context cancellation returns an error.
func (p *Provider) ExecuteChat(ctx context.Context, cfg core.AgentConfig, messages []core.ConversationMessage, tools []core.ToolDefinition) (core.Turn, error) {
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return core.ErrorTurn(fmt.Errorf("invalid ollama endpoint: %w", err)), nil
	}
	client := api.NewClient(parsed, p.httpClient)

	stream := false
	req := &api.ChatRequest{
		Model:    cfg.ModelName,
		Messages: buildMessages(messages),
		Stream:   &stream,
		Tools:    buildTools(tools),
		Options: map[string]any{
			"temperature": cfg.Temperature,
			"num_predict": cfg.MaxTokens,
		},
	}

	var turn core.Turn
	err = client.Chat(ctx, req, func(resp api.ChatResponse) error {
		turn.Text += resp.Message.Content
		for _, tc := range resp.Message.ToolCalls {
			args := "{}"
			if raw, err := json.Marshal(tc.Function.Arguments); err == nil {
				args = string(raw)
			}
			// Ollama supplies no call id; mint one for correlation.
			turn.Calls = append(turn.Calls, core.ProposedCall{
				ID:        uuid.NewString(),
				Name:      tc.Function.Name,
				Arguments: args,
			})
		}
		if resp.Done && (resp.Metrics.PromptEvalCount > 0 || resp.Metrics.EvalCount > 0) {
			turn.Usage = &core.TokenUsage{
				PromptTokens:     resp.Metrics.PromptEvalCount,
				CompletionTokens: resp.Metrics.EvalCount,
				TotalTokens:      resp.Metrics.PromptEvalCount + resp.Metrics.EvalCount,
			}
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return core.Turn{}, ctx.Err()
		}
		p.logger.Error("provider.ollama.call_failed", "model", cfg.ModelName, "error", err.Error())
		return core.ErrorTurn(fmt.Errorf("ollama api error: %w", err)), nil
	}
	return turn, nil
}

// buildMessages reduces the history to Ollama's {role, content} messages.
func buildMessages(messages []core.ConversationMessage) []api.Message {
	out := make([]api.Message, len(messages))
	for i, m := range messages {
		out[i] = api.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// buildTools converts registry definitions to Ollama's typed tool format by
// decoding the opaque schema text directly into the parameter struct.
func buildTools(tools []core.ToolDefinition) []api.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]api.Tool, 0, len(tools))
	for _, t := range tools {
		fn := api.ToolFunction{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.ParametersSchema != "" {
			// Malformed schema text leaves the parameters empty rather
			// than failing the request.
			_ = json.Unmarshal([]byte(t.ParametersSchema), &fn.Parameters)
		}
		out = append(out, api.Tool{Type: "function", Function: fn})
	}
	return out
}
