package core

import "context"

// ProposedCall is one structured tool-call request surfaced by a provider.
// Arguments is the raw JSON argument payload exactly as the backend produced
// it. ID correlates the call with its tool-role result message; providers
// whose backend supplies no id mint one.
type ProposedCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// TokenUsage reports token consumption for a single provider turn when the
// backend makes it available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Turn is one assistant turn produced by a model provider. It is a tagged
// result: a non-empty Calls slice means the model requested tool executions;
// otherwise Text is the (possibly final) answer. The provider variant owns
// tool-call detection, so the orchestrator never re-parses opaque text.
type Turn struct {
	Text  string         `json:"text"`
	Calls []ProposedCall `json:"calls,omitempty"`
	Usage *TokenUsage    `json:"usage,omitempty"`
}

// HasCalls reports whether the turn encodes structured tool-call requests.
func (t Turn) HasCalls() bool { return len(t.Calls) > 0 }

// ModelProvider produces assistant turns from a configuration, an ordered
// message history (including the system turn) and the resolved tool
// definitions for the run.
//
// Error contract: ExecuteChat returns a non-nil error only when ctx is
// cancelled. Transport and parsing failures are folded into the turn as
// text prefixed "Error: " so the orchestration loop never distinguishes a
// failed call from a degenerate model answer. A missing reply field in the
// backend envelope yields empty text, not a failure.
type ModelProvider interface {
	// Name identifies the variant for case-insensitive selection by
	// AgentConfig.ModelProvider.
	Name() string

	ExecuteChat(ctx context.Context, cfg AgentConfig, messages []ConversationMessage, tools []ToolDefinition) (Turn, error)
}

// ErrorTurn builds the degraded turn used by providers to report a
// transport or parsing failure as assistant text.
func ErrorTurn(err error) Turn { return Turn{Text: "Error: " + err.Error()} }
