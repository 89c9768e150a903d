package core

// AgentConfig is the caller-owned, per-invocation configuration of an agent.
// The orchestrator treats it as read-only.
type AgentConfig struct {
	// ID identifies the agent; it keys persisted conversation history and
	// must be stable across calls for the same agent.
	ID string `json:"id"`

	// Name is the display name of the agent.
	Name string `json:"name"`

	// SystemPrompt seeds new conversations as the first system-role message.
	SystemPrompt string `json:"system_prompt"`

	// ModelProvider selects the provider variant by name (case-insensitive),
	// e.g. "openai", "anthropic", "ollama".
	ModelProvider string `json:"model_provider"`

	// ModelName is the backend model identifier, e.g. "gpt-4o-mini".
	ModelName string `json:"model_name"`

	// APIEndpoint overrides the provider's default endpoint. Used for
	// OpenAI-compatible gateways and non-default Ollama hosts.
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// APIKey is attached as a bearer credential when set. Presence is not
	// validated here; the remote service enforces its own policy.
	APIKey string `json:"api_key,omitempty"`

	// Temperature in [0.0, 1.0]; advisory, providers clamp as needed.
	Temperature float64 `json:"temperature"`

	// MaxTokens bounds the response length.
	MaxTokens int `json:"max_tokens"`

	// ToolIDs lists the registry ids of the tools this agent may use.
	// Unknown ids are silently dropped at resolution time.
	ToolIDs []string `json:"tool_ids,omitempty"`

	// PersistHistory enables loading and storing conversation history.
	PersistHistory bool `json:"persist_history"`

	// MaxHistoryTurns caps retained history at 2*MaxHistoryTurns messages
	// (a turn is a user/assistant pair). Must be >= 0.
	MaxHistoryTurns int `json:"max_history_turns"`
}
