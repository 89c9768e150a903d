package core

// AgentResponse is the aggregate result of one orchestration run. A failed
// run has the same shape as a successful one; callers must check Success
// rather than rely on the presence of a value.
type AgentResponse struct {
	// Response is the final assistant text.
	Response string `json:"response"`
	// ToolCalls lists the tool invocations made during the run, in order.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ConversationHistory is the full post-run history (post-trim,
	// post-append), an independent copy owned by the caller.
	ConversationHistory []ConversationMessage `json:"conversation_history"`
	// Iterations is the number of provider invocations consumed.
	Iterations int `json:"iterations"`
	// TotalTokens sums provider-reported usage across iterations; nil when
	// no provider turn reported usage.
	TotalTokens *int `json:"total_tokens,omitempty"`
	// Success is false when the run terminated on an unrecoverable
	// condition; Error then carries the human-readable cause.
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
