package core

import "time"

// Message roles. A conversation history is a linear, append-ordered sequence
// of messages carrying one of these roles; the sequence is fed to the model
// provider verbatim.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ConversationMessage is a single turn in a conversation. ToolName and
// ToolCallID are populated only on tool-role messages, correlating a tool
// result with the call that produced it.
type ConversationMessage struct {
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	ToolName   string    `json:"tool_name,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMessage creates a message with the given role and content, stamped with
// the current UTC time.
func NewMessage(role, content string) ConversationMessage {
	return ConversationMessage{Role: role, Content: content, Timestamp: time.Now().UTC()}
}

// NewToolMessage creates a tool-role message carrying a tool result together
// with the originating tool name and call correlation id.
func NewToolMessage(toolName, callID, result string) ConversationMessage {
	return ConversationMessage{
		Role:       RoleTool,
		Content:    result,
		ToolName:   toolName,
		ToolCallID: callID,
		Timestamp:  time.Now().UTC(),
	}
}

// CloneMessages returns an independent copy of a message slice. Messages are
// value types, so a slice copy is a deep copy.
func CloneMessages(messages []ConversationMessage) []ConversationMessage {
	cloned := make([]ConversationMessage, len(messages))
	copy(cloned, messages)
	return cloned
}
