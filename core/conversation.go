package core

// ConversationStore persists conversation histories keyed by the pair
// (agent id, conversation id). Identical conversation ids under different
// agents are distinct keys and must never merge.
//
// Implementations must be safe for concurrent access across keys, must make
// each operation atomic with respect to its key, and must exchange
// independent copies: a caller mutating a returned history can never corrupt
// the stored value or another caller's copy.
type ConversationStore interface {
	// Store replaces the full history for the key. Callers own merge
	// semantics; concurrent writers to the same key race last-write-wins.
	Store(agentID, conversationID string, messages []ConversationMessage)
	// Get returns the history for the key, or an empty slice when absent.
	Get(agentID, conversationID string) []ConversationMessage
	// Clear removes the key. Clearing an absent key is a no-op.
	Clear(agentID, conversationID string)
}
