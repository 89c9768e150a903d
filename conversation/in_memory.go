package conversation

import (
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// key pairs agent and conversation identity. A struct key keeps histories
// for different agents apart even when their conversation ids collide,
// with no separator-escaping concerns.
type key struct {
	agentID        string
	conversationID string
}

// InMemory is a volatile core.ConversationStore holding histories in a
// process-local map. It is safe for concurrent access and hands out
// independent copies on both read and write, so a caller mutating its
// working history can never corrupt the stored value.
type InMemory struct {
	mu            sync.RWMutex
	conversations map[key][]core.ConversationMessage
}

// NewInMemory constructs an empty in-memory conversation store.
func NewInMemory() *InMemory {
	return &InMemory{conversations: make(map[key][]core.ConversationMessage)}
}

// Store replaces the full history for (agentID, conversationID) with a copy
// of messages.
func (s *InMemory) Store(agentID, conversationID string, messages []core.ConversationMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[key{agentID, conversationID}] = core.CloneMessages(messages)
}

// Get returns a copy of the history for (agentID, conversationID), or an
// empty slice when the key is absent.
func (s *InMemory) Get(agentID, conversationID string) []core.ConversationMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if messages, ok := s.conversations[key{agentID, conversationID}]; ok {
		return core.CloneMessages(messages)
	}
	return []core.ConversationMessage{}
}

// Clear removes the history for (agentID, conversationID). Clearing an
// absent key is a no-op.
func (s *InMemory) Clear(agentID, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, key{agentID, conversationID})
}
