package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/agentcore/core"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationStore = (*InMemory)(nil)

func TestInMemory_StoreAndGet(t *testing.T) {
	s := NewInMemory()
	history := []core.ConversationMessage{
		core.NewMessage(core.RoleSystem, "You are helpful."),
		core.NewMessage(core.RoleUser, "Hi"),
	}

	s.Store("agent-1", "conv-1", history)

	got := s.Get("agent-1", "conv-1")
	assert.Len(t, got, 2)
	assert.Equal(t, "You are helpful.", got[0].Content)
	assert.Equal(t, core.RoleUser, got[1].Role)
}

func TestInMemory_GetAbsentKeyReturnsEmpty(t *testing.T) {
	s := NewInMemory()
	got := s.Get("nobody", "nothing")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInMemory_StoreReplacesHistory(t *testing.T) {
	s := NewInMemory()
	s.Store("a", "c", []core.ConversationMessage{core.NewMessage(core.RoleUser, "one")})
	s.Store("a", "c", []core.ConversationMessage{core.NewMessage(core.RoleUser, "two")})

	got := s.Get("a", "c")
	assert.Len(t, got, 1)
	assert.Equal(t, "two", got[0].Content)
}

func TestInMemory_AgentsDoNotShareConversations(t *testing.T) {
	s := NewInMemory()
	s.Store("agent-a", "shared", []core.ConversationMessage{core.NewMessage(core.RoleUser, "from a")})
	s.Store("agent-b", "shared", []core.ConversationMessage{core.NewMessage(core.RoleUser, "from b")})

	assert.Equal(t, "from a", s.Get("agent-a", "shared")[0].Content)
	assert.Equal(t, "from b", s.Get("agent-b", "shared")[0].Content)
}

func TestInMemory_ClearIsIdempotent(t *testing.T) {
	s := NewInMemory()
	s.Store("a", "c", []core.ConversationMessage{core.NewMessage(core.RoleUser, "hello")})

	s.Clear("a", "c")
	assert.Empty(t, s.Get("a", "c"))

	// Clearing an absent key must not fault.
	s.Clear("a", "c")
	s.Clear("never", "seen")
}

func TestInMemory_ReturnedHistoryIsIndependentCopy(t *testing.T) {
	s := NewInMemory()
	original := []core.ConversationMessage{core.NewMessage(core.RoleUser, "immutable")}
	s.Store("a", "c", original)

	// Mutating the caller's slice must not affect the stored value.
	original[0].Content = "mutated"
	assert.Equal(t, "immutable", s.Get("a", "c")[0].Content)

	// Mutating a returned copy must not affect later reads.
	first := s.Get("a", "c")
	first[0].Content = "mutated again"
	assert.Equal(t, "immutable", s.Get("a", "c")[0].Content)
}

func TestInMemory_ConcurrentDistinctKeys(t *testing.T) {
	s := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conv := fmt.Sprintf("conv-%d", n)
			s.Store("agent", conv, []core.ConversationMessage{core.NewMessage(core.RoleUser, conv)})
			got := s.Get("agent", conv)
			assert.Len(t, got, 1)
			if n%2 == 0 {
				s.Clear("agent", conv)
			}
		}(i)
	}
	wg.Wait()
}
