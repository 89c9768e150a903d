package provider

import (
	"context"
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// MockRequest captures one ExecuteChat invocation received by a Mock.
type MockRequest struct {
	Config   core.AgentConfig
	Messages []core.ConversationMessage
	Tools    []core.ToolDefinition
}

// Mock is a scripted in-memory ModelProvider useful for tests and examples.
// Queued turns are returned in order; once the queue is exhausted every call
// yields a canned text turn. Mock records the requests it receives so tests
// can assert on the history and tools the orchestrator passed in.
type Mock struct {
	mu       sync.Mutex
	name     string
	turns    []core.Turn
	fallback string
	requests []MockRequest
}

// NewMock constructs a mock provider with the given selection name.
func NewMock(name string) *Mock {
	return &Mock{name: name, fallback: "mock response"}
}

// Enqueue appends turns to the scripted queue.
func (m *Mock) Enqueue(turns ...core.Turn) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turns...)
	return m
}

// EnqueueText appends a plain-text turn to the scripted queue.
func (m *Mock) EnqueueText(text string) *Mock {
	return m.Enqueue(core.Turn{Text: text})
}

// Requests returns the recorded invocations.
func (m *Mock) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Name implements core.ModelProvider.
func (m *Mock) Name() string { return m.name }

// ExecuteChat implements core.ModelProvider. It honors context cancellation
// like a real transport would.
func (m *Mock) ExecuteChat(ctx context.Context, cfg core.AgentConfig, messages []core.ConversationMessage, tools []core.ToolDefinition) (core.Turn, error) {
	if err := ctx.Err(); err != nil {
		return core.Turn{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, MockRequest{
		Config:   cfg,
		Messages: core.CloneMessages(messages),
		Tools:    append([]core.ToolDefinition(nil), tools...),
	})

	if len(m.turns) == 0 {
		return core.Turn{Text: m.fallback}, nil
	}
	turn := m.turns[0]
	m.turns = m.turns[1:]
	return turn, nil
}
