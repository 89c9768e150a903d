package registry

import (
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// InMemory is a volatile core.ToolRegistry backed by a process-local map.
// It is safe for concurrent register/read from independent orchestration
// runs. Definitions are value types, so lookups hand out copies.
type InMemory struct {
	mu    sync.RWMutex
	tools map[string]core.ToolDefinition
}

// NewInMemory constructs an empty in-memory tool registry.
func NewInMemory() *InMemory {
	return &InMemory{tools: make(map[string]core.ToolDefinition)}
}

// Register inserts or replaces a definition keyed by its id.
func (r *InMemory) Register(tool core.ToolDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.ID] = tool
}

// Get returns the definition for the id; ok is false when absent.
func (r *InMemory) Get(id string) (core.ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[id]
	return tool, ok
}

// GetAll returns all registered definitions. Iteration order follows map
// order and is not guaranteed.
func (r *InMemory) GetAll() []core.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]core.ToolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// GetMany resolves the given ids, silently dropping unknown ones.
func (r *InMemory) GetMany(ids []string) []core.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]core.ToolDefinition, 0, len(ids))
	for _, id := range ids {
		if tool, ok := r.tools[id]; ok {
			tools = append(tools, tool)
		}
	}
	return tools
}
