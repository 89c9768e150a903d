package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/agentcore/core"
)

// Interface compliance (compile-time assertion)
var _ core.ToolRegistry = (*InMemory)(nil)

func TestInMemory_RegisterAndGet(t *testing.T) {
	r := NewInMemory()
	r.Register(core.ToolDefinition{ID: "t1", Name: "weather", Kind: core.ToolKindCustom})

	tool, ok := r.Get("t1")
	assert.True(t, ok)
	assert.Equal(t, "weather", tool.Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestInMemory_RegisterReplacesByID(t *testing.T) {
	r := NewInMemory()
	r.Register(core.ToolDefinition{ID: "t1", Name: "first"})
	r.Register(core.ToolDefinition{ID: "t1", Name: "second"})

	tool, ok := r.Get("t1")
	assert.True(t, ok)
	assert.Equal(t, "second", tool.Name)
	assert.Len(t, r.GetAll(), 1)
}

func TestInMemory_GetManyDropsUnknownIDs(t *testing.T) {
	r := NewInMemory()
	r.Register(core.ToolDefinition{ID: "t1", Name: "weather"})
	r.Register(core.ToolDefinition{ID: "t2", Name: "search"})

	tools := r.GetMany([]string{"t1", "missing", "t2"})
	assert.Len(t, tools, 2)

	names := []string{tools[0].Name, tools[1].Name}
	assert.ElementsMatch(t, []string{"weather", "search"}, names)
}

func TestInMemory_GetManyEmpty(t *testing.T) {
	r := NewInMemory()
	assert.Empty(t, r.GetMany(nil))
	assert.Empty(t, r.GetMany([]string{"nope"}))
}

func TestInMemory_ConcurrentAccess(t *testing.T) {
	r := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Register(core.ToolDefinition{ID: fmt.Sprintf("t%d", n), Name: "tool"})
		}(i)
		go func(n int) {
			defer wg.Done()
			r.Get(fmt.Sprintf("t%d", n))
			r.GetAll()
		}(i)
	}
	wg.Wait()
	assert.Len(t, r.GetAll(), 16)
}
