package agentcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/provider"
)

func TestNew_DefaultProvidersRegistered(t *testing.T) {
	ac := New()

	cfg := core.AgentConfig{
		ID:            "agent-1",
		ModelProvider: "does-not-exist",
	}
	resp := ac.Execute(context.Background(), cfg, "Hi", "")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not found")
}

func TestAgentCore_EndToEndWithMockProvider(t *testing.T) {
	mock := provider.NewMock("mock")
	mock.Enqueue(core.Turn{
		Text:  "Checking.",
		Calls: []core.ProposedCall{{ID: "c1", Name: "echo", Arguments: `{"text":"hello"}`}},
	}).EnqueueText("The tool said: hello")

	ac := New(func(o *Options) {
		o.Providers = []core.ModelProvider{mock}
	})

	ac.RegisterTool(core.ToolDefinition{ID: "t-echo", Name: "echo", Kind: core.ToolKindCustom})
	ac.RegisterHandler("echo", func(_ context.Context, args map[string]any) (string, error) {
		text, _ := args["text"].(string)
		return text, nil
	})

	cfg := core.AgentConfig{
		ID:              "agent-1",
		ModelProvider:   "mock",
		SystemPrompt:    "Be brief.",
		ToolIDs:         []string{"t-echo"},
		PersistHistory:  true,
		MaxHistoryTurns: 5,
	}

	resp := ac.Execute(context.Background(), cfg, "Say hello via the tool", "conv-1")

	require.True(t, resp.Success)
	assert.Equal(t, "The tool said: hello", resp.Response)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "hello", resp.ToolCalls[0].Result)

	// Same conversation continues with stored history.
	mock.EnqueueText("You already asked that.")
	resp2 := ac.Execute(context.Background(), cfg, "Again please", "conv-1")
	require.True(t, resp2.Success)
	assert.Greater(t, len(resp2.ConversationHistory), len(resp.ConversationHistory))

	ac.ClearConversation("agent-1", "conv-1")
	mock.EnqueueText("Fresh start.")
	resp3 := ac.Execute(context.Background(), cfg, "Hello", "conv-1")
	require.True(t, resp3.Success)
	// system + user + assistant only after the clear.
	assert.Len(t, resp3.ConversationHistory, 3)
}

func TestAgentCore_RegisterProviderReplaces(t *testing.T) {
	first := provider.NewMock("shared")
	ac := New(func(o *Options) {
		o.Providers = []core.ModelProvider{first}
	})

	second := provider.NewMock("shared")
	second.EnqueueText("from the second provider")
	ac.RegisterProvider(second)

	cfg := core.AgentConfig{ID: "agent-1", ModelProvider: "shared"}
	resp := ac.Execute(context.Background(), cfg, "Hi", "")

	require.True(t, resp.Success)
	assert.Equal(t, "from the second provider", resp.Response)
	assert.Len(t, second.Requests(), 1)
	assert.Empty(t, first.Requests())
}
