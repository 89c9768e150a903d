package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/conversation"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/executor"
	"github.com/hupe1980/agentcore/provider"
	"github.com/hupe1980/agentcore/registry"
)

type fixture struct {
	mock      *provider.Mock
	registry  *registry.InMemory
	store     *conversation.InMemory
	exec      *Executor
	dispatch  *executor.Dispatcher
	providers *provider.Registry
}

func newFixture(optFns ...func(o *Options)) *fixture {
	mock := provider.NewMock("mock")
	providers := provider.NewRegistry(mock)
	reg := registry.NewInMemory()
	store := conversation.NewInMemory()
	dispatch := executor.NewDispatcher()

	return &fixture{
		mock:      mock,
		registry:  reg,
		store:     store,
		dispatch:  dispatch,
		providers: providers,
		exec:      NewExecutor(providers, reg, dispatch, store, optFns...),
	}
}

func baseConfig() core.AgentConfig {
	return core.AgentConfig{
		ID:              "agent-1",
		Name:            "Test Agent",
		SystemPrompt:    "You are helpful.",
		ModelProvider:   "mock",
		ModelName:       "test-model",
		Temperature:     0.7,
		MaxTokens:       512,
		PersistHistory:  true,
		MaxHistoryTurns: 10,
	}
}

func TestExecutor_UnknownProviderFailsWithoutStoreMutation(t *testing.T) {
	f := newFixture()
	cfg := baseConfig()
	cfg.ModelProvider = "Unknown"

	resp := f.exec.Execute(context.Background(), cfg, "Hi", "conv-1")

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not found")
	assert.Empty(t, f.store.Get("agent-1", "conv-1"))
}

func TestExecutor_SimpleRunSeedsAndPersists(t *testing.T) {
	f := newFixture()
	f.mock.EnqueueText("Hello there!")

	resp := f.exec.Execute(context.Background(), baseConfig(), "Hi", "conv-1")

	require.True(t, resp.Success)
	assert.Equal(t, "Hello there!", resp.Response)
	assert.Equal(t, 1, resp.Iterations)

	require.Len(t, resp.ConversationHistory, 3)
	assert.Equal(t, core.RoleSystem, resp.ConversationHistory[0].Role)
	assert.Equal(t, "You are helpful.", resp.ConversationHistory[0].Content)
	assert.Equal(t, core.RoleUser, resp.ConversationHistory[1].Role)
	assert.Equal(t, "Hi", resp.ConversationHistory[1].Content)
	assert.Equal(t, core.RoleAssistant, resp.ConversationHistory[2].Role)

	stored := f.store.Get("agent-1", "conv-1")
	require.Len(t, stored, 3)
	assert.Equal(t, resp.ConversationHistory, stored)
}

func TestExecutor_GeneratesConversationIDWhenAbsent(t *testing.T) {
	f := newFixture()
	f.mock.EnqueueText("ok")

	resp := f.exec.Execute(context.Background(), baseConfig(), "Hi", "")
	assert.True(t, resp.Success)
	assert.Len(t, resp.ConversationHistory, 3)
}

func TestExecutor_SystemPromptSeededAtMostOnce(t *testing.T) {
	f := newFixture()
	f.mock.EnqueueText("first").EnqueueText("second")
	cfg := baseConfig()

	f.exec.Execute(context.Background(), cfg, "one", "conv-1")
	resp := f.exec.Execute(context.Background(), cfg, "two", "conv-1")

	require.True(t, resp.Success)
	systems := 0
	for _, m := range resp.ConversationHistory {
		if m.Role == core.RoleSystem {
			systems++
		}
	}
	assert.Equal(t, 1, systems)
	assert.Equal(t, core.RoleSystem, resp.ConversationHistory[0].Role)
}

func TestExecutor_NoPersistenceIsolatesRuns(t *testing.T) {
	f := newFixture()
	f.mock.EnqueueText("first").EnqueueText("second")
	cfg := baseConfig()
	cfg.PersistHistory = false

	f.exec.Execute(context.Background(), cfg, "one", "conv-1")
	resp := f.exec.Execute(context.Background(), cfg, "two", "conv-1")

	require.True(t, resp.Success)
	// Second run must not see the first run's turns.
	require.Len(t, resp.ConversationHistory, 3)
	assert.Equal(t, "two", resp.ConversationHistory[1].Content)
	assert.Empty(t, f.store.Get("agent-1", "conv-1"))
}

func TestExecutor_TrimsHistoryToMostRecentTurns(t *testing.T) {
	f := newFixture()
	cfg := baseConfig()
	cfg.MaxHistoryTurns = 2

	prior := make([]core.ConversationMessage, 0, 10)
	for i := 0; i < 10; i++ {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		prior = append(prior, core.NewMessage(role, string(rune('a'+i))))
	}
	f.store.Store("agent-1", "conv-1", prior)
	f.mock.EnqueueText("done")

	resp := f.exec.Execute(context.Background(), cfg, "latest", "conv-1")
	require.True(t, resp.Success)

	// 4 retained (2*2, most recent, order preserved) + system + user + assistant.
	require.Len(t, resp.ConversationHistory, 7)
	assert.Equal(t, "g", resp.ConversationHistory[1].Content)
	assert.Equal(t, "h", resp.ConversationHistory[2].Content)
	assert.Equal(t, "i", resp.ConversationHistory[3].Content)
	assert.Equal(t, "j", resp.ConversationHistory[4].Content)
}

func TestExecutor_ToolCallCycle(t *testing.T) {
	f := newFixture()
	f.registry.Register(core.ToolDefinition{ID: "t1", Name: "weather", Kind: core.ToolKindCustom})
	f.dispatch.RegisterHandler("weather", func(_ context.Context, args map[string]any) (string, error) {
		return "sunny", nil
	})

	f.mock.Enqueue(core.Turn{
		Text:  "Let me check.",
		Calls: []core.ProposedCall{{ID: "call-1", Name: "weather", Arguments: `{"city":"Berlin"}`}},
	}).EnqueueText("It is sunny in Berlin.")

	cfg := baseConfig()
	cfg.ToolIDs = []string{"t1"}

	resp := f.exec.Execute(context.Background(), cfg, "Weather in Berlin?", "conv-1")

	require.True(t, resp.Success)
	assert.Equal(t, "It is sunny in Berlin.", resp.Response)
	assert.Equal(t, 2, resp.Iterations)

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "weather", resp.ToolCalls[0].ToolName)
	assert.Equal(t, "sunny", resp.ToolCalls[0].Result)

	// system, user, assistant(call), tool, assistant(final)
	require.Len(t, resp.ConversationHistory, 5)
	toolMsg := resp.ConversationHistory[3]
	assert.Equal(t, core.RoleTool, toolMsg.Role)
	assert.Equal(t, "weather", toolMsg.ToolName)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Equal(t, "sunny", toolMsg.Content)
}

func TestExecutor_ResolvesOnlyKnownToolIDs(t *testing.T) {
	f := newFixture()
	f.registry.Register(core.ToolDefinition{ID: "t1", Name: "weather", Kind: core.ToolKindCustom})
	f.mock.EnqueueText("ok")

	cfg := baseConfig()
	cfg.ToolIDs = []string{"t1", "missing"}

	resp := f.exec.Execute(context.Background(), cfg, "Hi", "conv-1")
	require.True(t, resp.Success)

	reqs := f.mock.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Tools, 1)
	assert.Equal(t, "weather", reqs[0].Tools[0].Name)
}

func TestExecutor_IterationBoundExhaustionKeepsLastText(t *testing.T) {
	f := newFixture(func(o *Options) { o.MaxIterations = 3 })
	f.registry.Register(core.ToolDefinition{ID: "t1", Name: "loop", Kind: core.ToolKindCustom})

	// Every turn proposes another call; the loop must stop at the bound.
	for i := 0; i < 10; i++ {
		f.mock.Enqueue(core.Turn{
			Text:  "thinking...",
			Calls: []core.ProposedCall{{ID: "c", Name: "loop", Arguments: "{}"}},
		})
	}

	cfg := baseConfig()
	cfg.ToolIDs = []string{"t1"}

	resp := f.exec.Execute(context.Background(), cfg, "go", "conv-1")

	require.True(t, resp.Success)
	assert.Equal(t, 3, resp.Iterations)
	assert.LessOrEqual(t, resp.Iterations, DefaultMaxIterations)
	assert.Equal(t, "thinking...", resp.Response)
	assert.Len(t, resp.ToolCalls, 3)
}

func TestExecutor_CallOutsideAllowlistDegrades(t *testing.T) {
	f := newFixture()
	f.mock.Enqueue(core.Turn{
		Calls: []core.ProposedCall{{ID: "c1", Name: "rogue", Arguments: "{}"}},
	}).EnqueueText("done")

	resp := f.exec.Execute(context.Background(), baseConfig(), "Hi", "conv-1")

	require.True(t, resp.Success)
	require.Len(t, resp.ToolCalls, 1)
	assert.Contains(t, resp.ToolCalls[0].Result, "not available")
}

func TestExecutor_TokenUsageSummedAcrossIterations(t *testing.T) {
	f := newFixture()
	f.registry.Register(core.ToolDefinition{ID: "t1", Name: "weather", Kind: core.ToolKindCustom})

	f.mock.Enqueue(core.Turn{
		Calls: []core.ProposedCall{{ID: "c1", Name: "weather", Arguments: "{}"}},
		Usage: &core.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}).Enqueue(core.Turn{
		Text:  "done",
		Usage: &core.TokenUsage{PromptTokens: 20, CompletionTokens: 7, TotalTokens: 27},
	})

	cfg := baseConfig()
	cfg.ToolIDs = []string{"t1"}

	resp := f.exec.Execute(context.Background(), cfg, "Hi", "conv-1")
	require.True(t, resp.Success)
	require.NotNil(t, resp.TotalTokens)
	assert.Equal(t, 42, *resp.TotalTokens)
}

func TestExecutor_NoUsageLeavesTotalTokensNil(t *testing.T) {
	f := newFixture()
	f.mock.EnqueueText("plain")

	resp := f.exec.Execute(context.Background(), baseConfig(), "Hi", "conv-1")
	require.True(t, resp.Success)
	assert.Nil(t, resp.TotalTokens)
}

func TestExecutor_CancelledRunFailsWithoutPersisting(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := f.exec.Execute(ctx, baseConfig(), "Hi", "conv-1")

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, f.store.Get("agent-1", "conv-1"))
}

func TestExecutor_ProviderErrorTurnBecomesHistory(t *testing.T) {
	f := newFixture()
	f.mock.Enqueue(core.Turn{Text: "Error: connection refused"})

	resp := f.exec.Execute(context.Background(), baseConfig(), "Hi", "conv-1")

	// A degraded provider turn is indistinguishable from a model answer.
	require.True(t, resp.Success)
	assert.Equal(t, "Error: connection refused", resp.Response)
	stored := f.store.Get("agent-1", "conv-1")
	require.Len(t, stored, 3)
	assert.Equal(t, "Error: connection refused", stored[2].Content)
}

func TestExecutor_ClearMidFlightLeavesOtherKeysIntact(t *testing.T) {
	f := newFixture()
	f.mock.EnqueueText("ok").EnqueueText("ok")
	cfg := baseConfig()

	f.exec.Execute(context.Background(), cfg, "one", "conv-a")
	f.exec.Execute(context.Background(), cfg, "two", "conv-b")

	f.store.Clear("agent-1", "conv-a")

	assert.Empty(t, f.store.Get("agent-1", "conv-a"))
	assert.NotEmpty(t, f.store.Get("agent-1", "conv-b"))
}
