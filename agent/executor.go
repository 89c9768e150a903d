package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/provider"
)

// DefaultMaxIterations bounds provider invocations per run. The bound keeps
// a model that never stops requesting tools from burning unbounded cost and
// latency; it is a policy constant, not a protocol requirement.
const DefaultMaxIterations = 5

// Options holds configuration overrides passed to NewExecutor.
type Options struct {
	// MaxIterations overrides the per-run provider invocation bound.
	MaxIterations int
	// Logger receives run lifecycle logging.
	Logger logging.Logger
}

// Executor coordinates one agent run end to end: provider resolution,
// history load and trim, system-prompt seeding, the bounded tool-calling
// loop, persistence and response assembly. All collaborators are injected;
// an Executor holds no hidden global state and its methods are safe for
// concurrent use by independent runs.
type Executor struct {
	providers     *provider.Registry
	toolRegistry  core.ToolRegistry
	toolExecutor  core.ToolExecutor
	conversations core.ConversationStore

	maxIterations int
	logger        logging.Logger
}

// NewExecutor constructs an Executor from explicit collaborator handles.
func NewExecutor(
	providers *provider.Registry,
	toolRegistry core.ToolRegistry,
	toolExecutor core.ToolExecutor,
	conversations core.ConversationStore,
	optFns ...func(o *Options),
) *Executor {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	return &Executor{
		providers:     providers,
		toolRegistry:  toolRegistry,
		toolExecutor:  toolExecutor,
		conversations: conversations,
		maxIterations: opts.MaxIterations,
		logger:        opts.Logger,
	}
}

// Execute runs the agent once. It never returns an error and never panics;
// all failure is carried in the response's Success/Error fields. A cancelled
// run comes back failed without touching the conversation store.
func (e *Executor) Execute(ctx context.Context, cfg core.AgentConfig, userMessage, conversationID string) (resp core.AgentResponse) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	resp = core.AgentResponse{ConversationHistory: []core.ConversationMessage{}}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("agent.run.panic", "agent", cfg.ID, "conversation", conversationID, "recover", fmt.Sprintf("%v", r))
			resp.Success = false
			resp.Error = fmt.Sprintf("internal fault: %v", r)
		}
	}()

	e.logger.Debug("agent.run.start", "agent", cfg.ID, "conversation", conversationID, "provider", cfg.ModelProvider)

	prov, ok := e.providers.Resolve(cfg.ModelProvider)
	if !ok {
		resp.Error = fmt.Sprintf("model provider '%s' not found", cfg.ModelProvider)
		e.logger.Error("agent.provider.not_found", "agent", cfg.ID, "provider", cfg.ModelProvider)
		return resp
	}

	messages := e.loadHistory(cfg, conversationID)
	messages = seedSystemPrompt(messages, cfg.SystemPrompt)
	messages = append(messages, core.NewMessage(core.RoleUser, userMessage))

	tools := e.toolRegistry.GetMany(cfg.ToolIDs)

	var totalTokens int
	usageSeen := false

	for i := 0; i < e.maxIterations; i++ {
		resp.Iterations++

		turn, err := prov.ExecuteChat(ctx, cfg, messages, tools)
		if err != nil {
			// Cancellation (or a provider contract breach): fail the run
			// and leave the store untouched.
			resp.Error = err.Error()
			resp.ConversationHistory = messages
			e.logger.Warn("agent.run.aborted", "agent", cfg.ID, "conversation", conversationID, "error", err.Error())
			return resp
		}

		if turn.Usage != nil {
			totalTokens += turn.Usage.TotalTokens
			usageSeen = true
		}

		messages = append(messages, core.NewMessage(core.RoleAssistant, turn.Text))
		resp.Response = turn.Text

		if !turn.HasCalls() {
			// Final answer; do not consume remaining iterations.
			break
		}

		for _, call := range turn.Calls {
			result, err := e.executeCall(ctx, tools, call)
			if err != nil {
				resp.Error = err.Error()
				resp.ConversationHistory = messages
				e.logger.Warn("agent.run.aborted", "agent", cfg.ID, "conversation", conversationID, "error", err.Error())
				return resp
			}

			callID := call.ID
			if callID == "" {
				callID = uuid.NewString()
			}

			messages = append(messages, core.NewToolMessage(call.Name, callID, result))
			resp.ToolCalls = append(resp.ToolCalls, core.ToolCall{
				ToolName:  call.Name,
				Arguments: call.Arguments,
				Result:    result,
			})

			e.logger.Info("agent.tool.executed", "agent", cfg.ID, "tool", call.Name, "call_id", callID)
		}
	}

	if cfg.PersistHistory && ctx.Err() == nil {
		e.conversations.Store(cfg.ID, conversationID, messages)
	}

	resp.ConversationHistory = messages
	if usageSeen {
		resp.TotalTokens = &totalTokens
	}
	resp.Success = true

	e.logger.Info("agent.run.complete", "agent", cfg.ID, "conversation", conversationID, "iterations", resp.Iterations, "tool_calls", len(resp.ToolCalls))

	return resp
}

// loadHistory returns the run's working copy of prior history, trimmed to
// the most recent 2*MaxHistoryTurns messages. The factor of two accounts
// for paired user/assistant turns.
func (e *Executor) loadHistory(cfg core.AgentConfig, conversationID string) []core.ConversationMessage {
	if !cfg.PersistHistory {
		return []core.ConversationMessage{}
	}
	messages := e.conversations.Get(cfg.ID, conversationID)
	if max := cfg.MaxHistoryTurns * 2; len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	return messages
}

// seedSystemPrompt inserts the system prompt as the first message when the
// history carries no system turn yet. An existing system turn from a prior
// run is never overwritten.
func seedSystemPrompt(messages []core.ConversationMessage, systemPrompt string) []core.ConversationMessage {
	for _, m := range messages {
		if m.Role == core.RoleSystem {
			return messages
		}
	}
	seeded := make([]core.ConversationMessage, 0, len(messages)+1)
	seeded = append(seeded, core.NewMessage(core.RoleSystem, systemPrompt))
	return append(seeded, messages...)
}

// executeCall resolves the proposed call against the run's tool allowlist
// and executes it. Calls naming a tool outside the allowlist degrade to a
// descriptive result rather than a fault.
func (e *Executor) executeCall(ctx context.Context, tools []core.ToolDefinition, call core.ProposedCall) (string, error) {
	for i := range tools {
		if tools[i].Name == call.Name {
			return e.toolExecutor.ExecuteTool(ctx, &tools[i], call.Arguments)
		}
	}
	return fmt.Sprintf("tool '%s' is not available", call.Name), nil
}
