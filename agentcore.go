// Package agentcore provides a high-level façade over the agent execution
// core: model providers, the tool registry and executor, conversation
// storage and the orchestration loop. Most applications interact with this
// package by:
//  1. Creating an AgentCore via New() (optionally overriding default in-memory services)
//  2. Registering tool definitions and native handlers
//  3. Executing agent runs with Execute
//
// The façade delegates orchestration to agent.Executor while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable
// conversation store and a structured logger.
package agentcore

import (
	"context"

	"github.com/hupe1980/agentcore/agent"
	"github.com/hupe1980/agentcore/conversation"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/executor"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/provider"
	"github.com/hupe1980/agentcore/provider/anthropic"
	"github.com/hupe1980/agentcore/provider/ollama"
	"github.com/hupe1980/agentcore/provider/openai"
	"github.com/hupe1980/agentcore/registry"
)

// Options configures the AgentCore instance.
type Options struct {
	// MaxIterations bounds provider invocations per run. Zero or negative
	// selects the default bound.
	MaxIterations int

	// Providers selects the model providers available to agent configs.
	// When nil, the built-in openai, anthropic and ollama providers are
	// registered.
	Providers []core.ModelProvider

	// ToolRegistry holds the tool definitions agents may reference. Defaults
	// to an in-memory registry.
	ToolRegistry core.ToolRegistry

	// ConversationStore persists conversation history between runs.
	// Defaults to an in-memory store.
	ConversationStore core.ConversationStore

	// WorkflowInvoker backs flow-kind tools. When nil, flow tools degrade
	// to a descriptive result.
	WorkflowInvoker core.WorkflowInvoker

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentCore is the high-level façade aggregating the orchestrator and its
// collaborators.
type AgentCore struct {
	executor      *agent.Executor
	providers     *provider.Registry
	tools         core.ToolRegistry
	dispatcher    *executor.Dispatcher
	conversations core.ConversationStore
}

// New creates a new AgentCore instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *AgentCore {
	opts := Options{
		ToolRegistry:      registry.NewInMemory(),
		ConversationStore: conversation.NewInMemory(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Providers == nil {
		opts.Providers = []core.ModelProvider{
			openai.New(func(o *openai.Options) { o.Logger = opts.Logger }),
			anthropic.New(func(o *anthropic.Options) { o.Logger = opts.Logger }),
			ollama.New(func(o *ollama.Options) { o.Logger = opts.Logger }),
		}
	}
	providers := provider.NewRegistry(opts.Providers...)

	dispatcher := executor.NewDispatcher(func(o *executor.Options) {
		o.Invoker = opts.WorkflowInvoker
		o.Logger = opts.Logger
	})

	exec := agent.NewExecutor(providers, opts.ToolRegistry, dispatcher, opts.ConversationStore, func(o *agent.Options) {
		o.MaxIterations = opts.MaxIterations
		o.Logger = opts.Logger
	})

	return &AgentCore{
		executor:      exec,
		providers:     providers,
		tools:         opts.ToolRegistry,
		dispatcher:    dispatcher,
		conversations: opts.ConversationStore,
	}
}

// Execute runs the agent described by cfg once against userMessage. A new
// conversation id is generated when conversationID is empty. Failure is
// reported through the response, never as a panic.
func (a *AgentCore) Execute(ctx context.Context, cfg core.AgentConfig, userMessage, conversationID string) core.AgentResponse {
	return a.executor.Execute(ctx, cfg, userMessage, conversationID)
}

// RegisterTool adds or replaces a tool definition.
func (a *AgentCore) RegisterTool(tool core.ToolDefinition) { a.tools.Register(tool) }

// RegisterHandler binds a native handler to a custom tool name.
func (a *AgentCore) RegisterHandler(name string, h core.ToolHandler) {
	a.dispatcher.RegisterHandler(name, h)
}

// RegisterProvider adds or replaces a model provider.
func (a *AgentCore) RegisterProvider(p core.ModelProvider) { a.providers.Register(p) }

// ClearConversation deletes the stored history for one agent conversation.
func (a *AgentCore) ClearConversation(agentID, conversationID string) {
	a.conversations.Clear(agentID, conversationID)
}

// Tools returns the underlying tool registry.
func (a *AgentCore) Tools() core.ToolRegistry { return a.tools }

// Dispatcher returns the underlying tool dispatcher, useful for installing
// externally sourced toolsets.
func (a *AgentCore) Dispatcher() *executor.Dispatcher { return a.dispatcher }
