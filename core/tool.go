package core

import "context"

// ToolKind categorizes how a tool is executed.
type ToolKind string

const (
	// ToolKindCustom dispatches to an in-process handler registered by name.
	ToolKindCustom ToolKind = "custom"
	// ToolKindFlow delegates execution to an external workflow.
	ToolKindFlow ToolKind = "flow"
	// ToolKindAPI is reserved for a future remote-call kind. The executor
	// treats it as unknown.
	ToolKindAPI ToolKind = "api"
)

// ToolDefinition declares a callable capability an agent may use. The
// definition is provider-facing metadata only; execution behavior lives in
// the ToolExecutor.
type ToolDefinition struct {
	// ID is the unique registry key.
	ID string `json:"id"`
	// Name is the function name exposed to the model.
	Name string `json:"name"`
	// Description tells the model when and how to use the tool.
	Description string `json:"description"`
	// Kind selects the execution path.
	Kind ToolKind `json:"kind"`
	// WorkflowRef names the external workflow to invoke; required when Kind
	// is ToolKindFlow.
	WorkflowRef string `json:"workflow_ref,omitempty"`
	// ParametersSchema is opaque JSON Schema text passed through unchanged
	// to providers and to the executor.
	ParametersSchema string `json:"parameters_schema,omitempty"`
}

// ToolCall records one tool invocation made during an orchestration run.
// Purely observational; surfaced in the AgentResponse, never persisted.
type ToolCall struct {
	ToolName  string `json:"tool_name"`
	Arguments string `json:"arguments"`
	Result    string `json:"result"`
}

// ToolRegistry maps tool ids to definitions. Implementations must be safe
// for unsynchronized concurrent use by independent runs.
type ToolRegistry interface {
	// Register inserts or replaces a definition by id. Idempotent.
	Register(tool ToolDefinition)
	// Get returns the definition for an id; ok is false when absent.
	Get(id string) (ToolDefinition, bool)
	// GetAll returns all registered definitions in no guaranteed order.
	GetAll() []ToolDefinition
	// GetMany resolves ids to definitions, silently dropping unknown ids.
	// Partial resolution is expected, not exceptional.
	GetMany(ids []string) []ToolDefinition
}

// ToolHandler is a native implementation backing a custom-kind tool.
// It receives the decoded argument map and returns a serialized result.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)

// ToolExecutor executes a tool definition against serialized arguments.
// Tool-internal faults degrade to descriptive result strings; a non-nil
// error signals a contract violation or context cancellation only.
type ToolExecutor interface {
	ExecuteTool(ctx context.Context, tool *ToolDefinition, argumentsJSON string) (string, error)
}

// WorkflowInvoker is the external workflow collaborator backing flow-kind
// tools. Implemented outside this module by the hosting layer.
type WorkflowInvoker interface {
	Invoke(ctx context.Context, workflowRef string, input map[string]any) (string, error)
}
