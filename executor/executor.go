// Package executor implements the tool execution subsystem: a dispatching
// core.ToolExecutor that routes custom-kind tools to registered in-process
// handlers and flow-kind tools to the external workflow collaborator.
//
// Error semantics follow the degrade-don't-abort contract: tool-internal
// faults (missing handler, missing workflow reference, handler errors,
// panics) become descriptive result strings handed back to the model, never
// run failures. Only contract violations (nil tool) and context
// cancellation surface as errors.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// Options configure a Dispatcher.
type Options struct {
	// Invoker handles flow-kind tools. When nil, flow tools degrade to a
	// descriptive result.
	Invoker core.WorkflowInvoker
	// Handlers seeds the custom-kind handler table, keyed by tool name or id.
	Handlers map[string]core.ToolHandler
	// Logger receives warnings for degraded paths.
	Logger logging.Logger
}

// Dispatcher is the default core.ToolExecutor. It is safe for concurrent
// use; handlers may be registered at any time.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]core.ToolHandler
	invoker  core.WorkflowInvoker
	logger   logging.Logger
}

// NewDispatcher constructs a Dispatcher with optional overrides.
func NewDispatcher(optFns ...func(o *Options)) *Dispatcher {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	handlers := make(map[string]core.ToolHandler, len(opts.Handlers))
	for name, h := range opts.Handlers {
		handlers[name] = h
	}

	return &Dispatcher{
		handlers: handlers,
		invoker:  opts.Invoker,
		logger:   opts.Logger,
	}
}

// RegisterHandler binds a native handler to a custom tool name (or id).
// Registering an existing key replaces the handler.
func (d *Dispatcher) RegisterHandler(name string, h core.ToolHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// ExecuteTool implements core.ToolExecutor.
func (d *Dispatcher) ExecuteTool(ctx context.Context, tool *core.ToolDefinition, argumentsJSON string) (result string, err error) {
	if tool == nil {
		return "", errors.New("executor: nil tool definition")
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	// Panic safety: a misbehaving handler must not abort the run.
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("executor.tool.panic", "tool", tool.Name, "recover", fmt.Sprintf("%v", r))
			result = fmt.Sprintf("Error executing tool %s: internal fault", tool.Name)
			err = nil
		}
	}()

	switch tool.Kind {
	case core.ToolKindCustom:
		return d.executeCustom(ctx, tool, argumentsJSON)
	case core.ToolKindFlow:
		return d.executeFlow(ctx, tool, argumentsJSON)
	default:
		return fmt.Sprintf("unknown tool type: %s", tool.Kind), nil
	}
}

// executeCustom dispatches to a registered handler by tool name, then id.
// Unregistered custom tools return a descriptive placeholder so the model
// can carry on.
func (d *Dispatcher) executeCustom(ctx context.Context, tool *core.ToolDefinition, argumentsJSON string) (string, error) {
	d.mu.RLock()
	handler, ok := d.handlers[tool.Name]
	if !ok {
		handler, ok = d.handlers[tool.ID]
	}
	d.mu.RUnlock()

	if !ok {
		return fmt.Sprintf("Custom tool '%s' executed with arguments: %s", tool.Name, argumentsJSON), nil
	}

	result, err := handler(ctx, d.parseArguments(tool.Name, argumentsJSON))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		d.logger.Error("executor.tool.failed", "tool", tool.Name, "error", err.Error())
		return fmt.Sprintf("Error executing tool %s: %s", tool.Name, err.Error()), nil
	}
	return result, nil
}

// executeFlow delegates to the external workflow collaborator.
func (d *Dispatcher) executeFlow(ctx context.Context, tool *core.ToolDefinition, argumentsJSON string) (string, error) {
	if tool.WorkflowRef == "" {
		return fmt.Sprintf("No workflow reference specified for flow tool '%s'", tool.Name), nil
	}
	if d.invoker == nil {
		return fmt.Sprintf("No workflow invoker configured; cannot execute flow tool '%s'", tool.Name), nil
	}

	result, err := d.invoker.Invoke(ctx, tool.WorkflowRef, d.parseArguments(tool.Name, argumentsJSON))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		d.logger.Error("executor.flow.failed", "tool", tool.Name, "workflow_ref", tool.WorkflowRef, "error", err.Error())
		return fmt.Sprintf("Error executing tool %s: %s", tool.Name, err.Error()), nil
	}
	return result, nil
}

// parseArguments decodes the serialized argument payload. Malformed JSON
// degrades to an empty map with a logged warning.
func (d *Dispatcher) parseArguments(toolName, argumentsJSON string) map[string]any {
	args := map[string]any{}
	if argumentsJSON == "" {
		return args
	}
	if err := json.Unmarshal([]byte(argumentsJSON), &args); err != nil {
		d.logger.Warn("executor.arguments.malformed", "tool", toolName, "error", err.Error())
		return map[string]any{}
	}
	return args
}
