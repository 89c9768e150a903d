// Package mcp connects agents to MCP (Model Context Protocol) servers.
// A Toolset dials a server, mirrors its tool list as custom-kind
// definitions and backs each one with a handler that proxies the call to
// the remote server. Installed into a registry and dispatcher, remote
// tools become indistinguishable from local ones.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/executor"
	"github.com/hupe1980/agentcore/logging"
)

// Options configure a Toolset.
type Options struct {
	// ClientName identifies this client to the server during the
	// initialize handshake.
	ClientName string
	// ClientVersion accompanies ClientName in the handshake.
	ClientVersion string
	// Logger receives connection and call logging.
	Logger logging.Logger
}

// Toolset mirrors the tools of one MCP server. It is safe for concurrent
// use; the cached tool list can be refreshed at any time.
type Toolset struct {
	client *client.Client
	logger logging.Logger

	mu    sync.RWMutex
	tools map[string]core.ToolDefinition
}

// NewStdioToolset launches command as a subprocess MCP server and connects
// to it over stdio.
func NewStdioToolset(ctx context.Context, command string, env []string, args []string, optFns ...func(o *Options)) (*Toolset, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: create stdio client: %w", err)
	}
	return newToolset(ctx, c, optFns...)
}

// NewSSEToolset connects to an MCP server reachable over SSE at baseURL.
func NewSSEToolset(ctx context.Context, baseURL string, optFns ...func(o *Options)) (*Toolset, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: create sse client: %w", err)
	}
	return newToolset(ctx, c, optFns...)
}

func newToolset(ctx context.Context, c *client.Client, optFns ...func(o *Options)) (*Toolset, error) {
	opts := Options{
		ClientName:    "agentcore",
		ClientVersion: "1.0.0",
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcpproto.InitializeRequest{
		Params: mcpproto.InitializeParams{
			ProtocolVersion: mcpproto.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcpproto.ClientCapabilities{},
			ClientInfo: mcpproto.Implementation{
				Name:    opts.ClientName,
				Version: opts.ClientVersion,
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize session: %w", err)
	}

	ts := &Toolset{
		client: c,
		logger: opts.Logger,
		tools:  make(map[string]core.ToolDefinition),
	}

	if err := ts.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}

	ts.logger.Info("mcp.connected", "tools", len(ts.tools))

	return ts, nil
}

// Close shuts down the server connection.
func (ts *Toolset) Close() error {
	return ts.client.Close()
}

// Refresh re-fetches the server's tool list, replacing the cached copy.
func (ts *Toolset) Refresh(ctx context.Context) error {
	result, err := ts.client.ListTools(ctx, mcpproto.ListToolsRequest{})
	if err != nil {
		return err
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.tools = make(map[string]core.ToolDefinition, len(result.Tools))
	for _, t := range result.Tools {
		def := toDefinition(t)
		ts.tools[def.Name] = def
	}

	return nil
}

// Definitions returns the mirrored tool definitions in no guaranteed order.
func (ts *Toolset) Definitions() []core.ToolDefinition {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	defs := make([]core.ToolDefinition, 0, len(ts.tools))
	for _, def := range ts.tools {
		defs = append(defs, def)
	}
	return defs
}

// Handler returns a core.ToolHandler that proxies the named tool to the
// remote server. The handler exists for every mirrored tool regardless of
// whether the server still offers it; a stale name surfaces as a server
// error string at call time.
func (ts *Toolset) Handler(name string) core.ToolHandler {
	return func(ctx context.Context, args map[string]any) (string, error) {
		result, err := ts.client.CallTool(ctx, mcpproto.CallToolRequest{
			Params: mcpproto.CallToolParams{
				Name:      name,
				Arguments: args,
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}
		text := resultText(result)
		if result.IsError {
			return "", fmt.Errorf("%s", text)
		}
		return text, nil
	}
}

// Install registers every mirrored tool with the registry and binds its
// proxy handler on the dispatcher. It returns the registered ids so a
// caller can reference them from an agent's tool allowlist.
func (ts *Toolset) Install(reg core.ToolRegistry, d *executor.Dispatcher) []string {
	defs := ts.Definitions()

	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		reg.Register(def)
		d.RegisterHandler(def.Name, ts.Handler(def.Name))
		ids = append(ids, def.ID)
	}
	return ids
}

// toDefinition maps a server tool to a custom-kind definition. The raw
// input schema is carried through untouched when the server provides one.
func toDefinition(t mcpproto.Tool) core.ToolDefinition {
	var schema string
	if len(t.RawInputSchema) > 0 {
		schema = string(t.RawInputSchema)
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = string(data)
	}

	return core.ToolDefinition{
		ID:               "mcp:" + t.Name,
		Name:             t.Name,
		Description:      t.Description,
		Kind:             core.ToolKindCustom,
		ParametersSchema: schema,
	}
}

// resultText flattens a call result into text. Non-text content blocks are
// carried as their JSON encoding so nothing the server returned is lost.
func resultText(result *mcpproto.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcpproto.TextContent:
			parts = append(parts, content.Text)
		case *mcpproto.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	return strings.Join(parts, "\n")
}
