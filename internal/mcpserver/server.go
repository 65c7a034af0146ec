// Package mcpserver exposes the tool registry over the Model Context
// Protocol. It is a thin shell: every tool call is handed to the dispatcher,
// and the dispatcher's uniform result envelope is rendered back as MCP
// content.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/automationtools/n8n-mcp/internal/domain/tool"
	"github.com/automationtools/n8n-mcp/internal/version"
)

const serverName = "n8n-mcp"

const instructions = `This server exposes tools for operating an n8n instance.

n8n ("node-mation") is a workflow-automation platform. Through these tools you
can create, retrieve (in bulk and by ID), update, activate, deactivate and
delete workflows, inspect and delete executions, manage tags, and assign tags
to workflows.

run_workflow fires a workflow's webhook trigger and returns as soon as the run
is accepted. If you do not have a workflow ID or webhook path at hand, call
list_workflows first and pick the appropriate workflow for the user's request.`

// New builds the MCP server: one tool per registry descriptor, each bridged
// to the dispatcher.
func New(registry *tool.Registry, dispatcher *tool.Dispatcher) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: version.Version},
		&mcp.ServerOptions{Instructions: instructions},
	)

	for _, desc := range registry.Descriptors() {
		name := desc.Name
		server.AddTool(
			&mcp.Tool{
				Name:        name,
				Description: desc.Description,
				InputSchema: inputSchema(desc),
			},
			func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				arguments, err := decodeArguments(req.Params.Arguments)
				if err != nil {
					return failureResult(tool.ErrorInvalidArguments, "arguments must be a JSON object"), nil
				}
				return toCallToolResult(dispatcher.Dispatch(ctx, tool.Request{
					Tool:      name,
					Arguments: arguments,
				})), nil
			},
		)
	}

	return server
}

// RunStdio serves MCP over stdin/stdout until ctx is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// decodeArguments normalizes the wire arguments into the dispatcher's map
// form. A missing arguments field means "no arguments".
func decodeArguments(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case json.RawMessage:
		return unmarshalArguments([]byte(v))
	case []byte:
		return unmarshalArguments(v)
	default:
		return nil, fmt.Errorf("unsupported arguments type %T", raw)
	}
}

func unmarshalArguments(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var arguments map[string]any
	if err := json.Unmarshal(raw, &arguments); err != nil {
		return nil, err
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}

// toCallToolResult renders the dispatcher's envelope as MCP content:
// successes as pretty-printed upstream JSON, failures as "kind: message"
// text with the error flag set.
func toCallToolResult(res tool.Result) *mcp.CallToolResult {
	if res.Failure != nil {
		return failureResult(res.Failure.Kind, res.Failure.Message)
	}

	text, err := renderPayload(res.Payload)
	if err != nil {
		return failureResult(tool.ErrorUnknown, fmt.Sprintf("encode result: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func failureResult(kind tool.ErrorKind, message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%s: %s", kind, message)}},
	}
}

// renderPayload pretty-prints any handler payload. Raw upstream JSON is
// re-indented rather than re-marshalled, so upstream field order survives.
func renderPayload(payload any) (string, error) {
	if raw, ok := payload.(json.RawMessage); ok {
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			// Not valid JSON; pass the raw bytes through.
			return string(raw), nil
		}
		return out.String(), nil
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
