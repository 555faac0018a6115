// Package mcpserver exposes the weather tools over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
)

const Name = "weather-tools"

// ToolService runs tool calls and describes the registered tools.
type ToolService interface {
	Call(ctx context.Context, req tools.Request) tools.Result
	Catalog() []tools.Descriptor
}

// New registers every catalogued tool on a new MCP server.
func New(svc ToolService, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	for _, d := range svc.Catalog() {
		schema, err := json.Marshal(d.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("encode schema of %s: %w", d.Name, err)
		}
		s.AddTool(mcp.NewToolWithRawSchema(d.Name.String(), d.Description, schema), Handler(svc, d.Name))
	}
	return s, nil
}

// Handler forwards an MCP tool call to svc. Tool failures become error
// results, never protocol errors.
func Handler(svc ToolService, name tools.Name) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := svc.Call(ctx, tools.Request{Name: name.String(), Arguments: req.GetArguments()})
		if res.IsError {
			return mcp.NewToolResultError(res.Text()), nil
		}
		return mcp.NewToolResultText(res.Text()), nil
	}
}
