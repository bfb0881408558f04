// Task 9.2: MCP stdio server for the host-engine bridge.
//
// Exposes the same read/metadata/write tools the agent loop uses, so an
// external MCP client (an editor, another agent runtime) can query the
// connected data sources directly. Writes are opt-in, mirroring the
// write-privilege gate on the agent side.
package server

import (
	"context"
	"database/sql"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/engine"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/tool"
	"github.com/srilakshmipotnuru/mindsdb/internal/version"
)

// MCPConfig holds MCP server options.
type MCPConfig struct {
	// AllowWrites registers the write tool. Off by default.
	AllowWrites bool
}

type readInput struct {
	Query string `json:"query" jsonschema:"valid SQL statement, ending with a semicolon"`
}

type metadataInput struct {
	Target string `json:"target" jsonschema:"data source name, or data_source.table_name"`
}

type writeInput struct {
	Statement string `json:"statement" jsonschema:"INSERT statement, ending with a semicolon"`
}

// NewMCPServer builds an MCP server whose tools run against the given
// database through the sqlite reference engine.
func NewMCPServer(db *sql.DB, cfg MCPConfig) *mcp.Server {
	eng := engine.NewSQLiteEngine(db)
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "mindsdb-engine",
		Version: version.Version,
	}, nil)

	read := tool.NewReadTool(eng)
	mcp.AddTool(srv, &mcp.Tool{Name: "engine_read", Description: read.Description()},
		func(ctx context.Context, _ *mcp.CallToolRequest, in readInput) (*mcp.CallToolResult, any, error) {
			obs, err := read.Invoke(ctx, in.Query)
			if err != nil {
				return nil, nil, err
			}
			return textResult(obs), nil, nil
		})

	metadata := tool.NewMetadataTool(eng)
	mcp.AddTool(srv, &mcp.Tool{Name: "engine_metadata", Description: metadata.Description()},
		func(ctx context.Context, _ *mcp.CallToolRequest, in metadataInput) (*mcp.CallToolResult, any, error) {
			obs, err := metadata.Invoke(ctx, in.Target)
			if err != nil {
				return nil, nil, err
			}
			return textResult(obs), nil, nil
		})

	if cfg.AllowWrites {
		write := tool.NewWriteTool(eng)
		mcp.AddTool(srv, &mcp.Tool{Name: "engine_write", Description: write.Description()},
			func(ctx context.Context, _ *mcp.CallToolRequest, in writeInput) (*mcp.CallToolResult, any, error) {
				obs, err := write.Invoke(ctx, in.Statement)
				if err != nil {
					return nil, nil, err
				}
				return textResult(obs), nil, nil
			})
	}

	return srv
}

// RunMCPServer serves MCP over stdio until ctx is canceled or the client
// disconnects.
func RunMCPServer(ctx context.Context, db *sql.DB, cfg MCPConfig) error {
	return NewMCPServer(db, cfg).Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
