// ABOUTME: MCP server initialization and configuration for daylock.
// ABOUTME: Sets up server with journal and streak tools for AI agent access.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/2389-research/daylock/internal/journal"
)

// Server wraps the MCP server with the journal service.
type Server struct {
	mcp     *gomcp.Server
	journal *journal.Service
	logger  *zap.Logger
	version string
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool call diagnostics.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// NewServer creates an MCP server exposing the journal service.
func NewServer(svc *journal.Service, opts ...ServerOption) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("journal service is required")
	}

	s := &Server{
		journal: svc,
		logger:  zap.NewNop(),
		version: "1.0.0",
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mcp = gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "daylock",
			Version: s.version,
		},
		nil,
	)

	s.registerJournalTools()
	s.registerStreakTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("serving MCP over stdio")
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as an empty object.
func decodeArgs(req *gomcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

// toolText creates a successful text result for MCP tool responses.
func toolText(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
