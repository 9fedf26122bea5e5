package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/docqa/internal/rag"
	"github.com/akolanti/docqa/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

var ErrMissingService = errors.New("rag service is required")

var logger = logger_i.NewLogger("MCP")

// Server exposes indexing and question answering over files on the local
// disk as MCP tools.
type Server struct {
	service rag.Service
	server  *mcp.Server
}

func NewServer(service rag.Service) (*Server, error) {
	if service == nil {
		return nil, ErrMissingService
	}
	s := &Server{
		service: service,
		server:  mcp.NewServer(&mcp.Implementation{Name: "docqa", Version: Version}, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server started on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
