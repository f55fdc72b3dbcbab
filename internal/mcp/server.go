package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/dshills/skillspace-mcp/internal/logging"
	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
	"github.com/dshills/skillspace-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "skillspace-mcp"
)

// ServerVersion is the current server version, set at build time by cmd
var ServerVersion = "1.0.0"

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	storage   storage.Storage
	snapshots *snapshot.Provider
	service   *recommender.Service
	log       zerolog.Logger
}

// NewServer creates a new MCP server instance. The caller owns st and closes
// it after Serve returns.
func NewServer(st storage.Storage, snapshots *snapshot.Provider, svc *recommender.Service) *Server {
	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		storage:   st,
		snapshots: snapshots,
		service:   svc,
		log:       logging.Component("mcp"),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("version", ServerVersion).Msg("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(recommendByExpertiseTool(), s.handleRecommendByExpertise)
	s.mcp.AddTool(recommendByTransferTool(), s.handleRecommendByTransfer)
	s.mcp.AddTool(recommendByPopularityTool(), s.handleRecommendByPopularity)
	s.mcp.AddTool(recommendByLocalityTool(), s.handleRecommendByLocality)
	s.mcp.AddTool(listLanguagesTool(), s.handleListLanguages)
	s.mcp.AddTool(listTimezonesTool(), s.handleListTimezones)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
