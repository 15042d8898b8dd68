package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/dshills/patientdb/internal/importer"
	"github.com/dshills/patientdb/internal/patients"
)

const (
	// ServerName is the MCP server name
	ServerName = "patientdb"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Options configures a Server
type Options struct {
	// HistorySize bounds the run_query history
	HistorySize int
	Logger      zerolog.Logger
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	svc      *patients.Service
	session  *patients.QuerySession
	pipeline *importer.Pipeline
	importMu importer.ImportLock
	logger   zerolog.Logger
}

// NewServer creates a new MCP server over svc
func NewServer(svc *patients.Service, opts Options) *Server {
	logger := opts.Logger.With().Str("component", "mcp").Logger()

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:      mcpServer,
		svc:      svc,
		session:  patients.NewQuerySession(svc, opts.HistorySize),
		pipeline: importer.NewPipeline(svc, opts.Logger),
		logger:   logger,
	}

	s.registerTools()
	return s
}

// Serve runs the MCP protocol on stdio until ctx is canceled or stdin closes
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info().Str("name", ServerName).Str("version", ServerVersion).Msg("serving on stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(initStoreTool(), s.handleInitStore)
	s.mcp.AddTool(addPatientTool(), s.handleAddPatient)
	s.mcp.AddTool(listPatientsTool(), s.handleListPatients)
	s.mcp.AddTool(runQueryTool(), s.handleRunQuery)
	s.mcp.AddTool(queryHistoryTool(), s.handleQueryHistory)
	s.mcp.AddTool(importPatientsTool(), s.handleImportPatients)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
