// ABOUTME: MCP server setup for the BiriVibe life tracker.
// ABOUTME: Wraps the MCP server with storage, dashboard and ingest services.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/birivibe/birivibe/internal/ai"
	"github.com/birivibe/birivibe/internal/dashboard"
	"github.com/birivibe/birivibe/internal/ingest"
	"github.com/birivibe/birivibe/internal/models"
	"github.com/birivibe/birivibe/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Options configures a Server.
type Options struct {
	UserEmail string
	UserName  string
}

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	dash      *dashboard.Service
	ingest    *ingest.Service
	log       logrus.FieldLogger
	opts      Options
	now       func() time.Time
}

// NewServer creates a new MCP server with the given storage. The ingest_text
// tool is only registered when model is non-nil.
func NewServer(repo storage.Repository, model ai.Model, log logrus.FieldLogger, opts Options) (*Server, error) {
	if opts.UserEmail == "" {
		return nil, fmt.Errorf("user email is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "birivibe",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		dash:      dashboard.NewService(repo),
		log:       log,
		opts:      opts,
		now:       time.Now,
	}
	if model != nil {
		s.ingest = ingest.NewService(repo, ai.NewParser(model), log)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// user returns the configured user, creating it on first use.
func (s *Server) user(ctx context.Context) (*models.User, error) {
	u, err := s.repo.EnsureUser(ctx, s.opts.UserEmail, s.opts.UserName)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
