// ABOUTME: MCP server setup for vitalscan classification and normalization.
// ABOUTME: Wraps MCP server with the classifier and an optional partner client.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/models"
)

// Partner fetches beneficiary health records. It may be nil, in which case
// the lookup tool reports that the partner is not configured.
type Partner interface {
	FetchHealthInformations(ctx context.Context, beneficiaryUUID, clientUUID string) (models.HealthRecord, error)
}

// Server wraps the MCP server with classification and partner access.
type Server struct {
	mcpServer  *mcp.Server
	classifier *classify.Engine
	partner    Partner
}

// NewServer creates a new MCP server. A nil classifier uses classify.Default.
func NewServer(classifier *classify.Engine, partner Partner, version string) (*Server, error) {
	if classifier == nil {
		classifier = classify.Default
	}
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vitalscan",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer:  mcpServer,
		classifier: classifier,
		partner:    partner,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
