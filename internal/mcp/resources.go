// ABOUTME: MCP resource implementations for vitalscan.
// ABOUTME: Provides vitalscan://catalog and vitalscan://bands resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/models"
)

const (
	catalogURI = "vitalscan://catalog"
	bandsURI   = "vitalscan://bands"
)

func (s *Server) registerResources() {
	// vitalscan://catalog - metric names, units, ranges and dashboard layout
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         catalogURI,
		Name:        "Metric Catalog",
		Description: "Every metric key with its display name, unit, range, icon and dashboard section",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	// vitalscan://bands - every classification threshold
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         bandsURI,
		Name:        "Classification Bands",
		Description: "All threshold bands used to classify readings, generic tiers and group labels",
		MIMEType:    "application/json",
	}, s.handleBandsResource)
}

// Resource handlers

func (s *Server) handleCatalogResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(catalogURI, map[string]interface{}{
		"metrics":  models.Catalog,
		"sections": models.DashboardSections,
		"aliases":  models.SubmissionAliases,
	})
}

func (s *Server) handleBandsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(bandsURI, map[string]interface{}{
		"bands": classify.Appendix(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
