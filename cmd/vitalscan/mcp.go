// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server with classification and lookup tools.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/develbass/vitalscan/internal/config"
	"github.com/develbass/vitalscan/internal/logger"
	"github.com/develbass/vitalscan/internal/mcp"
	"github.com/develbass/vitalscan/internal/rapidoc"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout, so logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "vitalscan": {
        "command": "vitalscan",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  classify_metric                Classify one reading
  classify_results               Dashboard for a results bag
  flatten_results                Partner submission payload
  normalize_health_record        Partner record to internal vocabulary
  normalize_health_informations  Internal payload to partner spelling
  fetch_beneficiary_health       Look up a record (needs partner settings)

AVAILABLE RESOURCES:

  vitalscan://catalog   Metric catalog, sections and aliases
  vitalscan://bands     Every band table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log, err := logger.NewStderr(cfg.GetLogLevel(), cfg.GetLogFormat(), logger.ServiceName)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		// The lookup tool is only offered a partner when one is configured.
		var partner mcp.Partner
		if cfg.GetPartnerAPIURL() != "" && cfg.AdminToken != "" {
			client, err := rapidoc.New(rapidoc.Config{
				APIURL:   cfg.GetPartnerAPIURL(),
				TemaURL:  cfg.TemaURL,
				Token:    cfg.AdminToken,
				ClientID: cfg.ClientID,
				Timeout:  cfg.GetRequestTimeout(),
			}, log)
			if err != nil {
				log.Warn("partner client disabled", zap.Error(err))
			} else {
				partner = client
			}
		}

		if cfg.LegacyFallback {
			legacyFallback = true
		}

		server, err := mcp.NewServer(engine(), partner, version)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
