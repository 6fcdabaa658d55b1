// ABOUTME: CLI command for running the HTTP backend proxy.
// ABOUTME: Wires config, logging, the partner client and the prefetch cache.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/config"
	"github.com/develbass/vitalscan/internal/logger"
	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/prefetch"
	"github.com/develbass/vitalscan/internal/rapidoc"
	"github.com/develbass/vitalscan/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP backend proxy",
	Long: `Start the HTTP server that proxies the Rapidoc partner API for the scan
front end and exposes classification endpoints.

REQUIRED SETTINGS:

  RPDADMIN_TOKEN   Partner bearer token
  RPD_CLIENTID     Partner client id
  API_URL          Partner API base URL (or RPD_API_URL)
  TEMA_URL         Token validation base URL

OPTIONAL SETTINGS:

  PORT                      Listen port (default 8080)
  STUDY_ID                  Returned by /api/studyId (500 when unset)
  LOG_LEVEL, LOG_FORMAT     debug|info|warn|error, json|console
  PREFETCH_TTL              Health-record cache lifetime (default 5s)
  REQUEST_TIMEOUT           Partner request timeout (default 30s)
  CLASSIFY_LEGACY_FALLBACK  Classify keys without a table as good

ROUTES:

  GET  /health                            Liveness
  GET  /api/studyId                       Configured study id
  GET  /api/beneficiary-health            Normalized health record
  POST /api/health-informations           Save health informations
  GET  /api/validate-token                Check a scan token
  POST /api/save-results                  Submit scan results
  GET  /api/beneficiary-scans/:scanUuid   Fetch a scan
  POST /api/classify                      Classify one reading
  POST /api/results                       Dashboard and submission payload
  GET  /api/catalog                       Metric catalog
  GET  /api/bands                         Band tables`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		log, err := logger.New(cfg.GetLogLevel(), cfg.GetLogFormat(), logger.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		client, err := rapidoc.New(rapidoc.Config{
			APIURL:   cfg.GetPartnerAPIURL(),
			TemaURL:  cfg.TemaURL,
			Token:    cfg.AdminToken,
			ClientID: cfg.ClientID,
			Timeout:  cfg.GetRequestTimeout(),
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create partner client: %w", err)
		}

		var opts []classify.Option
		if cfg.LegacyFallback || legacyFallback {
			opts = append(opts, classify.WithLegacyFallback())
		}

		srv := server.New(cfg, server.Deps{
			Partner:    client,
			Prefetch:   prefetch.New[models.HealthRecord](cfg.GetPrefetchTTL()),
			Classifier: classify.NewEngine(opts...),
			Logger:     log,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("starting vitalscan", zap.String("version", version), zap.String("addr", cfg.ListenAddr()))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
