// ABOUTME: HTTP proxy between the scan front end and the Rapidoc partner APIs.
// ABOUTME: Also serves classification and results flattening as JSON endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/develbass/vitalscan/internal/classify"
	"github.com/develbass/vitalscan/internal/config"
	"github.com/develbass/vitalscan/internal/models"
	"github.com/develbass/vitalscan/internal/prefetch"
	"github.com/develbass/vitalscan/internal/rapidoc"
)

// Partner is the subset of the Rapidoc client the server calls.
type Partner interface {
	FetchHealthInformations(ctx context.Context, beneficiaryUUID, clientUUID string) (models.HealthRecord, error)
	SaveHealthInformations(ctx context.Context, h models.HealthInformations, clientUUID string) (map[string]any, error)
	ValidateToken(ctx context.Context, token, beneficiaryUUID, clientUUID string) (*models.ValidateTokenResponse, error)
	UpdateScanResults(ctx context.Context, u rapidoc.ScanUpdate) error
	FetchBeneficiaryScan(ctx context.Context, scanUUID, clientUUID string) (map[string]any, error)
}

// Deps are the collaborators owned by the caller.
type Deps struct {
	Partner    Partner
	Prefetch   *prefetch.Cache[models.HealthRecord]
	Classifier *classify.Engine
	Logger     *zap.Logger
}

// Server bundles router and dependencies for the HTTP API.
type Server struct {
	cfg        *config.Config
	partner    Partner
	prefetch   *prefetch.Cache[models.HealthRecord]
	classifier *classify.Engine
	logger     *zap.Logger
	engine     *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg *config.Config, deps Deps) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Prefetch == nil {
		deps.Prefetch = prefetch.New[models.HealthRecord](cfg.GetPrefetchTTL())
	}
	if deps.Classifier == nil {
		deps.Classifier = classify.Default
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))
	engine.Use(corsMiddleware())

	s := &Server{
		cfg:        cfg,
		partner:    deps.Partner,
		prefetch:   deps.Prefetch,
		classifier: deps.Classifier,
		logger:     deps.Logger,
		engine:     engine,
	}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.GET("/studyId", s.handleStudyID)
	api.GET("/beneficiary-health", s.handleBeneficiaryHealth)
	api.POST("/health-informations", s.handleHealthInformations)
	api.GET("/validate-token", s.handleValidateToken)
	api.POST("/save-results", s.handleSaveResults)
	api.GET("/beneficiary-scans/:scanUuid", s.handleBeneficiaryScan)
	api.POST("/classify", s.handleClassify)
	api.POST("/results", s.handleResults)
	api.GET("/catalog", s.handleCatalog)
	api.GET("/bands", s.handleBands)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
