package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/outlinerhq/termbridge/internal/api/http"
	"github.com/outlinerhq/termbridge/internal/api/middleware"
	"github.com/outlinerhq/termbridge/internal/api/ws"
	"github.com/outlinerhq/termbridge/internal/infrastructure/config"
	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
	"github.com/outlinerhq/termbridge/internal/infrastructure/monitoring"
	"github.com/outlinerhq/termbridge/internal/terminal"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	tracker *terminal.Tracker
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// New creates a server instance from configuration.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := monitoring.NewMetrics()
	tracker := terminal.NewTracker()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(tracker, logger)
	wsHandler := ws.NewHandler(terminal.Config{
		Shell:      cfg.Shell.Command,
		WorkingDir: cfg.Shell.WorkingDir,
		Term:       cfg.Shell.Term,
	}, tracker, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/terminal", wsHandler.HandleTerminal)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router: router,
		httpSrv: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		tracker: tracker,
		metrics: metrics,
		logger:  logger,
	}
}

// Run starts serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Run() error {
	s.logger.Info("listening",
		zap.String("addr", s.httpSrv.Addr),
		zap.String("health", "http://"+s.httpSrv.Addr+"/health"),
		zap.String("terminal", "ws://"+s.httpSrv.Addr+"/terminal"),
	)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests. Live
// terminal sessions end when their connections close.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down", zap.Int("sessions", s.tracker.Count()))
	return s.httpSrv.Shutdown(ctx)
}
