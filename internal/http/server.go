package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/authgate/internal/auth/http"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	"github.com/allisson/authgate/internal/config"
)

// Server represents the main API HTTP server.
type Server struct {
	db        *sql.DB
	logger    *slog.Logger
	router    *gin.Engine
	server    *http.Server
	ipLimiter *authHTTP.IPRateLimiter
}

// NewServer creates a new HTTP server. The router must be configured with
// SetupRouter before Start is called.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the routes and middleware for the server.
//
// Route layout:
//   - POST /api/auth/ and /api/auth/refresh-token: public token endpoints
//     with permissive CORS and optional per-IP throttling
//   - GET /api/ping: authenticated liveness probe (bearer token required)
//   - GET /health, /ready: unauthenticated probes for orchestration
//
// extraMiddleware is applied server-wide after the built-in middleware; the
// container uses it to attach the HTTP metrics middleware when enabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	authHandler *authHTTP.AuthHandler,
	useCase authUseCase.AuthUseCase,
	extraMiddleware ...gin.HandlerFunc,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(SecurityHeadersMiddleware())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	for _, middleware := range extraMiddleware {
		if middleware != nil {
			router.Use(middleware)
		}
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Public token endpoints
	auth := router.Group("/api/auth")
	auth.Use(authHTTP.BrowserCORSMiddleware())
	if cfg.RateLimitIPEnabled {
		s.ipLimiter = authHTTP.NewIPRateLimiter(
			cfg.RateLimitIPRequestsPerSec,
			cfg.RateLimitIPBurst,
			s.logger,
		)
		auth.Use(s.ipLimiter.Middleware())
	}
	auth.POST("/", authHandler.LoginHandler)
	auth.POST("/refresh-token", authHandler.RefreshTokenHandler)

	// Authenticated endpoints
	api := router.Group("/api")
	api.Use(authHTTP.AuthenticationMiddleware(useCase, s.logger))
	api.GET("/ping", authHandler.PingHandler)

	s.router = router
}

// healthHandler answers liveness probes for the process itself.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// its backing dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server and stops the per-IP rate
// limiter janitor when one was configured.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.ipLimiter != nil {
		s.ipLimiter.Stop()
	}
	return s.server.Shutdown(ctx)
}
