// Package http provides the API server: router assembly, health and
// readiness endpoints and the shared gin middleware chain.
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

	authHTTP "github.com/teranga/caisse/internal/auth/http"
	authService "github.com/teranga/caisse/internal/auth/service"
	caisseHTTP "github.com/teranga/caisse/internal/caisse/http"
	identityDomain "github.com/teranga/caisse/internal/identity/domain"
	identityHTTP "github.com/teranga/caisse/internal/identity/http"
	"github.com/teranga/caisse/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
	host   string
	port   int
}

// NewServer creates a new HTTP server. The database handle is used by the
// readiness endpoint; the router is assembled separately with SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		host:   host,
		port:   port,
	}
}

// RouterConfig carries the handlers and settings the router is built from.
type RouterConfig struct {
	AuthHandler     *authHTTP.AuthHandler
	IdentityHandler *identityHTTP.IdentityHandler
	CaisseHandler   *caisseHTTP.CaisseHandler
	TokenService    authService.TokenService

	RateLimitLoginEnabled        bool
	RateLimitLoginRequestsPerSec float64
	RateLimitLoginBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// SetupRouter assembles the gin router with the full middleware chain and
// all API routes. Authentication is a two-gate chain: the bearer token gate
// attaches verified claims, the role gate authorizes per route.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	// Health and readiness endpoints (no authentication)
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Login and refresh are unauthenticated and rate limited per client IP.
	auth := router.Group("/v1/auth")
	if cfg.RateLimitLoginEnabled {
		auth.Use(authHTTP.LoginRateLimitMiddleware(
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			s.logger,
		))
	}
	auth.POST("/login", cfg.AuthHandler.LoginHandler)
	auth.POST("/refresh", cfg.AuthHandler.RefreshHandler)

	// Everything below requires a valid access token.
	authenticated := router.Group("/v1")
	authenticated.Use(authHTTP.AuthenticationMiddleware(cfg.TokenService, s.logger))

	identities := authenticated.Group("/identities")
	identities.POST("",
		authHTTP.RequireRoles(s.logger, identityDomain.RoleAdmin, identityDomain.RoleAgent),
		cfg.IdentityHandler.CreateHandler)
	identities.GET("",
		authHTTP.RequireRoles(s.logger, identityDomain.RoleAdmin, identityDomain.RoleAgent, identityDomain.RoleSupervisor),
		cfg.IdentityHandler.ListHandler)
	identities.GET("/:id", cfg.IdentityHandler.GetHandler)
	identities.DELETE("/:id",
		authHTTP.RequireRoles(s.logger, identityDomain.RoleAdmin),
		cfg.IdentityHandler.DeleteHandler)
	identities.PATCH("/:id/roles",
		authHTTP.RequireRoles(s.logger, identityDomain.RoleAdmin),
		cfg.IdentityHandler.ChangeRoleHandler)

	caisses := authenticated.Group("/caisses")
	caisses.POST("",
		authHTTP.RequireRoles(s.logger, identityDomain.RoleAdmin, identityDomain.RoleAgent),
		cfg.CaisseHandler.CreateHandler)
	caisses.GET("", cfg.CaisseHandler.ListHandler)
	caisses.GET("/:id", cfg.CaisseHandler.GetHandler)

	s.router = router
}

// GetRouter returns the gin router for testing purposes.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The only
// dependency checked is the database.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
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

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not set up, call SetupRouter first")
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
