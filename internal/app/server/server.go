package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/propertyease/propertyease/internal/app/config"
	"github.com/propertyease/propertyease/internal/app/handlers"
	"github.com/propertyease/propertyease/internal/app/middleware"
	appservices "github.com/propertyease/propertyease/internal/app/services"
	"github.com/propertyease/propertyease/internal/infrastructure/database"
	"github.com/propertyease/propertyease/pkg/logger"
)

type Server struct {
	config   *config.Config
	logger   *logger.Logger
	router   *gin.Engine
	server   *http.Server
	services *appservices.ServiceManager
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	if cfg.GetDatabaseURL() == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.NewWithLogLevel(cfg.GetDatabaseURL(), database.LogLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	sm, err := appservices.NewServiceManager(cfg, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewWithServices(cfg, log, sm), nil
}

// NewWithServices builds the server around already initialized services
func NewWithServices(cfg *config.Config, log *logger.Logger, sm *appservices.ServiceManager) *Server {
	// Configure Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(loggingMiddleware(log))

	server := &Server{
		config:   cfg,
		logger:   log,
		router:   router,
		services: sm,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Router exposes the HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	if closeErr := s.services.Close(); closeErr != nil {
		s.logger.Error("Error closing services", "error", closeErr)
	}

	return err
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// API v1 group
	v1 := s.router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.GET("/status", s.systemStatus)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(s.services.AuthService, s.services.Repositories.UserRepo))
		{
			analyticsHandler := handlers.NewAnalyticsHandler(s.services.AnalyticsService, s.config.Analytics.DefaultRange)
			analyticsHandler.RegisterRoutes(protected)
		}
	}
}

// Health check handler
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": s.config.Environment,
	})
}

// System status handler
func (s *Server) systemStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.services.Repositories.HealthCheck(ctx); err != nil {
		s.logger.Warn("Database health check failed", "error", err)
		dbStatus = "unhealthy"
	}

	cacheStatus := "healthy"
	if err := s.services.CacheService.Ping(ctx); err != nil {
		s.logger.Warn("Cache health check failed", "error", err)
		cacheStatus = "unhealthy"
	}

	status, code := "ok", http.StatusOK
	if dbStatus != "healthy" || cacheStatus != "healthy" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"database":    dbStatus,
		"cache":       cacheStatus,
		"data_source": s.config.Analytics.DataSource,
		"timestamp":   time.Now().UTC(),
		"version":     "1.0.0",
	})
}

// corsMiddleware configures CORS
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(corsConfig)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}
