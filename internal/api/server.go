package api

import (
	_ "embed"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/1broseidon/seriesboard/internal/config"
	"github.com/1broseidon/seriesboard/internal/dispatch"
	"github.com/1broseidon/seriesboard/internal/logging"
)

//go:embed dashboard.html
var dashboardHTML string

// Server represents the API server
type Server struct {
	app           *fiber.App
	config        *config.Config
	logger        *logging.Logger
	session       *dispatch.Session
	prometheusReg prometheus.Registerer
}

// NewServer creates a new API server over an initialized session
func NewServer(cfg *config.Config, session *dispatch.Session, logger *logging.Logger, prometheusReg prometheus.Registerer) *Server {
	// Create Fiber app with configuration
	app := fiber.New(fiber.Config{
		AppName:               "Series Board v1.0",
		DisableStartupMessage: false,
		ServerHeader:          "SeriesBoard",
		ErrorHandler:          errorHandler(logger),
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		ReadBufferSize:        8192, // 8KB buffer for request headers (increased from 4KB default to handle proxy headers)
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		session:       session,
		prometheusReg: prometheusReg,
	}

	// Setup middleware
	s.setupMiddleware()

	// Setup routes
	s.setupRoutes()

	return s
}

// setupMiddleware configures Fiber middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request logger middleware
	s.app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
		Output: nil, // Will use default (os.Stdout)
	}))

	// CORS middleware
	corsOrigins := "*"
	if len(s.config.Server.CORSOrigins) > 0 {
		corsOrigins = strings.Join(s.config.Server.CORSOrigins, ",")
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Global timeout middleware
	s.app.Use(timeout.NewWithContext(func(c *fiber.Ctx) error {
		return c.Next()
	}, 30*time.Second))
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health and metrics endpoints
	s.app.Get("/health", s.healthHandler)
	s.app.Get("/ready", s.readyHandler)
	s.app.Get("/metrics", s.metricsHandler)

	// Dashboard (if enabled)
	if s.config.Server.EnableDashboard {
		s.app.Get("/", s.dashboardHandler)
		s.app.Get("/dashboard", s.dashboardHandler)
	}

	// API v1 routes
	api := s.app.Group("/api/v1")

	// Event dispatch: every browser interaction enters here
	api.Post("/events", s.postEventHandler)

	// Read-only render surfaces
	api.Get("/state", s.getStateHandler)
	api.Get("/series", s.getSeriesHandler)
	api.Get("/chart", s.getChartHandler)
	api.Get("/map", s.getMapHandler)
	api.Get("/ranking", s.getRankingHandler)
	api.Get("/exceptions", s.getExceptionsHandler)

	// Configuration endpoints
	api.Get("/config", s.getConfigHandler)
	api.Get("/config/export", s.exportConfigHandler)
}

// Start starts the server
func (s *Server) Start() error {
	address := s.config.Server.Host + ":" + s.config.Server.Port

	s.logger.WithComponent(logging.ComponentAPI).
		WithEvent(logging.EventServerStart).
		WithFields(map[string]interface{}{
			"address": address,
		}).
		Info("Starting HTTP server")

	return s.app.Listen(address)
}

// Stop gracefully stops the server
func (s *Server) Stop() error {
	s.logger.WithComponent(logging.ComponentAPI).
		WithEvent(logging.EventServerStop).
		Info("Stopping HTTP server")
	return s.app.Shutdown()
}

// dashboardHandler serves the embedded single-page dashboard
func (s *Server) dashboardHandler(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(dashboardHTML)
}

// errorHandler handles Fiber errors
func errorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		// Check if it's a Fiber error
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// Log the error
		logger.WithComponent(logging.ComponentAPI).
			WithFields(map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
				"status": code,
			}).
			WithError(err).
			Error("HTTP request error")

		// Return error response
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}
}
