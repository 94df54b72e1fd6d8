package api

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/seriesboard/pkg/models"
)

// healthHandler handles health check requests
func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "seriesboard",
		"version": "1.0.0",
	})
}

// readyHandler handles readiness probe requests
func (s *Server) readyHandler(c *fiber.Ctx) error {
	// The session is constructed before the server; a running server is
	// ready by definition.
	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"config":  "ok",
			"dataset": "ok",
		},
	})
}

// metricsHandler handles Prometheus metrics endpoint
func (s *Server) metricsHandler(c *fiber.Ctx) error {
	// Set content type for Prometheus metrics
	c.Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	// Create a buffer to capture the metrics
	var buf bytes.Buffer

	// Create a fake HTTP request and response writer
	req, _ := http.NewRequest("GET", "/metrics", nil)
	rw := &responseWriter{Buffer: &buf, header: make(http.Header)}

	// Get the Prometheus handler for our custom registry and call it
	gatherer, ok := s.prometheusReg.(prometheus.Gatherer)
	if !ok {
		return c.Status(500).SendString("Error: registry does not implement Gatherer interface")
	}
	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	handler.ServeHTTP(rw, req)

	// Return the captured metrics
	return c.SendString(buf.String())
}

// responseWriter is a simple implementation of http.ResponseWriter for capturing metrics
type responseWriter struct {
	*bytes.Buffer
	header http.Header
}

func (rw *responseWriter) Header() http.Header {
	return rw.header
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	// Do nothing, we don't need to track status codes for metrics
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	return rw.Buffer.Write(data)
}

// postEventHandler dispatches one browser event against the session. A
// rejected transition still answers 200: the validation message is part of
// the render update, shown inline next to the offending control.
func (s *Server) postEventHandler(c *fiber.Ctx) error {
	var ev models.Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}
	if ev.Trigger == "" || ev.Kind == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "trigger and kind are required",
		})
	}

	return c.JSON(s.session.HandleEvent(ev))
}

// getStateHandler returns the current view state
func (s *Server) getStateHandler(c *fiber.Ctx) error {
	return c.JSON(s.session.View())
}

// getSeriesHandler returns the sorted series-id universe
func (s *Server) getSeriesHandler(c *fiber.Ctx) error {
	ids := s.session.SeriesIDs()
	return c.JSON(fiber.Map{
		"series":        ids,
		"total":         len(ids),
		"display_count": s.session.DisplayCount(),
	})
}

// getChartHandler renders the main chart from the current state
func (s *Server) getChartHandler(c *fiber.Ctx) error {
	return c.JSON(s.session.Chart())
}

// getMapHandler renders the geographic map
func (s *Server) getMapHandler(c *fiber.Ctx) error {
	fig, ok := s.session.Map()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "No geographic columns configured",
		})
	}
	return c.JSON(fig)
}

// getRankingHandler returns the ranking rows in the current sort order
func (s *Server) getRankingHandler(c *fiber.Ctx) error {
	rows, ok := s.session.Ranking()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "No ranking table configured",
		})
	}
	return c.JSON(fiber.Map{
		"rows":  rows,
		"total": len(rows),
	})
}

// getExceptionsHandler renders the exceptions route figures
func (s *Server) getExceptionsHandler(c *fiber.Ctx) error {
	view, ok := s.session.Exceptions()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Exception analysis is not enabled",
		})
	}
	return c.JSON(view)
}

// getConfigHandler returns the current configuration (sanitized)
func (s *Server) getConfigHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"server": fiber.Map{
			"port":            s.config.Server.Port,
			"host":            s.config.Server.Host,
			"enableDashboard": s.config.Server.EnableDashboard,
		},
		"metrics": s.config.Metrics,
		"logging": fiber.Map{
			"level":  s.config.Logging.Level,
			"format": s.config.Logging.Format,
		},
		"data": fiber.Map{
			"seriesPath":     s.config.Data.SeriesPath,
			"rankingPath":    s.config.Data.RankingPath,
			"exceptionsPath": s.config.Data.ExceptionsPath,
			"displayCount":   s.config.Data.DisplayCount,
			"columns":        s.config.Data.Columns,
		},
	})
}

// exportConfigHandler returns the full configuration as a YAML document
func (s *Server) exportConfigHandler(c *fiber.Ctx) error {
	out, err := yaml.Marshal(s.config)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to marshal configuration",
		})
	}

	c.Set("Content-Type", "application/x-yaml")
	c.Set("Content-Disposition", "attachment; filename=seriesboard.yaml")
	return c.Send(out)
}
