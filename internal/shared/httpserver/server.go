package httpserver

import (
	"context"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	app *fiber.App
}

var log = logger.GetLogger()

// Options wires the optional observability pieces of the server.
type Options struct {
	Metrics  *metrics.ServerMetrics
	Gatherer prometheus.Gatherer
}

func NewServer(opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "bidmarket",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		BodyLimit:             30 * 1024 * 1024, // five 5MB images plus form fields
	})

	app.Use(recover.New())
	// logging + metrics, also renders errors so the observed status is the final one
	app.Use(observe(opts.Metrics))

	// health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(opts.Gatherer)))
	}

	return &Server{app: app}
}

// App exposes the fiber app so every bounded context registers its routes.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(addr string) error {
	log.Info("HTTP server started", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server...")
	return s.app.ShutdownWithContext(ctx)
}

func observe(m *metrics.ServerMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)
		route := c.Route().Path

		log.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("remote_addr", c.IP()),
		)

		if m != nil {
			m.Requests.WithLabelValues(c.Method(), route, statusLabel(status)).Inc()
			m.LatencyMS.WithLabelValues(c.Method(), route).Observe(float64(latency.Milliseconds()))
		}
		return nil
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
