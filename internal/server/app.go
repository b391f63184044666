// Package server assembles the HTTP application from its components.
package server

import (
	"errors"
	"fmt"
	"os"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/config"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/handlers"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/metrics"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/middleware"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/pipeline"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options carries the already constructed dependencies of the application.
type Options struct {
	Config    *config.Config
	Store     *repositories.Store
	OCR       pipeline.Engine
	Publisher services.EventPublisher // optional
	Registry  *prometheus.Registry    // optional, a fresh one is created when nil
	Logger    *zap.Logger             // optional
	AccessLog bool
}

// New wires the services and handlers and returns the Fiber app.
func New(opts Options) (*fiber.App, error) {
	cfg := opts.Config
	if cfg == nil || opts.Store == nil || opts.OCR == nil {
		return nil, errors.New("config, store and ocr engine are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	// --- Services ---
	processor := pipeline.NewProcessor(opts.OCR, opts.Store.Screenshots, pipeline.Config{
		FingerprintSize: cfg.FingerprintSize,
		OCRTimeout:      cfg.OCRTimeout,
		MaxPixels:       cfg.MaxImagePixels,
	}, log)
	authService := services.NewAuthService(opts.Store.Users, cfg.BcryptCost, log)
	screenshotService := services.NewScreenshotService(opts.Store.Screenshots, processor, opts.Publisher, m, log, cfg.UploadDir)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	screenshotHandler := handlers.NewScreenshotHandler(screenshotService, cfg.UploadDir)

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadBytes,
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	// --- Middleware ---
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.Metrics(m))

	app.Static("/"+services.UploadsPrefix, cfg.UploadDir)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	authHandler.RegisterRoutes(api)
	screenshotHandler.RegisterRoutes(api, authService)

	return app, nil
}

// errorHandler renders errors that escape handlers, such as oversized bodies
// or unknown routes, in the API's error shape.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
