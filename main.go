package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/config"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/logging"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/ocr/tesseract"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/repositories"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/server"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"
	"github.com/Ohyesabhi28/Screenshot-Organizer/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// --- Store ---
	// Must be fully loaded before anything else touches it.
	store, err := repositories.Open(cfg.StoreDriver, cfg.DatabasePath, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	// --- Optional RabbitMQ publisher ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient

		eventLog := logger.With(zap.String("component", "events"))
		if err := mqClient.ConsumeEvents(func(msg amqp.Delivery) error {
			eventLog.Debug("screenshot event", zap.String("type", msg.Type), zap.ByteString("body", msg.Body))
			return nil
		}); err != nil {
			logger.Warn("failed to start event consumer", zap.Error(err))
		}
	} else {
		logger.Info("RABBITMQ_URL not set, screenshot events are not published")
	}

	app, err := server.New(server.Options{
		Config:    cfg,
		Store:     store,
		OCR:       tesseract.New(cfg.OCRLanguage),
		Publisher: publisher,
		Logger:    logger,
		AccessLog: true,
	})
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	// --- Start HTTP Server ---
	logger.Info("starting server",
		zap.String("addr", cfg.AppPort),
		zap.String("store", store.Driver),
		zap.String("uploads", cfg.UploadDir))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Error("server stopped listening", zap.Error(err))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
