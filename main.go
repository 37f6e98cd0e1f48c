package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"market-book/src/config"
	"market-book/src/feed"
	"market-book/src/handlers"
	"market-book/src/logger"
	"market-book/src/market"
	"market-book/src/observer"
	"market-book/src/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.InitLogger(config.Default().Log)
		l := logger.GetLogger()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.InitLogger(cfg.Log)
	log := logger.GetLogger()

	log.Info().Str("app", cfg.App.Name).Msg("Initializing market book")

	counter := observer.NewCounter()
	manager := market.NewManager(market.Handlers{counter, observer.NewJournal(log)})
	applier := feed.NewApplier(manager, log)

	if cfg.Feed.ReplayFile != "" {
		replayFile(cfg.Feed.ReplayFile, applier)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	consumerDone := make(chan struct{})
	if cfg.Feed.KafkaEnabled {
		consumer := feed.NewConsumer(cfg.Feed, applier)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Feed consumer failed")
			}
			if err := consumer.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing feed consumer")
			}
		}()
	} else {
		close(consumerDone)
	}

	bookHandler := handlers.NewBookHandler(applier, counter, cfg)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			log.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("status", code).
				Str("error", err.Error()).
				Msg("Request error")

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	availability := routes.SetupRoutes(app, bookHandler, cfg.HTTP)

	port := ":" + strconv.Itoa(cfg.App.Port)

	serverError := make(chan error, 1)

	go func() {
		if err := app.Listen(port); err != nil {
			// edge case: ignore shutdown errors, only report real errors
			if err.Error() != "server is shutting down" {
				serverError <- err
			}
		}
	}()

	select {
	case err := <-serverError:
		log.Fatal().
			Err(err).
			Str("port", port).
			Str("hint", "Port may be already in use. Try: APP_PORT=3000 go run main.go").
			Msg("Server failed to start")
	case <-time.After(100 * time.Millisecond):
		log.Info().
			Str("port", port).
			Bool("kafka_feed", cfg.Feed.KafkaEnabled).
			Msg("Market book started")

		log.Info().
			Strs("endpoints", []string{
				"POST   /api/v1/events",
				"GET    /api/v1/symbols",
				"GET    /api/v1/orderbook/:symbol",
				"GET    /api/v1/orders/:id",
				"GET    /health",
				"GET    /metrics",
			}).
			Msg("API endpoints registered")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGUSR1)
	for sig := range quit {
		// SIGUSR1 toggles maintenance mode without restarting.
		if sig == syscall.SIGUSR1 {
			availability.SetMaintenanceMode(!availability.IsMaintenanceMode())
			continue
		}
		break
	}
	log.Info().Msg("Received shutdown signal, shutting down...")

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		// edge case: timeout during shutdown is acceptable
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().
				Dur("timeout", cfg.App.ShutdownTimeout).
				Msg("Timeout exceeded, shutting down...")
		} else {
			log.Error().
				Err(err).
				Msg("Error during shutdown")
		}
	} else {
		log.Info().Msg("Shutdown complete")
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Feed consumer did not stop before shutdown timeout")
	}

	logger.CloseLogger()
}

func replayFile(path string, applier *feed.Applier) {
	log := logger.GetLogger()

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open replay file")
	}
	defer f.Close()

	start := time.Now()
	res, err := feed.Replay(context.Background(), f, applier)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Replay failed")
	}

	log.Info().
		Str("file", path).
		Int("lines", res.Lines).
		Int("malformed", res.Malformed).
		Int("rejected", res.Rejected).
		Dur("elapsed", time.Since(start)).
		Msg("Replay complete")
}
