package routes

import (
	"github.com/gofiber/fiber/v2"

	"market-book/src/config"
	"market-book/src/handlers"
	"market-book/src/middleware"
)

func SetupRoutes(app *fiber.App, bookHandler *handlers.BookHandler, cfg config.HTTPConfig) *middleware.ServiceAvailability {
	serviceAvailability := middleware.NewServiceAvailability(cfg)
	app.Use(serviceAvailability.Middleware())
	app.Use(middleware.RequestLogger(cfg.RequestLoggingDisabled))

	api := app.Group("/api/v1")

	if !cfg.RateLimitDisabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		api.Use(rateLimiter.Middleware())
	}

	api.Post("/events", bookHandler.SubmitEvents)
	api.Get("/symbols", bookHandler.GetSymbols)
	api.Get("/orderbook/:symbol", bookHandler.GetOrderBook)
	api.Get("/orders/:id", bookHandler.GetOrder)

	app.Get("/health", bookHandler.HealthCheck)
	app.Get("/metrics", bookHandler.Metrics)

	return serviceAvailability
}
