package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config customises the middleware registration pipeline.
type Config struct {
	Logger          *zerolog.Logger
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Register attaches the common middlewares used across the API. The limiter
// is only installed when RateLimitMax is positive.
func Register(app *fiber.App, cfg Config) {
	requestLogger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		requestLogger = *cfg.Logger
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(Observability(requestLogger))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:correlation_id}\n",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(RateLimit("students", cfg.RateLimitMax, cfg.RateLimitWindow))
	}
}
