package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/student-management-api/internal/config"
	"github.com/noah-isme/student-management-api/internal/handler"
	"github.com/noah-isme/student-management-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	StudentHandler  *handler.StudentHandler
	ActivityHandler *handler.ActivityHandler
	DB              *gorm.DB
	Logger          zerolog.Logger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB, deps.Logger))

	app.Get("/metrics", observability.MetricsHandler())

	if deps.StudentHandler != nil {
		// an empty AllowHeaders echoes whatever the preflight asks for
		students := api.Group("/students", cors.New(cors.Config{
			AllowOrigins: cfg.CORSAllowedOrigin,
			AllowMethods: "GET,POST,PUT,DELETE",
		}))
		deps.StudentHandler.Register(students)
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activities"))
	}
}
