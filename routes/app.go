package routes

import (
	"errors"

	"retrack-app/config"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

// NewApp builds the HTTP application with the shared middleware stack.
func NewApp(s *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "ReTrack",
		CaseSensitive: false,
		BodyLimit:     10 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return ctx.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	app.Use(middleware.RequestLogger)
	config.SetupCORS(app)
	SetupRoutes(app, s)
	return app
}
