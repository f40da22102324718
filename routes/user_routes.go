package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, users *controllers.UserController) {
	api := app.Group(config.MAIN_ROUTES+"/users", middleware.Identity)
	api.Get("/", users.GetAllUsers)
	api.Get("/:userId/profile", users.GetProfile)
	api.Put("/:id/status", middleware.RequireRole("Admin"), users.UpdateStatus)
	api.Delete("/:id", middleware.RequireRole("Admin"), users.DeleteUser)
}
