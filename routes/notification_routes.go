package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notifications *controllers.NotificationController) {
	api := app.Group(config.MAIN_ROUTES+"/notifications", middleware.Identity)
	api.Get("/", notifications.GetNotifications)
	api.Get("/stream", notifications.Stream)
	api.Put("/:id/read", notifications.MarkRead)
}
