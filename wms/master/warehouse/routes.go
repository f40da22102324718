package warehouse

import (
	"retrack-app/config"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupWarehouseRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group(config.MAIN_ROUTES+"/warehouses", middleware.Identity)
	handler := NewWarehouseHandler(db)

	api.Get("/", handler.GetAllWarehouses)
	api.Get("/:id", handler.GetWarehouse)
}
