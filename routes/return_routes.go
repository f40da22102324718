package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupReturnRoutes(app *fiber.App, returns *controllers.ReturnController) {
	api := app.Group(config.MAIN_ROUTES+"/returns", middleware.Identity)
	api.Post("/import", middleware.RequireRole("Admin"), returns.ImportReturns)
	api.Get("/:code", returns.GetReturn)
	api.Put("/:id/complete", returns.CompleteReturn)
}

func SetupWarehouseOpsRoutes(app *fiber.App, wh *controllers.WarehouseController) {
	api := app.Group(config.MAIN_ROUTES+"/warehouse", middleware.Identity)
	api.Get("/:id", wh.GetBag)
	api.Post("/forward-to-qc/:bagId", wh.ForwardToQC)
}
