package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupBagRoutes(app *fiber.App, bags *controllers.BagController, items *controllers.BagItemController) {
	api := app.Group(config.MAIN_ROUTES+"/bags", middleware.Identity)
	api.Get("/", bags.GetAllBags)
	api.Post("/", bags.CreateBag)
	api.Get("/warehouse-staff/:userId", bags.GetWarehouseStaffBags)
	api.Get("/:id", bags.GetBag)
	api.Get("/:id/manifest/export", bags.ExportManifest)
	api.Put("/:id/seal", bags.SealBag)
	api.Put("/:id/seal-integrity", bags.SetSealIntegrity)
	api.Put("/:id/finish", bags.FinishBag)
	api.Delete("/:id/empty", bags.EmptyBag)

	bi := app.Group(config.MAIN_ROUTES+"/bagitems", middleware.Identity)
	bi.Get("/bag/:bagId", items.GetItemsForBag)
	bi.Post("/", items.SearchReturn)
	bi.Put("/:id/scan", items.ScanItem)
	bi.Put("/:id/status", items.UpdateStatus)
	bi.Put("/:id/finish", items.FinishBag)
}
