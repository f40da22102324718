package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupQCRoutes(app *fiber.App, qc *controllers.QCController) {
	api := app.Group(config.MAIN_ROUTES+"/qc", middleware.Identity)
	api.Get("/reports", qc.GetReports)
	api.Get("/reports/export", qc.ExportReports)
	api.Get("/product/:productId", qc.GetProduct)
	api.Get("/task-product/:productId", qc.GetTaskProduct)
	api.Get("/tasks", qc.GetPendingTasks)
	api.Post("/report", qc.SubmitReport)
	api.Get("/report/:productId", qc.GetReportByProduct)
}
