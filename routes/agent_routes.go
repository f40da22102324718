package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAgentRoutes(app *fiber.App, agent *controllers.AgentController, reports *controllers.AgentReportController) {
	api := app.Group(config.MAIN_ROUTES+"/agent", middleware.Identity)
	api.Post("/reports", reports.CreateReport)
	api.Get("/reports", reports.GetReports)
	api.Post("/returns/:returnCode/verify", agent.VerifyReturn)
	api.Post("/returns/:returnCode/report", agent.ReportReturn)
	api.Post("/bags", agent.CreateBag)
	api.Get("/bags/:bagId", agent.GetBag)
	api.Post("/bags/:bagId/assign", agent.AssignReturn)
	api.Post("/bags/:bagCode/seal", agent.SealBag)
	api.Post("/deliver-to-warehouse", agent.DeliverToWarehouse)
	api.Get("/:agentId/summary", agent.GetSummary)
	api.Get("/:agentId/pickups", agent.GetPickups)
	api.Get("/:agentId/bags", agent.GetAgentBags)
}
