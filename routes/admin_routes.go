package routes

import (
	"retrack-app/config"
	"retrack-app/controllers"
	"retrack-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuditRoutes(app *fiber.App, audit *controllers.AuditController) {
	api := app.Group(config.MAIN_ROUTES+"/audit", middleware.Identity)
	api.Get("/auditlogs", audit.GetAuditLogs)
	api.Get("/auditlogs/:id", audit.GetAuditLog)
}

func SetupIssueRoutes(app *fiber.App, issues *controllers.IssueController) {
	api := app.Group(config.MAIN_ROUTES+"/issuereports", middleware.Identity)
	api.Get("/", issues.GetIssues)
	api.Post("/", issues.CreateIssue)
	api.Put("/:id/status", issues.UpdateStatus)
}

func SetupOverviewRoutes(app *fiber.App, overview *controllers.OverviewController) {
	api := app.Group(config.MAIN_ROUTES+"/overview", middleware.Identity)
	api.Get("/today", overview.GetToday)
	api.Get("/agent/:agentId/today", overview.GetAgentToday)

	admin := app.Group(config.MAIN_ROUTES+"/admin", middleware.Identity)
	admin.Get("/summary", overview.GetAdminSummary)
	admin.Get("/trends", overview.GetAdminTrends)

	app.Get(config.MAIN_ROUTES+"/risk/scores", middleware.Identity, overview.GetRiskScores)
}
