package routes

import (
	"retrack-app/controllers"
	"retrack-app/services"
	"retrack-app/wms/master/warehouse"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services is everything the HTTP layer talks to.
type Services struct {
	DB             *gorm.DB
	Returns        *services.ReturnService
	Bags           *services.BagService
	Reconciliation *services.ReconciliationService
	Forwarding     *services.ForwardingService
	QC             *services.QCService
	Notifications  *services.NotificationService
	Audit          *services.AuditService
	Intake         *services.IntakeService
	Export         *services.ExportService
	Issues         *services.IssueService
	Overview       *services.OverviewService
	Risk           *services.RiskService
	Users          *services.UserService
}

func SetupRoutes(app *fiber.App, s *Services) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	SetupAgentRoutes(app, controllers.NewAgentController(s.Returns, s.Bags), controllers.NewAgentReportController(s.Returns))
	SetupBagRoutes(app, controllers.NewBagController(s.Bags, s.Reconciliation, s.Export), controllers.NewBagItemController(s.Reconciliation))
	SetupReturnRoutes(app, controllers.NewReturnController(s.Returns, s.Intake))
	SetupWarehouseOpsRoutes(app, controllers.NewWarehouseController(s.Bags, s.Forwarding))
	SetupQCRoutes(app, controllers.NewQCController(s.QC, s.Export))
	SetupNotificationRoutes(app, controllers.NewNotificationController(s.Notifications))
	SetupAuditRoutes(app, controllers.NewAuditController(s.Audit))
	SetupIssueRoutes(app, controllers.NewIssueController(s.Issues))
	SetupOverviewRoutes(app, controllers.NewOverviewController(s.Overview, s.Risk))
	SetupUserRoutes(app, controllers.NewUserController(s.Users))
	warehouse.SetupWarehouseRoutes(app, s.DB)
}
