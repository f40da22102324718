package controllers

import (
	"time"

	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type QCController struct {
	QC     *services.QCService
	Export *services.ExportService
}

func NewQCController(qc *services.QCService, export *services.ExportService) *QCController {
	return &QCController{QC: qc, Export: export}
}

func (c *QCController) GetReports(ctx *fiber.Ctx) error {
	reports, err := c.QC.ListReports(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Reports retrieved successfully", reports)
}

func (c *QCController) GetProduct(ctx *fiber.Ctx) error {
	product, err := c.QC.GetProduct(ctx.Params("productId"))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Product retrieved successfully", product)
}

func (c *QCController) GetTaskProduct(ctx *fiber.Ctx) error {
	product, err := c.QC.GetTaskProduct(requestContext(ctx), ctx.Params("productId"))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Product retrieved successfully", product)
}

func (c *QCController) GetPendingTasks(ctx *fiber.Ctx) error {
	tasks, err := c.QC.ListPendingTasks(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Tasks retrieved successfully", tasks)
}

func (c *QCController) SubmitReport(ctx *fiber.Ctx) error {
	var input services.QCReportInput
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	report, err := c.QC.SubmitReport(requestContext(ctx), input)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "QC report submitted",
		"data":    report,
	})
}

func (c *QCController) GetReportByProduct(ctx *fiber.Ctx) error {
	report, err := c.QC.GetReportByProduct(requestContext(ctx), ctx.Params("productId"))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Report retrieved successfully", report)
}

func (c *QCController) ExportReports(ctx *fiber.Ctx) error {
	buf, err := c.Export.QCReports(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	filename := "qc_reports_" + time.Now().Format("20060102") + ".xlsx"
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	return ctx.Send(buf.Bytes())
}
