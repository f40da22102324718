package controllers

import (
	"path/filepath"
	"strings"

	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type ReturnController struct {
	Returns *services.ReturnService
	Intake  *services.IntakeService
}

func NewReturnController(returns *services.ReturnService, intake *services.IntakeService) *ReturnController {
	return &ReturnController{Returns: returns, Intake: intake}
}

func (c *ReturnController) GetReturn(ctx *fiber.Ctx) error {
	ret, err := c.Returns.Get(requestContext(ctx), ctx.Params("code"))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Return retrieved successfully", ret)
}

func (c *ReturnController) CompleteReturn(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	ret, err := c.Returns.Complete(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Return completed", ret)
}

// ImportReturns accepts a CSV or XLSX file in the "file" form field.
func (c *ReturnController) ImportReturns(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get file",
		})
	}

	src, err := file.Open()
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	defer src.Close()

	var rows []services.IntakeRow
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".csv":
		rows, err = services.ParseIntakeCSV(src)
	case ".xlsx":
		rows, err = services.ParseIntakeXLSX(src)
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Only .csv and .xlsx files are supported",
		})
	}
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	result, err := c.Intake.Import(requestContext(ctx), rows)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Import completed", result)
}
