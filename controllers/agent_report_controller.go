package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type AgentReportController struct {
	Returns *services.ReturnService
}

func NewAgentReportController(returns *services.ReturnService) *AgentReportController {
	return &AgentReportController{Returns: returns}
}

func (c *AgentReportController) CreateReport(ctx *fiber.Ctx) error {
	var input services.AgentReportInput
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	report, status, err := c.Returns.RecordAgentReport(requestContext(ctx), input)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Report submitted",
		"data": fiber.Map{
			"report":       report,
			"pickupStatus": status,
		},
	})
}

func (c *AgentReportController) GetReports(ctx *fiber.Ctx) error {
	agentID := uint(ctx.QueryInt("agentId", 0))
	reports, err := c.Returns.ListAgentReports(requestContext(ctx), agentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Reports retrieved successfully", reports)
}
