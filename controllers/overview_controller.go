package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type OverviewController struct {
	Overview *services.OverviewService
	Risk     *services.RiskService
}

func NewOverviewController(overview *services.OverviewService, risk *services.RiskService) *OverviewController {
	return &OverviewController{Overview: overview, Risk: risk}
}

func (c *OverviewController) GetToday(ctx *fiber.Ctx) error {
	day, err := c.Overview.Today(requestContext(ctx), nil)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Overview retrieved successfully", day)
}

func (c *OverviewController) GetAgentToday(ctx *fiber.Ctx) error {
	agentID, err := helpers.ParamUint(ctx, "agentId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	day, err := c.Overview.Today(requestContext(ctx), &agentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Overview retrieved successfully", day)
}

func (c *OverviewController) GetAdminSummary(ctx *fiber.Ctx) error {
	summary, err := c.Overview.Summary(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Summary retrieved successfully", summary)
}

func (c *OverviewController) GetAdminTrends(ctx *fiber.Ctx) error {
	trends, err := c.Overview.Trends(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Trends retrieved successfully", trends)
}

func (c *OverviewController) GetRiskScores(ctx *fiber.Ctx) error {
	scores, err := c.Risk.Scores(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Risk scores retrieved successfully", scores)
}
