package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type IssueController struct {
	Issues *services.IssueService
}

func NewIssueController(issues *services.IssueService) *IssueController {
	return &IssueController{Issues: issues}
}

func (c *IssueController) GetIssues(ctx *fiber.Ctx) error {
	issues, err := c.Issues.List(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Issues retrieved successfully", issues)
}

func (c *IssueController) CreateIssue(ctx *fiber.Ctx) error {
	var input services.IssueInput
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	issue, err := c.Issues.Create(requestContext(ctx), input)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Issue reported",
		"data":    issue,
	})
}

func (c *IssueController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	issue, err := c.Issues.UpdateStatus(requestContext(ctx), id, input.Status)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Issue updated", issue)
}
