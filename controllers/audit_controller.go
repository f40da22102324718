package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"
	"retrack-app/types"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

func (c *AuditController) GetAuditLogs(ctx *fiber.Ctx) error {
	var userID *uint
	if v := ctx.QueryInt("userId", 0); v > 0 {
		id := uint(v)
		userID = &id
	}
	logs, err := c.Audit.List(requestContext(ctx), ctx.QueryInt("limit", 0), userID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Audit logs retrieved successfully", logs)
}

func (c *AuditController) GetAuditLog(ctx *fiber.Ctx) error {
	id, err := types.ParseSnowflakeID(ctx.Params("id"))
	if err != nil {
		return helpers.ErrorResponse(ctx, &services.Error{Kind: services.KindValidation, Message: "Invalid id"})
	}
	entry, err := c.Audit.Get(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Audit log retrieved successfully", entry)
}
