package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type WarehouseController struct {
	Bags       *services.BagService
	Forwarding *services.ForwardingService
}

func NewWarehouseController(bags *services.BagService, forwarding *services.ForwardingService) *WarehouseController {
	return &WarehouseController{Bags: bags, Forwarding: forwarding}
}

func (c *WarehouseController) GetBag(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	bag, err := c.Bags.Get(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bag retrieved successfully", bag)
}

func (c *WarehouseController) ForwardToQC(ctx *fiber.Ctx) error {
	bagID, err := helpers.ParamUint(ctx, "bagId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	count, err := c.Forwarding.ForwardToQC(requestContext(ctx), bagID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Items forwarded to QC", fiber.Map{"forwarded": count})
}
