package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type BagController struct {
	Bags           *services.BagService
	Reconciliation *services.ReconciliationService
	Export         *services.ExportService
}

func NewBagController(bags *services.BagService, rec *services.ReconciliationService, export *services.ExportService) *BagController {
	return &BagController{Bags: bags, Reconciliation: rec, Export: export}
}

func (c *BagController) GetAllBags(ctx *fiber.Ctx) error {
	bags, err := c.Bags.ListAll(requestContext(ctx))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bags retrieved successfully", bags)
}

func (c *BagController) GetBag(ctx *fiber.Ctx) error {
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

func (c *BagController) CreateBag(ctx *fiber.Ctx) error {
	var input struct {
		PickupAgentID uint `json:"pickupAgentId" validate:"required"`
	}
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	bag, err := c.Bags.CreateBag(requestContext(ctx), input.PickupAgentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Bag created successfully",
		"data":    bag,
	})
}

// SealBag seals by id; the agent flow seals by bag code.
func (c *BagController) SealBag(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	rc := requestContext(ctx)
	bag, err := c.Bags.Get(rc, id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	sealedBag, sealed, err := c.Bags.SealBag(rc, bag.BagCode)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	message := "Bag sealed successfully"
	if !sealed {
		message = "Bag already sealed"
	}
	return helpers.Success(ctx, message, sealedBag)
}

func (c *BagController) EmptyBag(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	removed, err := c.Bags.EmptyBag(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bag emptied", fiber.Map{"removed": removed})
}

func (c *BagController) GetWarehouseStaffBags(ctx *fiber.Ctx) error {
	userID, err := helpers.ParamUint(ctx, "userId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	bags, err := c.Bags.ListForWarehouseStaff(requestContext(ctx), userID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bags retrieved successfully", bags)
}

func (c *BagController) SetSealIntegrity(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	var input struct {
		SealIntegrity string `json:"sealIntegrity" validate:"required"`
	}
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	bag, err := c.Reconciliation.SetSealIntegrity(requestContext(ctx), id, input.SealIntegrity)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Seal integrity updated", bag)
}

func (c *BagController) FinishBag(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	result, err := c.Reconciliation.FinishBag(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bag finished", result)
}

func (c *BagController) ExportManifest(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	filename, buf, err := c.Export.BagManifest(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", "attachment; filename="+filename)
	return ctx.Send(buf.Bytes())
}
