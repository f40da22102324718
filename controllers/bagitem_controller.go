package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

// BagItemController serves warehouse reconciliation of a delivered bag.
type BagItemController struct {
	Reconciliation *services.ReconciliationService
}

func NewBagItemController(rec *services.ReconciliationService) *BagItemController {
	return &BagItemController{Reconciliation: rec}
}

func (c *BagItemController) GetItemsForBag(ctx *fiber.Ctx) error {
	bagID, err := helpers.ParamUint(ctx, "bagId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	items, err := c.Reconciliation.ListItems(requestContext(ctx), bagID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Items retrieved successfully", items)
}

func (c *BagItemController) ScanItem(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	expected, err := helpers.BindString(ctx, "expected")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	item, err := c.Reconciliation.ScanItem(requestContext(ctx), id, expected)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Item scanned", item)
}

func (c *BagItemController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	status, err := helpers.BindString(ctx, "status")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	item, err := c.Reconciliation.SetItemStatus(requestContext(ctx), id, status)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Item status updated", item)
}

// SearchReturn adds a return found in the bag, or returns the existing item.
func (c *BagItemController) SearchReturn(ctx *fiber.Ctx) error {
	var input struct {
		BagID            uint   `json:"bagId" validate:"required"`
		ReturnCode       string `json:"returnCode"`
		ReturnIdentifier string `json:"returnIdentifier"`
	}
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	code, err := helpers.FirstNonEmpty("returnCode", input.ReturnCode, input.ReturnIdentifier)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	item, created, err := c.Reconciliation.SearchReturnInBag(requestContext(ctx), input.BagID, code)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	status, message := fiber.StatusOK, "Return already in bag"
	if created {
		status, message = fiber.StatusCreated, "Return added to bag"
	}
	return ctx.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    item,
	})
}

func (c *BagItemController) FinishBag(ctx *fiber.Ctx) error {
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
