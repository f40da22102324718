package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type AgentController struct {
	Returns *services.ReturnService
	Bags    *services.BagService
}

func NewAgentController(returns *services.ReturnService, bags *services.BagService) *AgentController {
	return &AgentController{Returns: returns, Bags: bags}
}

func (c *AgentController) GetSummary(ctx *fiber.Ctx) error {
	agentID, err := helpers.ParamUint(ctx, "agentId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	summary, err := c.Returns.AgentSummary(requestContext(ctx), agentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Summary retrieved successfully", summary)
}

func (c *AgentController) GetPickups(ctx *fiber.Ctx) error {
	agentID, err := helpers.ParamUint(ctx, "agentId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	page, err := c.Returns.ListPickups(requestContext(ctx), agentID, ctx.QueryInt("page", 1), ctx.QueryInt("pageSize", 25))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Pickups retrieved successfully", page)
}

func (c *AgentController) VerifyReturn(ctx *fiber.Ctx) error {
	var input struct {
		AgentID uint `json:"agentId"`
	}
	if err := helpers.BindOptional(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	agentID, err := pickupAgentID(ctx, input.AgentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	ret, err := c.Returns.Verify(requestContext(ctx), ctx.Params("returnCode"), agentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Return verified",
		"data": fiber.Map{
			"returnId":     ret.ID,
			"returnCode":   ret.ReturnCode,
			"pickupStatus": ret.PickupStatus,
		},
	})
}

func (c *AgentController) ReportReturn(ctx *fiber.Ctx) error {
	var input struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	result, err := c.Returns.Report(requestContext(ctx), ctx.Params("returnCode"), input.Reason)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, result.Message, result)
}

func (c *AgentController) CreateBag(ctx *fiber.Ctx) error {
	var input struct {
		AgentID       uint `json:"agentId"`
		PickupAgentID uint `json:"pickupAgentId"`
	}
	if err := helpers.BindOptional(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	agentID, err := pickupAgentID(ctx, input.AgentID, input.PickupAgentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	bag, err := c.Bags.CreateBag(requestContext(ctx), agentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Bag created successfully",
		"data":    bag,
	})
}

func (c *AgentController) GetAgentBags(ctx *fiber.Ctx) error {
	agentID, err := helpers.ParamUint(ctx, "agentId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	bags, err := c.Bags.ListForAgent(requestContext(ctx), agentID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bags retrieved successfully", bags)
}

func (c *AgentController) GetBag(ctx *fiber.Ctx) error {
	bagID, err := helpers.ParamUint(ctx, "bagId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	bag, err := c.Bags.Get(requestContext(ctx), bagID)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bag retrieved successfully", bag)
}

func (c *AgentController) AssignReturn(ctx *fiber.Ctx) error {
	bagID, err := helpers.ParamUint(ctx, "bagId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	var input struct {
		ReturnCode       string `json:"returnCode"`
		ReturnIdentifier string `json:"returnIdentifier"`
	}
	if err := helpers.BindOptional(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	code, err := helpers.FirstNonEmpty("returnCode", input.ReturnCode, input.ReturnIdentifier)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	item, err := c.Bags.AssignReturn(requestContext(ctx), bagID, code)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Return assigned to bag",
		"data":    item,
	})
}

func (c *AgentController) SealBag(ctx *fiber.Ctx) error {
	bag, sealed, err := c.Bags.SealBag(requestContext(ctx), ctx.Params("bagCode"))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	message := "Bag sealed successfully"
	if !sealed {
		message = "Bag already sealed"
	}
	return helpers.Success(ctx, message, bag)
}

func (c *AgentController) DeliverToWarehouse(ctx *fiber.Ctx) error {
	// body: [1,2] atau {"bagIds":[1,2]}
	bagIDs, err := helpers.BindUintList(ctx, "bagIds")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	result, err := c.Bags.DeliverToWarehouse(requestContext(ctx), bagIDs)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Bags delivered to warehouse", result)
}
