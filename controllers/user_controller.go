package controllers

import (
	"retrack-app/controllers/helpers"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (c *UserController) GetAllUsers(ctx *fiber.Ctx) error {
	users, err := c.Users.GetAllUsers(requestContext(ctx), ctx.Query("role"), ctx.Query("status"))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    users,
		"total":   len(users),
	})
}

func (c *UserController) GetProfile(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "userId")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	user, err := c.Users.GetUserByID(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "User retrieved successfully", user)
}

func (c *UserController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	var input services.UpdateUserStatusInput
	if err := helpers.BindAndValidate(ctx, &input); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}

	user, err := c.Users.UpdateStatus(requestContext(ctx), id, input)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "User status updated", user)
}

func (c *UserController) DeleteUser(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	if err := c.Users.DeleteUser(requestContext(ctx), id); err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
