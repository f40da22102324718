package controllers

import (
	"context"
	"strings"

	"retrack-app/middleware"
	"retrack-app/models"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

// requestContext carries the request deadline and the authenticated actor
// into the service layer.
func requestContext(ctx *fiber.Ctx) context.Context {
	return services.WithActor(ctx.UserContext(), middleware.ActorID(ctx))
}

// pickupAgentID resolves the acting agent. A pickup agent's bearer token
// wins over ids sent in the body, which win over ?agentId=.
func pickupAgentID(ctx *fiber.Ctx, sent ...uint) (uint, error) {
	if id := middleware.ActorID(ctx); id != nil {
		if role, _ := ctx.Locals("role").(string); strings.EqualFold(role, string(models.RolePickupAgent)) {
			return *id, nil
		}
	}
	for _, id := range sent {
		if id != 0 {
			return id, nil
		}
	}
	if id := ctx.QueryInt("agentId"); id > 0 {
		return uint(id), nil
	}
	return 0, &services.Error{Kind: services.KindValidation, Message: "agentId is required"}
}
