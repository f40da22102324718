package controllers

import (
	"bufio"
	"fmt"
	"time"

	"retrack-app/controllers/helpers"
	"retrack-app/logger"
	"retrack-app/models"
	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const streamKeepAlive = 25 * time.Second

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

func parseRole(ctx *fiber.Ctx) (models.NotificationRole, error) {
	role, err := models.ParseNotificationRole(ctx.Query("role"))
	if err != nil {
		return "", &services.Error{Kind: services.KindValidation, Message: err.Error()}
	}
	return role, nil
}

func (c *NotificationController) GetNotifications(ctx *fiber.Ctx) error {
	role, err := parseRole(ctx)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	notes, err := c.Notifications.List(requestContext(ctx), role, ctx.QueryInt("limit", 0))
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Notifications retrieved successfully", notes)
}

func (c *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	id, err := helpers.ParamUint(ctx, "id")
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	note, err := c.Notifications.MarkRead(requestContext(ctx), id)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	return helpers.Success(ctx, "Notification marked as read", note)
}

// Stream pushes new notifications for a role as server-sent events.
func (c *NotificationController) Stream(ctx *fiber.Ctx) error {
	role, err := parseRole(ctx)
	if err != nil {
		return helpers.ErrorResponse(ctx, err)
	}
	hub := c.Notifications.Hub()
	if hub == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Live notifications are disabled",
		})
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	client := hub.Subscribe(string(role))
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer hub.Unsubscribe(client.ID)

		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()

		fmt.Fprintf(w, "event: connected\ndata: {\"role\":%q}\n\n", role)
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-client.Events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			// client pergi
			if err := w.Flush(); err != nil {
				logger.L().Debug("sse client gone", zap.String("client", client.ID), zap.Error(err))
				return
			}
		}
	}))
	return nil
}
