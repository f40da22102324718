package helpers

import (
	"errors"
	"strconv"

	"retrack-app/logger"
	"retrack-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

// ErrorResponse writes err using the status code of its kind. Errors that
// are not domain errors are logged and hidden behind a generic message.
func ErrorResponse(ctx *fiber.Ctx, err error) error {
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		status := fiber.StatusBadRequest
		switch domainErr.Kind {
		case services.KindNotFound:
			status = fiber.StatusNotFound
		case services.KindConflict:
			status = fiber.StatusConflict
		}
		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": domainErr.Error(),
		})
	}

	logger.L().Error("request failed",
		zap.String("path", ctx.Path()),
		zap.Error(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}

// BindAndValidate parses the JSON body into dst and runs the struct tags.
func BindAndValidate(ctx *fiber.Ctx, dst interface{}) error {
	if err := ctx.BodyParser(dst); err != nil {
		return &services.Error{Kind: services.KindValidation, Message: "Invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return &services.Error{Kind: services.KindValidation, Message: err.Error()}
	}
	return nil
}

// ParamUint reads a positive numeric route parameter.
func ParamUint(ctx *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, &services.Error{Kind: services.KindValidation, Message: "Invalid " + name}
	}
	return uint(v), nil
}

func Success(ctx *fiber.Ctx, message string, data interface{}) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}
