package helpers

import (
	"bytes"
	"strings"

	"retrack-app/services"

	"github.com/gofiber/fiber/v2"
)

func invalidBody() error {
	return &services.Error{Kind: services.KindValidation, Message: "Invalid request body"}
}

func required(field string) error {
	return &services.Error{Kind: services.KindValidation, Message: field + " is required"}
}

func trimmedBody(ctx *fiber.Ctx) []byte {
	return bytes.TrimSpace(ctx.Body())
}

// BindOptional parses a JSON object body into dst. An empty body is allowed
// and leaves dst untouched.
func BindOptional(ctx *fiber.Ctx, dst interface{}) error {
	if len(trimmedBody(ctx)) == 0 {
		return nil
	}
	if err := ctx.App().Config().JSONDecoder(trimmedBody(ctx), dst); err != nil {
		return invalidBody()
	}
	return nil
}

// BindUintList reads a list of ids sent either as a bare JSON array or as
// the named field of an object, e.g. [1,2] or {"bagIds":[1,2]}.
func BindUintList(ctx *fiber.Ctx, field string) ([]uint, error) {
	body := trimmedBody(ctx)
	decode := ctx.App().Config().JSONDecoder
	if len(body) > 0 && body[0] == '[' {
		var ids []uint
		if err := decode(body, &ids); err != nil {
			return nil, invalidBody()
		}
		return ids, nil
	}

	var obj map[string]interface{}
	if err := BindOptional(ctx, &obj); err != nil {
		return nil, err
	}
	raw, _ := obj[field].([]interface{})
	ids := make([]uint, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(float64)
		if !ok || n < 0 || n != float64(uint(n)) {
			return nil, invalidBody()
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// BindString reads a value sent either as a bare JSON string ("Yes") or as
// the named field of an object ({"expected":"Yes"}).
func BindString(ctx *fiber.Ctx, field string) (string, error) {
	body := trimmedBody(ctx)
	decode := ctx.App().Config().JSONDecoder
	var value string
	if len(body) > 0 && body[0] == '"' {
		if err := decode(body, &value); err != nil {
			return "", invalidBody()
		}
	} else {
		var obj map[string]interface{}
		if err := BindOptional(ctx, &obj); err != nil {
			return "", err
		}
		value, _ = obj[field].(string)
	}
	if strings.TrimSpace(value) == "" {
		return "", required(field)
	}
	return value, nil
}

// FirstNonEmpty returns the first value that is not blank, or a validation
// error naming field.
func FirstNonEmpty(field string, values ...string) (string, error) {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", required(field)
}
