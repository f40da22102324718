package middleware

import (
	"retrack-app/config"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Identity reads the bearer token issued by the identity provider, if any,
// and stores its claims in Locals. Requests without a token pass through;
// handlers that need an actor take it from the request explicitly.
func Identity(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if authHeader == "" {
		return ctx.Next()
	}

	// Ambil token dari "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid Authorization header format",
		})
	}

	token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized: Invalid signing method")
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: Invalid token",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized: Invalid token",
		})
	}

	if userID, ok := claims["user_id"].(float64); ok {
		ctx.Locals("userID", uint(userID))
	}
	if role, ok := claims["role"].(string); ok {
		ctx.Locals("role", role)
	}
	if city, ok := claims["city"].(string); ok {
		ctx.Locals("city", city)
	}
	return ctx.Next()
}

// RequireRole rejects requests whose token does not carry one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals("role").(string)
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Forbidden: You do not have permission",
		})
	}
}

// ActorID returns the authenticated user id, or nil for anonymous requests.
func ActorID(ctx *fiber.Ctx) *uint {
	if id, ok := ctx.Locals("userID").(uint); ok {
		return &id
	}
	return nil
}
