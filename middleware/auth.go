package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"DentalClinic/Models"
)

const SecretKey = "secret"

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": message})
}

// Verify authenticates the JWT cookie, stashes the staff account in the
// request locals, and enforces the minimum permission level for the
// route group. Levels: 1 staff, 3 senior, 4 admin.
func Verify(requiredPermission int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("jwt")
		if cookie == "" {
			return unauthorized(c, "Not Logged In.")
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(SecretKey), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid or expired token")
		}

		var user Models.User
		if err := Models.DB.Where("id = ?", claims.Issuer).First(&user).Error; err != nil {
			return unauthorized(c, "User not found")
		}
		c.Locals("user", user)

		if user.Permission < requiredPermission {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Insufficient permissions to access this resource",
			})
		}
		return c.Next()
	}
}
