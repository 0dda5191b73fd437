package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

const AuthCookieName = "auth_token"

// AuthMiddleware bearer header'ı veya eşdeğer cookie'yi çözer ve claims'i
// request locals'a koyar
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return apperr.Auth("Missing authentication token")
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return apperr.Auth("Invalid or expired token")
		}

		c.Locals("user", claims)
		return c.Next()
	}
}

// OptionalAuth kimliği çözebilirse koyar, çözemezse isteği engellemez.
// Public arama "already saved" işaretini bununla üretir.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := jwt.ValidateToken(token); err == nil {
				c.Locals("user", claims)
			}
		}
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Cookies(AuthCookieName)
}
