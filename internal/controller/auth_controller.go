package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/middleware"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type AuthController struct {
	auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ac *AuthController) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	input := new(service.RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	user, token, err := ac.auth.Register(*input)
	if err != nil {
		return err
	}

	ac.setAuthCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"token":   token,
		"user":    user.GetPublicProfile(),
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	input := new(service.LoginInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	user, token, err := ac.auth.Login(*input)
	if err != nil {
		return err
	}

	ac.setAuthCookie(c, token)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.GetPublicProfile(),
	})
}

// GetMe oturum açmış kullanıcının bilgilerini getirir
func (ac *AuthController) GetMe(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	user, err := ac.auth.GetUser(claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"user": user.GetPublicProfile()})
}

// Logout auth cookie'sini temizler; bearer token client tarafında atılır
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}
