package controller

import (
	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type ViewingController struct {
	viewings *service.ViewingService
}

func NewViewingController(viewings *service.ViewingService) *ViewingController {
	return &ViewingController{viewings: viewings}
}

func (vc *ViewingController) Create(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(service.ViewingInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	viewing, err := vc.viewings.Create(claims.UserID, *input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(viewing)
}

func (vc *ViewingController) List(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	viewings, meta, err := vc.viewings.List(claims.UserID, parsePagination(c))
	if err != nil {
		return err
	}

	return paginated(c, viewings, meta)
}

// Upcoming gelecekteki, henüz gidilmemiş randevular
func (vc *ViewingController) Upcoming(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	viewings, err := vc.viewings.Upcoming(claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(viewings)
}

func (vc *ViewingController) Update(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(service.ViewingUpdate)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	viewing, err := vc.viewings.Update(claims.UserID, id, *input)
	if err != nil {
		return err
	}

	return c.JSON(viewing)
}

func (vc *ViewingController) Delete(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := vc.viewings.Delete(claims.UserID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
