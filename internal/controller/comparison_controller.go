package controller

import (
	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type ComparisonController struct {
	comparisons *service.ComparisonService
}

func NewComparisonController(comparisons *service.ComparisonService) *ComparisonController {
	return &ComparisonController{comparisons: comparisons}
}

func (cc *ComparisonController) Create(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(service.ComparisonInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	comparison, err := cc.comparisons.Create(claims.UserID, *input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comparison)
}

func (cc *ComparisonController) List(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	comparisons, meta, err := cc.comparisons.List(claims.UserID, parsePagination(c))
	if err != nil {
		return err
	}

	return paginated(c, comparisons, meta)
}

func (cc *ComparisonController) Get(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	detail, err := cc.comparisons.Get(claims.UserID, id)
	if err != nil {
		return err
	}

	return c.JSON(detail)
}

func (cc *ComparisonController) Update(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(service.ComparisonUpdate)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	comparison, err := cc.comparisons.Update(claims.UserID, id, *input)
	if err != nil {
		return err
	}

	return c.JSON(comparison)
}

func (cc *ComparisonController) Delete(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := cc.comparisons.Delete(claims.UserID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
