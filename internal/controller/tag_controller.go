package controller

import (
	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type TagController struct {
	tags *service.TagService
}

func NewTagController(tags *service.TagService) *TagController {
	return &TagController{tags: tags}
}

func (tc *TagController) Create(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(service.TagInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	tag, err := tc.tags.Create(claims.UserID, *input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}

func (tc *TagController) List(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	tags, err := tc.tags.List(claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(tags)
}

func (tc *TagController) Update(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(service.TagUpdate)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	tag, err := tc.tags.Update(claims.UserID, id, *input)
	if err != nil {
		return err
	}

	return c.JSON(tag)
}

func (tc *TagController) Delete(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := tc.tags.Delete(claims.UserID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
