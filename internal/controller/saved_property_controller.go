package controller

import (
	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/model"
	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

type SavedPropertyController struct {
	saved *service.SavedPropertyService
}

func NewSavedPropertyController(saved *service.SavedPropertyService) *SavedPropertyController {
	return &SavedPropertyController{saved: saved}
}

func (sc *SavedPropertyController) Create(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(service.SaveInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	saved, err := sc.saved.Create(claims.UserID, *input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (sc *SavedPropertyController) List(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var status *model.SavedStatus
	if v := c.Query("status"); v != "" {
		s := model.SavedStatus(v)
		status = &s
	}

	saved, meta, err := sc.saved.List(claims.UserID, status, parsePagination(c))
	if err != nil {
		return err
	}

	return paginated(c, saved, meta)
}

func (sc *SavedPropertyController) Get(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	saved, err := sc.saved.Get(claims.UserID, id)
	if err != nil {
		return err
	}

	return c.JSON(saved)
}

func (sc *SavedPropertyController) Update(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(service.SavedPropertyUpdate)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input")
	}

	saved, err := sc.saved.Update(claims.UserID, id, *input)
	if err != nil {
		return err
	}

	return c.JSON(saved)
}

func (sc *SavedPropertyController) Delete(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := sc.saved.Delete(claims.UserID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (sc *SavedPropertyController) AttachTag(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tag_id")
	if err != nil {
		return err
	}

	if err := sc.saved.AttachTag(claims.UserID, id, tagID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Tag attached"})
}

func (sc *SavedPropertyController) DetachTag(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tag_id")
	if err != nil {
		return err
	}

	if err := sc.saved.DetachTag(claims.UserID, id, tagID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
