package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"homesaver_backend/internal/model"
	"homesaver_backend/pkg/apperr"
	"homesaver_backend/pkg/utils/jwt"
)

// CheckListingOwnership resim rotalarını servise girmeden önce korur.
// Servis katmanı da aynı kontrolü yapar; bu erken çıkış yoludur.
func CheckListingOwnership(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return apperr.Validation("Invalid listing ID")
		}

		var listing model.Listing
		if err := db.First(&listing, id).Error; err != nil {
			return apperr.NotFound("Listing not found")
		}

		if listing.UserID != claims.UserID {
			return apperr.Forbidden("You don't have permission to access this listing")
		}

		return c.Next()
	}
}
