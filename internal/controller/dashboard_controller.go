package controller

import (
	"github.com/gofiber/fiber/v2"

	"homesaver_backend/internal/service"
	"homesaver_backend/pkg/utils/jwt"
)

type DashboardController struct {
	dashboard *service.DashboardService
}

func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetStats kullanıcının dashboard istatistiklerini getirir
func (dc *DashboardController) GetStats(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	stats, err := dc.dashboard.Stats(claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}
