package handler

import (
	"quizzy/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Health handles GET /api/health
func Health(registry *service.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(HealthResponse{Status: "ok", Sessions: registry.Len()})
	}
}
