package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"predictor/internal/engine"
	"predictor/internal/models"
)

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	leaderboard, err := h.service.GetLeaderboard(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to retrieve leaderboard",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(leaderboard)
}

// GetUserStats handles GET /api/v1/users/:id/stats
func (h *Handler) GetUserStats(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Missing user id",
		})
	}

	stats, err := h.service.GetUserStats(c.Context(), userID)
	if err != nil {
		if errors.Is(err, engine.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error:   "User not found",
				Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to compute stats",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

// HealthCheck handles GET /api/v1/health
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	if err := h.service.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error:   "Health check failed",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":            "healthy",
		"websocket_clients": h.hub.GetClientCount(),
	})
}
