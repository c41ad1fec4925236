package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"predictor/internal/models"
	"predictor/internal/repository"
)

// SubmitPrediction handles POST /api/v1/predictions
func (h *Handler) SubmitPrediction(c *fiber.Ctx) error {
	var req models.PredictionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
	}

	if err := h.validator.Struct(&req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Validation failed",
			Message: validationErrors.Error(),
		})
	}

	if err := h.service.SubmitPrediction(c.Context(), req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error:   "Unknown user or fixture",
				Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error:   "Prediction not accepted",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":    "Prediction submitted",
		"fixture_id": req.FixtureID,
		"gameweek":   req.Gameweek,
	})
}

// ListPredictions handles GET /api/v1/predictions
// Supported filters: user_id, gameweek, fixture_id
func (h *Handler) ListPredictions(c *fiber.Ctx) error {
	var filter models.PredictionFilter

	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if gw, ok := queryInt(c, "gameweek"); ok {
		filter.Gameweek = &gw
	}
	if id, ok := queryUint(c, "fixture_id"); ok {
		filter.FixtureID = &id
	}

	predictions, err := h.service.ListPredictions(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to fetch predictions",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"predictions": predictions})
}

// queryInt parses an optional integer query parameter
func queryInt(c *fiber.Ctx, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// queryUint parses an optional unsigned integer query parameter
func queryUint(c *fiber.Ctx, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
