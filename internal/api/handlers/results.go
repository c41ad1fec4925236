package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"predictor/internal/models"
	"predictor/internal/repository"
)

// SubmitResult handles POST /api/v1/results (admin only)
func (h *Handler) SubmitResult(c *fiber.Ctx) error {
	var req models.ResultRequest

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

	if err := h.service.SubmitResult(c.Context(), req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error:   "Unknown fixture",
				Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to store result",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Result recorded",
		"fixture_id": req.FixtureID,
	})
}

// ListResults handles GET /api/v1/results
// Supported filters: gameweek, fixture_id
func (h *Handler) ListResults(c *fiber.Ctx) error {
	var filter models.ResultFilter

	if gw, ok := queryInt(c, "gameweek"); ok {
		filter.Gameweek = &gw
	}
	if id, ok := queryUint(c, "fixture_id"); ok {
		filter.FixtureID = &id
	}

	results, err := h.service.ListResults(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to fetch results",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"results": results})
}

// ListFixtures handles GET /api/v1/fixtures
// Supported filters: gameweek, home_team, away_team, date
func (h *Handler) ListFixtures(c *fiber.Ctx) error {
	var filter models.FixtureFilter

	if gw, ok := queryInt(c, "gameweek"); ok {
		filter.Gameweek = &gw
	}
	if team := c.Query("home_team"); team != "" {
		filter.HomeTeam = &team
	}
	if team := c.Query("away_team"); team != "" {
		filter.AwayTeam = &team
	}
	if date := c.Query("date"); date != "" {
		filter.Date = &date
	}

	fixtures, err := h.service.ListFixtures(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to fetch fixtures",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"fixtures": fixtures})
}
