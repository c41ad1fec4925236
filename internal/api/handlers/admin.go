package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"predictor/internal/api/middleware"
	"predictor/internal/models"
	"predictor/internal/repository"
)

// GetOverview handles GET /api/v1/admin/overview
func (h *Handler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.service.AdminOverview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to build overview",
			Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(overview)
}

// ListUsers handles GET /api/v1/admin/users
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsersWithPoints(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error:   "Failed to list users",
			Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// UpdateUserRole handles PATCH /api/v1/admin/users/:id/role
func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	targetID := c.Params("id")
	actingID, _ := c.Locals(middleware.ActingUserKey).(string)

	var req models.RoleUpdateRequest
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

	if err := h.service.UpdateUserRole(c.Context(), actingID, targetID, req.Role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "User not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Role update failed",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Role updated",
		"user_id": targetID,
		"role":    req.Role,
	})
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	targetID := c.Params("id")
	actingID, _ := c.Locals(middleware.ActingUserKey).(string)

	if err := h.service.DeleteUser(c.Context(), actingID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
				Error: "User not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Delete failed",
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User deleted",
		"user_id": targetID,
	})
}
