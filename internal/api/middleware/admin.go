package middleware

import (
	"github.com/gofiber/fiber/v2"

	"predictor/internal/models"
)

// ActingUserHeader carries the ID of the user performing the request. Token
// verification happens upstream; this layer only resolves the capability.
const ActingUserHeader = "X-User-ID"

// ActingUserKey is the locals key the resolved user ID is stored under
const ActingUserKey = "actingUserID"

// RequireAdmin performs the admin capability check once at the boundary.
// resolveRole is typically CompetitionService.GetUserRole.
func RequireAdmin(resolveRole func(c *fiber.Ctx, userID string) (string, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(ActingUserHeader)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error:   "Missing acting user",
				Message: "set the " + ActingUserHeader + " header",
			})
		}

		role, err := resolveRole(c, userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Unknown acting user",
			})
		}
		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
				Error: "Admin access required",
			})
		}

		c.Locals(ActingUserKey, userID)
		return c.Next()
	}
}
