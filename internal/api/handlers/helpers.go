package handlers

import (
	"invotrack/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// monthKeyParam validates the :monthKey route parameter. ok is false
// after the 400 response has already been written.
func monthKeyParam(c *fiber.Ctx) (string, bool) {
	monthKey := c.Params("monthKey")
	if !dto.ValidMonthKey(monthKey) {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid month key, expected YYYY-MM",
		})
		return "", false
	}
	return monthKey, true
}
