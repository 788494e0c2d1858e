package middleware

import (
	"invotrack/internal/repository"
	"invotrack/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// APIKeyMiddleware authenticates the headless API: a bearer API key is
// hashed and looked up, then checked for the required scope. Missing or
// unknown keys get 401 with no further detail; a known key without the
// scope gets 403.
func APIKeyMiddleware(keyRepo *repository.APIKeyRepository, requiredScope string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "API key required",
			})
		}

		keyHash := auth.HashAPIKey(token)
		key, err := keyRepo.GetByHash(c.Context(), keyHash)
		if err != nil {
			logger.Error("API key lookup failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal error",
			})
		}
		if key == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		if !auth.HasScope(key.Scopes, requiredScope) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient scope",
			})
		}

		keyRepo.TouchLastUsed(c.Context(), keyHash)

		c.Locals("userID", key.UserID.String())
		c.Locals("apiKeyID", key.ID.String())

		return c.Next()
	}
}
