package handlers

import (
	"invotrack/internal/models"
	"invotrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetFilterPolicy godoc
// @Summary Get the invoice-requirement filter policy
// @Tags settings
// @Produce json
// @Security Bearer
// @Success 200 {object} models.FilterPolicy
// @Router /app/v1/settings/filter-policy [get]
func (h *SettingsHandler) GetFilterPolicy(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	policy, err := h.settingsService.GetFilterPolicy(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load filter policy", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load filter policy"})
	}
	return c.JSON(policy)
}

// SetFilterPolicy godoc
// @Summary Update the invoice-requirement filter policy
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.FilterPolicy true "Filter policy"
// @Security Bearer
// @Success 200 {object} models.FilterPolicy
// @Failure 400 {object} dto.ErrorResponse
// @Router /app/v1/settings/filter-policy [put]
func (h *SettingsHandler) SetFilterPolicy(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var policy models.FilterPolicy
	if err := c.BodyParser(&policy); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.settingsService.SetFilterPolicy(c.Context(), userID, policy); err != nil {
		if err == service.ErrInvalidPolicy {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "At least one allowed transaction type is required"})
		}
		h.logger.Error("Failed to save filter policy", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save filter policy"})
	}
	return c.JSON(policy)
}
