package handlers

import (
	"invotrack/internal/dto"
	"invotrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatementHandler struct {
	statementService *service.StatementService
	logger           *zap.Logger
}

func NewStatementHandler(statementService *service.StatementService, logger *zap.Logger) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		logger:           logger,
	}
}

// Upload godoc
// @Summary Upload a bank statement
// @Description CSV statements are parsed into transactions on ingestion
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param file formData file true "Statement file (CSV or PDF)"
// @Security Bearer
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/statements [post]
func (h *StatementHandler) Upload(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}
	if !dto.ValidFileName(file.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file name"})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer src.Close()

	resp, err := h.statementService.Upload(c.Context(), userID, monthKey, src, file.Filename)
	if err != nil {
		h.logger.Error("Failed to upload statement", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload statement"})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Delete godoc
// @Summary Delete a statement
// @Description Removes the statement, its transactions and their bindings
// @Tags statements
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param id path string true "Statement id"
// @Security Bearer
// @Success 200 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/statements/{id} [delete]
func (h *StatementHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	statementID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid statement ID"})
	}

	if err := h.statementService.Delete(c.Context(), userID, monthKey, statementID); err != nil {
		switch err {
		case service.ErrMonthNotFound, service.ErrStatementNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			h.logger.Error("Failed to delete statement", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete statement"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
