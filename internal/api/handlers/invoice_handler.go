package handlers

import (
	"invotrack/internal/dto"
	"invotrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// Upload godoc
// @Summary Upload an incoming invoice
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param file formData file true "Invoice file (PDF)"
// @Security Bearer
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/invoices [post]
func (h *InvoiceHandler) Upload(c *fiber.Ctx) error {
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

	resp, err := h.invoiceService.Upload(c.Context(), userID, monthKey, src, file.Filename)
	if err != nil {
		h.logger.Error("Failed to upload invoice", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload invoice"})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Extract godoc
// @Summary Run AI field extraction for an invoice
// @Description Extracts date, sender, amount and full text; failures are recorded per field
// @Tags invoices
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param id path string true "Invoice id"
// @Security Bearer
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/invoices/{id}/extract [post]
func (h *InvoiceHandler) Extract(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	resp, err := h.invoiceService.Extract(c.Context(), userID, monthKey, invoiceID)
	if err != nil {
		return h.invoiceError(c, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Delete an invoice
// @Description Removes the invoice and unbinds any transactions bound to it
// @Tags invoices
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param id path string true "Invoice id"
// @Security Bearer
// @Success 200 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	if err := h.invoiceService.Delete(c.Context(), userID, monthKey, invoiceID); err != nil {
		return h.invoiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *InvoiceHandler) invoiceError(c *fiber.Ctx, err error) error {
	switch err {
	case service.ErrMonthNotFound, service.ErrInvoiceNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		h.logger.Error("Invoice operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Invoice operation failed"})
	}
}
