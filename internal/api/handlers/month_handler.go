package handlers

import (
	"strings"

	"invotrack/internal/dto"
	"invotrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MonthHandler struct {
	monthService *service.MonthService
	logger       *zap.Logger
}

func NewMonthHandler(monthService *service.MonthService, logger *zap.Logger) *MonthHandler {
	return &MonthHandler{
		monthService: monthService,
		logger:       logger,
	}
}

// ListMonths godoc
// @Summary List the user's months
// @Tags months
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.MonthListResponse
// @Router /app/v1/months [get]
func (h *MonthHandler) ListMonths(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	resp, err := h.monthService.ListMonths(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list months", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list months"})
	}
	return c.JSON(resp)
}

// GetMonth godoc
// @Summary Get the resolved month view
// @Description Invoices, statements and transactions with refund flags, invoice requirements and binding state
// @Tags months
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Security Bearer
// @Success 200 {object} dto.MonthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey} [get]
func (h *MonthHandler) GetMonth(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	resp, err := h.monthService.GetMonthView(c.Context(), userID, monthKey)
	if err != nil {
		h.logger.Error("Failed to load month", zap.String("month", monthKey), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load month"})
	}
	return c.JSON(resp)
}

// GetSummary godoc
// @Summary Month totals per display currency
// @Tags months
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param currencies query string false "Comma-separated display currencies" default(EUR,BGN)
// @Security Bearer
// @Success 200 {object} dto.MonthSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/summary [get]
func (h *MonthHandler) GetSummary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	var currencies []string
	if q := c.Query("currencies"); q != "" {
		for _, cur := range strings.Split(q, ",") {
			if cur = strings.TrimSpace(cur); cur != "" {
				currencies = append(currencies, strings.ToUpper(cur))
			}
		}
	}

	resp, err := h.monthService.Summary(c.Context(), userID, monthKey, currencies)
	if err != nil {
		h.logger.Error("Failed to build summary", zap.String("month", monthKey), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build summary"})
	}
	return c.JSON(resp)
}

// SetBinding godoc
// @Summary Bind a transaction to an invoice or mark it not-needed
// @Description Upsert; last write wins. Send storage_id to bind, not_needed=true for the sentinel.
// @Tags bindings
// @Accept json
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param transactionId path string true "Transaction id"
// @Param request body dto.BindRequest true "Binding request"
// @Security Bearer
// @Success 200 {object} dto.ErrorResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/bindings/{transactionId} [put]
func (h *MonthHandler) SetBinding(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}
	transactionID := c.Params("transactionId")

	var req dto.BindRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	switch {
	case req.NotNeeded && req.StorageID != "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "storage_id and not_needed are mutually exclusive"})
	case req.NotNeeded:
		err = h.monthService.MarkNotNeeded(c.Context(), userID, monthKey, transactionID)
	case req.StorageID != "":
		err = h.monthService.Bind(c.Context(), userID, monthKey, transactionID, req.StorageID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Either storage_id or not_needed is required"})
	}

	if err != nil {
		return h.bindingError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// RemoveBinding godoc
// @Summary Unbind a transaction
// @Tags bindings
// @Produce json
// @Param monthKey path string true "Month key (YYYY-MM)"
// @Param transactionId path string true "Transaction id"
// @Security Bearer
// @Success 200 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /app/v1/months/{monthKey}/bindings/{transactionId} [delete]
func (h *MonthHandler) RemoveBinding(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	monthKey, ok := monthKeyParam(c)
	if !ok {
		return nil
	}

	if err := h.monthService.Unbind(c.Context(), userID, monthKey, c.Params("transactionId")); err != nil {
		return h.bindingError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *MonthHandler) bindingError(c *fiber.Ctx, err error) error {
	switch err {
	case service.ErrMonthNotFound, service.ErrTransactionNotFound, service.ErrInvoiceNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		h.logger.Error("Binding operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Binding operation failed"})
	}
}
