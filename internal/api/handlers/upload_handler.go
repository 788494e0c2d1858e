package handlers

import (
	"bytes"

	"invotrack/internal/dto"
	"invotrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UploadHandler is the headless API surface: programmatic upload of
// invoices and statements with an API key instead of a session.
type UploadHandler struct {
	storage          *service.StorageService
	invoiceService   *service.InvoiceService
	statementService *service.StatementService
	logger           *zap.Logger
}

func NewUploadHandler(
	storage *service.StorageService,
	invoiceService *service.InvoiceService,
	statementService *service.StatementService,
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		storage:          storage,
		invoiceService:   invoiceService,
		statementService: statementService,
		logger:           logger,
	}
}

// CreateUploadURL godoc
// @Summary Issue a one-shot upload URL
// @Tags headless
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UploadURLResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/upload-url [post]
func (h *UploadHandler) CreateUploadURL(c *fiber.Ctx) error {
	token := h.storage.NewUploadToken()
	return c.JSON(dto.UploadURLResponse{
		UploadURL: "/api/v1/upload/" + token,
	})
}

// ReceiveUpload godoc
// @Summary Upload a blob via a previously issued URL
// @Description The token in the URL is the credential; it is valid once
// @Tags headless
// @Accept octet-stream
// @Produce json
// @Param token path string true "Upload token"
// @Success 200 {object} dto.UploadResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/upload/{token} [post]
func (h *UploadHandler) ReceiveUpload(c *fiber.Ctx) error {
	if err := h.storage.ConsumeUploadToken(c.Params("token")); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired upload URL"})
	}

	fileName := c.Query("fileName", "upload.bin")
	if !dto.ValidFileName(fileName) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file name"})
	}

	storageID, _, err := h.storage.Store(bytes.NewReader(c.Body()), fileName)
	if err != nil {
		h.logger.Error("Failed to store upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store upload"})
	}

	return c.JSON(dto.UploadResponse{StorageID: storageID})
}

// CreateInvoice godoc
// @Summary Attach an uploaded blob as an invoice
// @Tags headless
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "Invoice request"
// @Security Bearer
// @Success 201 {object} dto.CreateInvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/invoices [post]
func (h *UploadHandler) CreateInvoice(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := h.validateInvoiceRequest(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	resp, err := h.invoiceService.Attach(c.Context(), userID, req.MonthKey, req.StorageID, req.FileName)
	if err != nil {
		h.logger.Error("Failed to create invoice", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invoice"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateInvoiceResponse{InvoiceID: resp.ID})
}

// CreateStatement godoc
// @Summary Attach an uploaded blob as a statement
// @Description For fileType csv, csvContent is parsed into transactions
// @Tags headless
// @Accept json
// @Produce json
// @Param request body dto.CreateStatementRequest true "Statement request"
// @Security Bearer
// @Success 201 {object} dto.CreateStatementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/statements [post]
func (h *UploadHandler) CreateStatement(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req dto.CreateStatementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msg := h.validateStatementRequest(&req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	resp, err := h.statementService.Attach(c.Context(), userID, req.MonthKey, req.StorageID, req.FileName, req.FileType, req.CSVContent)
	if err != nil {
		h.logger.Error("Failed to create statement", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create statement"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateStatementResponse{
		StatementID:      resp.ID,
		TransactionCount: resp.TransactionCount,
	})
}

func (h *UploadHandler) validateInvoiceRequest(req *dto.CreateInvoiceRequest) string {
	if !dto.ValidMonthKey(req.MonthKey) {
		return "Invalid monthKey, expected YYYY-MM"
	}
	if !dto.ValidFileName(req.FileName) {
		return "Invalid fileName"
	}
	if !h.storage.Exists(req.StorageID) {
		return "Unknown storageId"
	}
	return ""
}

func (h *UploadHandler) validateStatementRequest(req *dto.CreateStatementRequest) string {
	if !dto.ValidMonthKey(req.MonthKey) {
		return "Invalid monthKey, expected YYYY-MM"
	}
	if !dto.ValidFileName(req.FileName) {
		return "Invalid fileName"
	}
	if !dto.ValidStatementFileType(req.FileType) {
		return "Invalid fileType, expected pdf or csv"
	}
	if req.FileType == "csv" && req.CSVContent == "" {
		return "csvContent is required for csv statements"
	}
	if !h.storage.Exists(req.StorageID) {
		return "Unknown storageId"
	}
	return ""
}
