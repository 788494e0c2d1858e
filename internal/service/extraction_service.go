package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"invotrack/internal/models"
	"invotrack/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

const extractionSystemInstruction = `You are a data-entry assistant for incoming invoices.
You are given the raw text of one invoice and must extract three fields.

Return ONLY a JSON object, no markdown, no commentary:
{
  "date": "YYYY-MM-DD or null",
  "sender": "issuing company name or null",
  "amount": "<total>|<ISO currency>, e.g. 50.80|BGN, or null"
}

Rules:
- "amount" is the invoice total including VAT, decimal point, no thousands separators.
- Use null for any field the text does not contain. Never guess.`

// ExtractionService pulls structured fields out of invoice documents:
// PDF text via go-fitz, then field extraction via GigaChat. Results are
// per field; one failed field never blocks the others.
type ExtractionService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func NewExtractionService(cfg *config.GigaChatConfig, logger *zap.Logger) (*ExtractionService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = extractionSystemInstruction
	model.Temperature = 0.1

	return &ExtractionService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *ExtractionService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// ExtractInvoiceFields extracts date, sender, amount and full text from
// an invoice file. Errors are captured per field, never returned: the
// caller always gets a complete field map to persist and render.
func (s *ExtractionService) ExtractInvoiceFields(ctx context.Context, filePath string) map[string]models.ExtractedField {
	now := time.Now().UnixMilli()
	fields := map[string]models.ExtractedField{}

	text, err := s.extractText(filePath)
	if err != nil {
		s.logger.Warn("Text extraction failed", zap.String("file", filePath), zap.Error(err))
		msg := err.Error()
		for _, name := range []string{models.FieldInvoiceText, models.FieldInvoiceDate, models.FieldInvoiceSender, models.FieldInvoiceAmount} {
			fields[name] = models.ExtractedField{Error: &msg, LastUpdated: now}
		}
		return fields
	}

	fields[models.FieldInvoiceText] = models.ExtractedField{Value: &text, LastUpdated: now}

	parsed, err := s.extractStructuredFields(ctx, text)
	if err != nil {
		s.logger.Warn("Structured extraction failed", zap.String("file", filePath), zap.Error(err))
		msg := err.Error()
		for _, name := range []string{models.FieldInvoiceDate, models.FieldInvoiceSender, models.FieldInvoiceAmount} {
			fields[name] = models.ExtractedField{Error: &msg, LastUpdated: now}
		}
		return fields
	}

	fields[models.FieldInvoiceDate] = fieldFromValue(parsed.Date, now)
	fields[models.FieldInvoiceSender] = fieldFromValue(parsed.Sender, now)
	fields[models.FieldInvoiceAmount] = amountField(parsed.Amount, now)

	return fields
}

type invoiceFields struct {
	Date   *string `json:"date"`
	Sender *string `json:"sender"`
	Amount *string `json:"amount"`
}

func (s *ExtractionService) extractText(filePath string) (string, error) {
	if ext := strings.ToLower(filepath.Ext(filePath)); ext != ".pdf" {
		return "", fmt.Errorf("unsupported file format: %s (supported: pdf)", ext)
	}

	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", filePath),
				zap.Error(err),
			)
			continue
		}
		if pageText != "" {
			textBuilder.WriteString(pageText)
			textBuilder.WriteString("\n")
		}
	}

	text := strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("no text found in PDF")
	}
	return text, nil
}

func (s *ExtractionService) extractStructuredFields(ctx context.Context, text string) (*invoiceFields, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: "Invoice text:\n\n" + text},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	// The model occasionally wraps the object in markdown fences
	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 {
		return nil, fmt.Errorf("invalid response format: %s", content)
	}

	var parsed invoiceFields
	if err := json.Unmarshal([]byte(content[jsonStart:jsonEnd+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return &parsed, nil
}

func fieldFromValue(value *string, now int64) models.ExtractedField {
	if value == nil || strings.TrimSpace(*value) == "" {
		msg := "field not found in document"
		return models.ExtractedField{Error: &msg, LastUpdated: now}
	}
	v := strings.TrimSpace(*value)
	return models.ExtractedField{Value: &v, LastUpdated: now}
}

// amountField additionally validates the "<amount>|<CUR>" shape so a
// malformed pair is recorded as a field error instead of propagating
// downstream, where the strict parser would drop it silently.
func amountField(value *string, now int64) models.ExtractedField {
	field := fieldFromValue(value, now)
	if field.Value == nil {
		return field
	}
	if ParseAmountCurrencyPair(*field.Value) == nil {
		msg := fmt.Sprintf("unrecognized amount format: %s", *field.Value)
		return models.ExtractedField{Error: &msg, LastUpdated: now}
	}
	return field
}
