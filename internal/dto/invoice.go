package dto

import "invotrack/internal/models"

type InvoiceResponse struct {
	ID         string                           `json:"id"`
	FileName   string                           `json:"file_name"`
	StorageID  string                           `json:"storage_id"`
	URL        string                           `json:"url,omitempty"`
	UploadedAt string                           `json:"uploaded_at"`
	Extracted  map[string]models.ExtractedField `json:"extracted,omitempty"`
}

type StatementResponse struct {
	ID               string `json:"id"`
	FileName         string `json:"file_name"`
	FileType         string `json:"file_type"`
	URL              string `json:"url,omitempty"`
	UploadedAt       string `json:"uploaded_at"`
	TransactionCount int    `json:"transaction_count"`
}
