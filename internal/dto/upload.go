package dto

// Headless API payloads, bearer-key authenticated.

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type UploadResponse struct {
	StorageID string `json:"storageId"`
}

type CreateInvoiceRequest struct {
	MonthKey  string `json:"monthKey"`
	StorageID string `json:"storageId"`
	FileName  string `json:"fileName"`
}

type CreateInvoiceResponse struct {
	InvoiceID string `json:"invoiceId"`
}

type CreateStatementRequest struct {
	MonthKey   string `json:"monthKey"`
	StorageID  string `json:"storageId"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"` // pdf or csv
	CSVContent string `json:"csvContent,omitempty"`
}

type CreateStatementResponse struct {
	StatementID      string `json:"statementId"`
	TransactionCount int    `json:"transactionCount"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
