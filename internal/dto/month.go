package dto

// BindingView is the three-state binding as rendered: "unbound",
// "invoice" or "not_needed".
type BindingView struct {
	State           string `json:"state"`
	StorageID       string `json:"storage_id,omitempty"`
	InvoiceURL      string `json:"invoice_url,omitempty"`
	InvoiceFileName string `json:"invoice_file_name,omitempty"`
}

// TransactionView is a statement transaction joined with its derived
// reconciliation state for display.
type TransactionView struct {
	ID              string      `json:"id"`
	Type            string      `json:"type"`
	DateStarted     string      `json:"date_started"`
	DateCompleted   string      `json:"date_completed"`
	Description     string      `json:"description"`
	Amount          string      `json:"amount"`
	PaymentCurrency string      `json:"payment_currency"`
	OrigAmount      string      `json:"orig_amount"`
	OrigCurrency    string      `json:"orig_currency"`
	MCC             string      `json:"mcc"`
	IsRefunded      bool        `json:"is_refunded"`
	NeedsInvoice    bool        `json:"needs_invoice"`
	Binding         BindingView `json:"binding"`
}

type MonthResponse struct {
	MonthKey     string              `json:"month_key"`
	Invoices     []InvoiceResponse   `json:"invoices"`
	Statements   []StatementResponse `json:"statements"`
	Transactions []TransactionView   `json:"transactions"`
}

type MonthListResponse struct {
	MonthKeys []string `json:"month_keys"`
}

type BindRequest struct {
	StorageID string `json:"storage_id,omitempty"`
	NotNeeded bool   `json:"not_needed,omitempty"`
}

// CurrencySummary reports the month totals converted into one display
// currency. Amounts are formatted at two decimal places; accumulation
// happens upstream without rounding.
type CurrencySummary struct {
	Currency          string `json:"currency"`
	TransactionsTotal string `json:"transactions_total"`
	InvoicesTotal     string `json:"invoices_total"`
	Difference        string `json:"difference"`
}

type MonthSummaryResponse struct {
	MonthKey   string            `json:"month_key"`
	Currencies []CurrencySummary `json:"currencies"`
}
