package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtractedField is the per-field result of the AI extraction pipeline.
// Value and Error are mutually exclusive; a failed field never blocks
// the others.
type ExtractedField struct {
	Value       *string `json:"value"`
	Error       *string `json:"error"`
	LastUpdated int64   `json:"lastUpdated"`
}

// Extraction field names stored on an invoice.
const (
	FieldInvoiceDate   = "date"
	FieldInvoiceSender = "sender"
	FieldInvoiceAmount = "amount" // "<amount>|<CUR>" pair
	FieldInvoiceText   = "fullText"
)

// Invoice is an incoming invoice document attached to a month.
type Invoice struct {
	ID         uuid.UUID                 `json:"id"`
	FileName   string                    `json:"fileName"`
	StorageID  string                    `json:"storageId"`
	UploadedAt time.Time                 `json:"uploadedAt"`
	Extracted  map[string]ExtractedField `json:"extracted,omitempty"`
}

// Statement is an uploaded bank statement. CSV statements carry their
// parsed transactions; the transactions live and die with the statement.
type Statement struct {
	ID           uuid.UUID     `json:"id"`
	FileName     string        `json:"fileName"`
	FileType     string        `json:"fileType"` // pdf or csv
	StorageID    string        `json:"storageId"`
	UploadedAt   time.Time     `json:"uploadedAt"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// MonthRecord aggregates all invoices, statements and bindings for one
// (user, monthKey) pair. At most one record exists per pair; the record
// store serializes concurrent edits on the row.
type MonthRecord struct {
	UserID     uuid.UUID          `json:"userId"`
	MonthKey   string             `json:"monthKey"`
	Invoices   []Invoice          `json:"invoices"`
	Statements []Statement        `json:"statements"`
	Bindings   map[string]Binding `json:"bindings"`
}

func NewMonthRecord(userID uuid.UUID, monthKey string) *MonthRecord {
	return &MonthRecord{
		UserID:   userID,
		MonthKey: monthKey,
		Bindings: map[string]Binding{},
	}
}

// SetBinding upserts the binding for a transaction id. Last write wins.
func (m *MonthRecord) SetBinding(transactionID string, b Binding) {
	if m.Bindings == nil {
		m.Bindings = map[string]Binding{}
	}
	m.Bindings[transactionID] = b
}

// ClearBinding returns the transaction to the unbound state.
func (m *MonthRecord) ClearBinding(transactionID string) {
	delete(m.Bindings, transactionID)
}

// BindingFor resolves the three-state binding of a transaction. Bindings
// pointing at a storage id no invoice carries anymore resolve to unbound.
func (m *MonthRecord) BindingFor(transactionID string) Binding {
	b, ok := m.Bindings[transactionID]
	if !ok {
		return Unbound()
	}
	if b.Kind == BindingInvoice && m.InvoiceByStorageID(b.StorageID) == nil {
		return Unbound()
	}
	return b
}

// InvoiceByStorageID returns the invoice holding a storage id, or nil.
func (m *MonthRecord) InvoiceByStorageID(storageID string) *Invoice {
	for i := range m.Invoices {
		if m.Invoices[i].StorageID == storageID {
			return &m.Invoices[i]
		}
	}
	return nil
}

// InvoiceByID returns the invoice with the given id, or nil.
func (m *MonthRecord) InvoiceByID(id uuid.UUID) *Invoice {
	for i := range m.Invoices {
		if m.Invoices[i].ID == id {
			return &m.Invoices[i]
		}
	}
	return nil
}

// StatementByID returns the statement with the given id, or nil.
func (m *MonthRecord) StatementByID(id uuid.UUID) *Statement {
	for i := range m.Statements {
		if m.Statements[i].ID == id {
			return &m.Statements[i]
		}
	}
	return nil
}

// UpsertInvoice replaces the invoice with the same id or appends it.
func (m *MonthRecord) UpsertInvoice(inv Invoice) {
	for i := range m.Invoices {
		if m.Invoices[i].ID == inv.ID {
			m.Invoices[i] = inv
			return
		}
	}
	m.Invoices = append(m.Invoices, inv)
}

// RemoveInvoice deletes an invoice and cascade-unbinds every transaction
// bound to its storage id, so no dangling reference is ever persisted.
func (m *MonthRecord) RemoveInvoice(id uuid.UUID) *Invoice {
	for i := range m.Invoices {
		if m.Invoices[i].ID != id {
			continue
		}
		removed := m.Invoices[i]
		m.Invoices = append(m.Invoices[:i], m.Invoices[i+1:]...)
		for txID, b := range m.Bindings {
			if b.Kind == BindingInvoice && b.StorageID == removed.StorageID {
				delete(m.Bindings, txID)
			}
		}
		return &removed
	}
	return nil
}

// RemoveStatement deletes a statement together with its transactions and
// any bindings keyed by those transactions.
func (m *MonthRecord) RemoveStatement(id uuid.UUID) *Statement {
	for i := range m.Statements {
		if m.Statements[i].ID != id {
			continue
		}
		removed := m.Statements[i]
		m.Statements = append(m.Statements[:i], m.Statements[i+1:]...)
		for _, tx := range removed.Transactions {
			delete(m.Bindings, tx.ID)
		}
		return &removed
	}
	return nil
}

// AllTransactions flattens the statements' transactions preserving
// statement order and file order within each statement.
func (m *MonthRecord) AllTransactions() []Transaction {
	var txs []Transaction
	for i := range m.Statements {
		txs = append(txs, m.Statements[i].Transactions...)
	}
	return txs
}
