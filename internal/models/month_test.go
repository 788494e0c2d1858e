package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *MonthRecord {
	m := NewMonthRecord(uuid.New(), "2025-03")
	m.Invoices = []Invoice{
		{ID: uuid.New(), FileName: "a.pdf", StorageID: "stor-a", UploadedAt: time.Now()},
		{ID: uuid.New(), FileName: "b.pdf", StorageID: "stor-b", UploadedAt: time.Now()},
	}
	m.Statements = []Statement{
		{
			ID:       uuid.New(),
			FileName: "march.csv",
			FileType: "csv",
			Transactions: []Transaction{
				{ID: "tx-1", Type: TransactionTypeCardPayment},
				{ID: "tx-2", Type: TransactionTypeCardPayment},
			},
		},
	}
	return m
}

func TestMonthRecord_BindingLifecycle(t *testing.T) {
	m := testRecord()

	assert.Equal(t, BindingUnbound, m.BindingFor("tx-1").Kind)

	m.SetBinding("tx-1", BoundTo("stor-a"))
	b := m.BindingFor("tx-1")
	assert.Equal(t, BindingInvoice, b.Kind)
	assert.Equal(t, "stor-a", b.StorageID)

	// Last write wins.
	m.SetBinding("tx-1", NotNeeded())
	assert.Equal(t, BindingNotNeeded, m.BindingFor("tx-1").Kind)

	m.ClearBinding("tx-1")
	assert.Equal(t, BindingUnbound, m.BindingFor("tx-1").Kind)

	// Clearing an already-unbound transaction is a no-op.
	m.ClearBinding("tx-1")
	assert.Equal(t, BindingUnbound, m.BindingFor("tx-1").Kind)
}

func TestMonthRecord_BindingForDanglingStorageID(t *testing.T) {
	m := testRecord()
	m.SetBinding("tx-1", BoundTo("stor-gone"))

	assert.Equal(t, BindingUnbound, m.BindingFor("tx-1").Kind)
}

func TestMonthRecord_RemoveInvoiceCascadesBindings(t *testing.T) {
	m := testRecord()
	invoiceID := m.Invoices[0].ID
	m.SetBinding("tx-1", BoundTo("stor-a"))
	m.SetBinding("tx-2", BoundTo("stor-b"))

	removed := m.RemoveInvoice(invoiceID)
	require.NotNil(t, removed)
	assert.Equal(t, "stor-a", removed.StorageID)
	assert.Len(t, m.Invoices, 1)

	assert.Equal(t, BindingUnbound, m.BindingFor("tx-1").Kind)
	assert.Equal(t, BindingInvoice, m.BindingFor("tx-2").Kind)
}

func TestMonthRecord_RemoveInvoiceUnknownID(t *testing.T) {
	m := testRecord()
	assert.Nil(t, m.RemoveInvoice(uuid.New()))
	assert.Len(t, m.Invoices, 2)
}

func TestMonthRecord_RemoveStatementCascadesBindings(t *testing.T) {
	m := testRecord()
	stmtID := m.Statements[0].ID
	m.SetBinding("tx-1", NotNeeded())

	removed := m.RemoveStatement(stmtID)
	require.NotNil(t, removed)
	assert.Empty(t, m.Statements)
	assert.Empty(t, m.Bindings)
}

func TestMonthRecord_UpsertInvoice(t *testing.T) {
	m := testRecord()
	inv := m.Invoices[0]
	inv.FileName = "renamed.pdf"

	m.UpsertInvoice(inv)
	assert.Len(t, m.Invoices, 2)
	assert.Equal(t, "renamed.pdf", m.Invoices[0].FileName)

	m.UpsertInvoice(Invoice{ID: uuid.New(), StorageID: "stor-c"})
	assert.Len(t, m.Invoices, 3)
}

func TestMonthRecord_Lookups(t *testing.T) {
	m := testRecord()

	require.NotNil(t, m.InvoiceByStorageID("stor-b"))
	assert.Nil(t, m.InvoiceByStorageID("stor-x"))

	require.NotNil(t, m.InvoiceByID(m.Invoices[1].ID))
	assert.Nil(t, m.InvoiceByID(uuid.New()))

	require.NotNil(t, m.StatementByID(m.Statements[0].ID))
	assert.Nil(t, m.StatementByID(uuid.New()))
}

func TestMonthRecord_AllTransactions(t *testing.T) {
	m := testRecord()
	m.Statements = append(m.Statements, Statement{
		ID:           uuid.New(),
		Transactions: []Transaction{{ID: "tx-3"}},
	})

	txs := m.AllTransactions()
	require.Len(t, txs, 3)
	assert.Equal(t, "tx-1", txs[0].ID)
	assert.Equal(t, "tx-3", txs[2].ID)
}

func TestTransaction_EffectiveDate(t *testing.T) {
	tx := Transaction{DateStarted: "2025-03-01 10:00:00", DateCompleted: "2025-03-02 01:00:00"}
	d, ok := tx.EffectiveDate()
	require.True(t, ok)
	assert.Equal(t, 2, d.Day())

	// Completion missing: fall back to start.
	tx = Transaction{DateStarted: "2025-03-01"}
	d, ok = tx.EffectiveDate()
	require.True(t, ok)
	assert.Equal(t, 1, d.Day())

	_, ok = Transaction{DateStarted: "soon", DateCompleted: "later"}.EffectiveDate()
	assert.False(t, ok)

	_, ok = Transaction{}.EffectiveDate()
	assert.False(t, ok)
}
