package service

import (
	"testing"

	"invotrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(id, date, amount, currency, mcc string) models.Transaction {
	return models.Transaction{
		ID:            id,
		Type:          models.TransactionTypeCardPayment,
		DateCompleted: date,
		OrigAmount:    amount,
		OrigCurrency:  currency,
		MCC:           mcc,
	}
}

func refund(id, date, amount, currency, mcc string) models.Transaction {
	return models.Transaction{
		ID:            id,
		Type:          models.TransactionTypeCardRefund,
		DateCompleted: date,
		OrigAmount:    amount,
		OrigCurrency:  currency,
		MCC:           mcc,
	}
}

func TestFindRefundedPaymentIDs_BasicMatch(t *testing.T) {
	txs := []models.Transaction{
		payment("pay-1", "2025-03-01 10:00:00", "-50.80", "BGN", "5812"),
		refund("ref-1", "2025-03-05 10:00:00", "50.80", "BGN", "5812"),
	}

	refunded := FindRefundedPaymentIDs(txs)
	require.Len(t, refunded, 1)
	assert.Contains(t, refunded, "pay-1")
}

func TestFindRefundedPaymentIDs_RefundBeforePayment(t *testing.T) {
	txs := []models.Transaction{
		refund("ref-1", "2025-03-01 10:00:00", "50.80", "BGN", "5812"),
		payment("pay-1", "2025-03-05 10:00:00", "-50.80", "BGN", "5812"),
	}

	assert.Empty(t, FindRefundedPaymentIDs(txs))
}

func TestFindRefundedPaymentIDs_LatestPaymentWins(t *testing.T) {
	txs := []models.Transaction{
		payment("pay-old", "2025-03-01 10:00:00", "-20.00", "EUR", "5734"),
		payment("pay-new", "2025-03-03 10:00:00", "-20.00", "EUR", "5734"),
		refund("ref-1", "2025-03-05 10:00:00", "20.00", "EUR", "5734"),
	}

	refunded := FindRefundedPaymentIDs(txs)
	require.Len(t, refunded, 1)
	assert.Contains(t, refunded, "pay-new")
}

func TestFindRefundedPaymentIDs_PaymentClaimedOnce(t *testing.T) {
	// Two refunds, one payment: the second refund finds nothing left.
	txs := []models.Transaction{
		payment("pay-1", "2025-03-01 10:00:00", "-20.00", "EUR", "5734"),
		refund("ref-1", "2025-03-02 10:00:00", "20.00", "EUR", "5734"),
		refund("ref-2", "2025-03-03 10:00:00", "20.00", "EUR", "5734"),
	}

	refunded := FindRefundedPaymentIDs(txs)
	assert.Len(t, refunded, 1)
}

func TestFindRefundedPaymentIDs_RefundsProcessedInDateOrder(t *testing.T) {
	// The earlier refund claims the earlier-or-equal candidate set first,
	// regardless of file order.
	txs := []models.Transaction{
		refund("ref-late", "2025-03-10 10:00:00", "20.00", "EUR", "5734"),
		refund("ref-early", "2025-03-02 10:00:00", "20.00", "EUR", "5734"),
		payment("pay-1", "2025-03-01 10:00:00", "-20.00", "EUR", "5734"),
		payment("pay-2", "2025-03-05 10:00:00", "-20.00", "EUR", "5734"),
	}

	refunded := FindRefundedPaymentIDs(txs)
	require.Len(t, refunded, 2)
	assert.Contains(t, refunded, "pay-1")
	assert.Contains(t, refunded, "pay-2")
}

func TestFindRefundedPaymentIDs_CurrencyAndMCCMustMatch(t *testing.T) {
	txs := []models.Transaction{
		payment("pay-cur", "2025-03-01 10:00:00", "-20.00", "USD", "5734"),
		payment("pay-mcc", "2025-03-01 10:00:00", "-20.00", "EUR", "5999"),
		refund("ref-1", "2025-03-05 10:00:00", "20.00", "EUR", "5734"),
	}

	assert.Empty(t, FindRefundedPaymentIDs(txs))
}

func TestFindRefundedPaymentIDs_UnparseableAmounts(t *testing.T) {
	txs := []models.Transaction{
		payment("pay-bad", "2025-03-01 10:00:00", "n/a", "EUR", "5734"),
		refund("ref-bad", "2025-03-05 10:00:00", "garbage", "EUR", "5734"),
		refund("ref-ok", "2025-03-05 10:00:00", "20.00", "EUR", "5734"),
	}

	// NaN never equals anything: the bad payment is no candidate and the
	// bad refund claims nothing.
	assert.Empty(t, FindRefundedPaymentIDs(txs))
}

func TestFindRefundedPaymentIDs_UnparseableDates(t *testing.T) {
	txs := []models.Transaction{
		payment("pay-nodate", "not a date", "-20.00", "EUR", "5734"),
		refund("ref-1", "2025-03-05 10:00:00", "20.00", "EUR", "5734"),
	}

	assert.Empty(t, FindRefundedPaymentIDs(txs))
}

func TestFindRefundedPaymentIDs_SignInsensitive(t *testing.T) {
	// Matching compares absolute amounts; export sign conventions vary.
	txs := []models.Transaction{
		payment("pay-1", "2025-03-01 10:00:00", "20.00", "EUR", "5734"),
		refund("ref-1", "2025-03-05 10:00:00", "-20.00", "EUR", "5734"),
	}

	refunded := FindRefundedPaymentIDs(txs)
	assert.Contains(t, refunded, "pay-1")
}
