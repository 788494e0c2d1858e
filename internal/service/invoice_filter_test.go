package service

import (
	"testing"

	"invotrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNeedsInvoice_DefaultPolicy(t *testing.T) {
	policy := models.DefaultFilterPolicy()

	tests := []struct {
		name string
		tx   models.Transaction
		want bool
	}{
		{
			name: "negative card payment needs one",
			tx:   models.Transaction{Type: "CARD_PAYMENT", Amount: "-20.00", Description: "Hosting"},
			want: true,
		},
		{
			name: "manual row needs one",
			tx:   models.Transaction{Type: "MANUAL", Amount: "-10.00"},
			want: true,
		},
		{
			name: "positive amount excluded",
			tx:   models.Transaction{Type: "CARD_PAYMENT", Amount: "20.00"},
			want: false,
		},
		{
			name: "exchange excluded",
			tx:   models.Transaction{Type: "EXCHANGE", Amount: "-20.00"},
			want: false,
		},
		{
			name: "refund type excluded",
			tx:   models.Transaction{Type: "CARD_REFUND", Amount: "-20.00"},
			want: false,
		},
		{
			name: "platform fee excluded case-insensitively",
			tx:   models.Transaction{Type: "CARD_PAYMENT", Amount: "-7.99", Description: "REVOLUT BUSINESS FEE March"},
			want: false,
		},
		{
			name: "unparseable amount stays included",
			tx:   models.Transaction{Type: "CARD_PAYMENT", Amount: "n/a"},
			want: true,
		},
		{
			name: "zero amount stays included",
			tx:   models.Transaction{Type: "CARD_PAYMENT", Amount: "0"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsInvoice(tt.tx, policy))
		})
	}
}

func TestNeedsInvoice_PolicyOverrides(t *testing.T) {
	tx := models.Transaction{Type: "EXCHANGE", Amount: "25.00", Description: "Revolut Business Fee"}

	relaxed := models.FilterPolicy{
		AllowedTransactionTypes: []string{"EXCHANGE"},
		HidePositiveAmounts:     false,
		HideExchangeRows:        false,
		HideRevolutBusinessFee:  false,
	}
	assert.True(t, NeedsInvoice(tx, relaxed))

	// Any single rule flipping back on excludes the row again.
	relaxed.HideRevolutBusinessFee = true
	assert.False(t, NeedsInvoice(tx, relaxed))
}

func TestNeedsInvoice_TypeNotAllowed(t *testing.T) {
	policy := models.FilterPolicy{AllowedTransactionTypes: []string{"CARD_PAYMENT"}}
	assert.False(t, NeedsInvoice(models.Transaction{Type: "TRANSFER", Amount: "-5.00"}, policy))
}
