package service

import (
	"math"
	"sort"
	"strconv"
	"time"

	"invotrack/internal/models"
)

// FindRefundedPaymentIDs pairs CARD_REFUND transactions with the
// CARD_PAYMENT they reverse and returns the ids of refunded payments.
//
// Refunds are processed in ascending date order. Each refund claims at
// most one unclaimed payment with an exactly equal absolute original
// amount, the same original currency and mcc, dated on or before the
// refund; among candidates the latest-dated payment wins. A payment is
// claimed at most once per pass. Unmatched refunds are ignored and rows
// with unparseable amounts or dates can never match. The flag is derived
// on every call and never persisted.
func FindRefundedPaymentIDs(txs []models.Transaction) map[string]struct{} {
	type datedRefund struct {
		tx   models.Transaction
		date time.Time
	}

	var refunds []datedRefund
	for _, tx := range txs {
		if tx.Type != models.TransactionTypeCardRefund {
			continue
		}
		date, ok := tx.EffectiveDate()
		if !ok {
			continue
		}
		refunds = append(refunds, datedRefund{tx: tx, date: date})
	}
	sort.SliceStable(refunds, func(i, j int) bool {
		return refunds[i].date.Before(refunds[j].date)
	})

	refunded := map[string]struct{}{}

	for _, refund := range refunds {
		refundAmount := math.Abs(parseAmount(refund.tx.OrigAmount))
		if math.IsNaN(refundAmount) {
			continue
		}

		var best *models.Transaction
		var bestDate time.Time
		for i := range txs {
			payment := &txs[i]
			if payment.Type != models.TransactionTypeCardPayment {
				continue
			}
			if _, claimed := refunded[payment.ID]; claimed {
				continue
			}
			// Exact equality on the parsed amounts, as written in the
			// source strings. NaN compares false and drops the row.
			if math.Abs(parseAmount(payment.OrigAmount)) != refundAmount {
				continue
			}
			if payment.OrigCurrency != refund.tx.OrigCurrency || payment.MCC != refund.tx.MCC {
				continue
			}
			date, ok := payment.EffectiveDate()
			if !ok || date.After(refund.date) {
				continue
			}
			if best == nil || date.After(bestDate) {
				best = payment
				bestDate = date
			}
		}

		if best != nil {
			refunded[best.ID] = struct{}{}
		}
	}

	return refunded
}

// parseAmount parses a statement amount string, NaN when unparseable.
func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
