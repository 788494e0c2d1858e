package service

import (
	"math"
	"strings"

	"invotrack/internal/models"
)

const revolutBusinessFee = "revolut business fee"

// NeedsInvoice reports whether a transaction requires a supporting
// invoice under the given policy. Pure per-transaction predicate: the
// result is the AND of independent inclusion conditions, so rule order
// is irrelevant. An unparseable amount counts as "not positive" and is
// never excluded on amount alone.
func NeedsInvoice(tx models.Transaction, policy models.FilterPolicy) bool {
	if !typeAllowed(tx.Type, policy.AllowedTransactionTypes) {
		return false
	}

	if policy.HidePositiveAmounts {
		if amount := parseAmount(tx.Amount); !math.IsNaN(amount) && amount > 0 {
			return false
		}
	}

	if policy.HideExchangeRows && tx.Type == models.TransactionTypeExchange {
		return false
	}

	if policy.HideRevolutBusinessFee &&
		strings.Contains(strings.ToLower(tx.Description), revolutBusinessFee) {
		return false
	}

	return true
}

func typeAllowed(txType string, allowed []string) bool {
	for _, t := range allowed {
		if t == txType {
			return true
		}
	}
	return false
}
