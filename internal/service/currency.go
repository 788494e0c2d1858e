package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed conversion table, EUR as the base unit. Values are the EUR worth
// of one unit of the currency. The table is static on purpose: reports
// use stable reference rates, not live market data.
var eurPerUnit = map[string]decimal.Decimal{
	"EUR": decimal.NewFromInt(1),
	"BGN": decimal.RequireFromString("0.511292"), // fixed lev/euro peg
	"USD": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("1.17"),
	"CHF": decimal.RequireFromString("1.04"),
}

// ToBase converts an amount into the base currency. Unknown currencies
// pass through unchanged; that is the defined fallback, not an error.
func ToBase(amount decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := eurPerUnit[strings.ToUpper(currency)]
	if !ok {
		return amount
	}
	return amount.Mul(rate)
}

// FromBase converts a base-currency amount into the given currency,
// passing unknown currencies through unchanged.
func FromBase(amount decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := eurPerUnit[strings.ToUpper(currency)]
	if !ok {
		return amount
	}
	return amount.Div(rate)
}

// AmountCurrency is a parsed "<amount>|<CUR>" pair.
type AmountCurrency struct {
	Amount   decimal.Decimal
	Currency string
}

// ParseAmountCurrencyPair parses the two-part pipe format used by the
// invoice extraction pipeline, e.g. "50.80|BGN". Any other shape,
// including a bad number or empty currency, yields nil. Whitespace
// around either part is tolerated on purpose: the pairs come out of an
// LLM, which is sloppy about padding but not about structure.
func ParseAmountCurrencyPair(s string) *AmountCurrency {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	currency := strings.TrimSpace(parts[1])
	if currency == "" {
		return nil
	}
	return &AmountCurrency{Amount: amount, Currency: currency}
}

// FormatAmount renders an amount for display. Rounding happens here and
// only here; accumulation upstream stays exact.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
