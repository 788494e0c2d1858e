package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountCurrencyPair(t *testing.T) {
	pair := ParseAmountCurrencyPair("50.80|BGN")
	require.NotNil(t, pair)
	assert.Equal(t, "50.80", pair.Amount.StringFixed(2))
	assert.Equal(t, "BGN", pair.Currency)

	pair = ParseAmountCurrencyPair(" 10000 | USD ")
	require.NotNil(t, pair)
	assert.Equal(t, "10000.00", pair.Amount.StringFixed(2))
	assert.Equal(t, "USD", pair.Currency)
}

func TestParseAmountCurrencyPair_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"invalid",
		"50.80",
		"50.80|BGN|extra",
		"abc|EUR",
		"50.80|",
		"|EUR",
	} {
		assert.Nil(t, ParseAmountCurrencyPair(s), "input %q", s)
	}
}

func TestToBaseAndFromBase(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	// EUR is the base.
	assert.True(t, ToBase(hundred, "EUR").Equal(hundred))

	bgn := ToBase(hundred, "BGN")
	assert.Equal(t, "51.13", FormatAmount(bgn))

	// Round trip is exact before display rounding.
	assert.True(t, FromBase(bgn, "BGN").Equal(hundred))

	// Lowercase currency codes resolve too.
	assert.True(t, ToBase(hundred, "bgn").Equal(bgn))
}

func TestToBase_UnknownCurrencyPassesThrough(t *testing.T) {
	amount := decimal.RequireFromString("42.42")
	assert.True(t, ToBase(amount, "XXX").Equal(amount))
	assert.True(t, FromBase(amount, "XXX").Equal(amount))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "1.46", FormatAmount(decimal.RequireFromString("1.455")))
	assert.Equal(t, "-3.10", FormatAmount(decimal.RequireFromString("-3.1")))
}
