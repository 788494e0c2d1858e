package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFieldFromValue(t *testing.T) {
	f := fieldFromValue(strPtr("  Acme GmbH "), 123)
	require.NotNil(t, f.Value)
	assert.Equal(t, "Acme GmbH", *f.Value)
	assert.Nil(t, f.Error)
	assert.Equal(t, int64(123), f.LastUpdated)

	for _, v := range []*string{nil, strPtr(""), strPtr("   ")} {
		f := fieldFromValue(v, 123)
		assert.Nil(t, f.Value)
		require.NotNil(t, f.Error)
		assert.Equal(t, "field not found in document", *f.Error)
	}
}

func TestAmountField(t *testing.T) {
	f := amountField(strPtr("50.80|BGN"), 1)
	require.NotNil(t, f.Value)
	assert.Equal(t, "50.80|BGN", *f.Value)

	// A value the pair parser rejects becomes a field error.
	f = amountField(strPtr("fifty euros"), 1)
	assert.Nil(t, f.Value)
	require.NotNil(t, f.Error)
	assert.Contains(t, *f.Error, "unrecognized amount format")

	f = amountField(nil, 1)
	assert.Nil(t, f.Value)
	require.NotNil(t, f.Error)
}
