package utils

import (
	"math"
	"testing"

	"donation-matching-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeQuote(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice int64
		quantity  int32
		rate      float64
		expected  domain.QuoteAmounts
	}{
		{"standard", 1000, 50, 0.1, domain.QuoteAmounts{SupplyAmount: 50000, CommissionAmount: 5000, VATAmount: 5000, TotalAmount: 60000}},
		{"zero commission", 1000, 50, 0, domain.QuoteAmounts{SupplyAmount: 50000, CommissionAmount: 0, VATAmount: 5000, TotalAmount: 55000}},
		{"free goods", 0, 10, 0.1, domain.QuoteAmounts{}},
		{"vat rounds half up", 5, 1, 0, domain.QuoteAmounts{SupplyAmount: 5, CommissionAmount: 0, VATAmount: 1, TotalAmount: 6}},
		{"vat rounds down", 4, 1, 0, domain.QuoteAmounts{SupplyAmount: 4, CommissionAmount: 0, VATAmount: 0, TotalAmount: 4}},
		{"commission rounds half up", 15, 1, 0.1, domain.QuoteAmounts{SupplyAmount: 15, CommissionAmount: 2, VATAmount: 2, TotalAmount: 19}},
		{"rounding on whole supply", 333, 3, 0.05, domain.QuoteAmounts{SupplyAmount: 999, CommissionAmount: 50, VATAmount: 100, TotalAmount: 1149}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeQuote(tt.unitPrice, tt.quantity, tt.rate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got.SupplyAmount+got.CommissionAmount+got.VATAmount, got.TotalAmount)
		})
	}
}

func TestComputeQuote_InvalidInput(t *testing.T) {
	_, err := ComputeQuote(-1, 10, 0.1)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidQuoteInput(err))
	assert.Contains(t, err.Error(), "unit_price")

	_, err = ComputeQuote(1000, 0, 0.1)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidQuoteInput(err))
	assert.Contains(t, err.Error(), "quantity")

	_, err = ComputeQuote(1000, -3, 0.1)
	assert.True(t, domain.IsInvalidQuoteInput(err))

	_, err = ComputeQuote(1000, 3, -0.1)
	assert.True(t, domain.IsInvalidQuoteInput(err))
}

func TestComputeQuote_AmountOutOfRange(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice int64
		quantity  int32
		rate      float64
	}{
		{"supply overflows", math.MaxInt64 / 2, 4, 0.1},
		{"supply fits but total overflows", math.MaxInt64 - 10, 1, 0.1},
		{"max unit price and quantity", math.MaxInt64, math.MaxInt32, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeQuote(tt.unitPrice, tt.quantity, tt.rate)
			require.Error(t, err)
			assert.True(t, domain.IsInvalidQuoteInput(err))
			assert.Contains(t, err.Error(), "amount out of range")
			assert.Equal(t, domain.QuoteAmounts{}, got)
		})
	}

	got, err := ComputeQuote(math.MaxInt64/2, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64/2), got.SupplyAmount)
}

func TestComputeQuoteWithVAT(t *testing.T) {
	got, err := ComputeQuoteWithVAT(1000, 10, 0.1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.VATAmount)
	assert.Equal(t, int64(11000), got.TotalAmount)
}
