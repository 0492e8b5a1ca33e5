package utils

import (
	"math"

	"donation-matching-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is the Korean standard VAT rate applied to supply amounts.
const DefaultVATRate = 0.10

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ComputeQuote derives quote amounts in won from a unit price and quantity.
// Commission and VAT are each rounded half-up on the whole supply amount.
func ComputeQuote(unitPrice int64, quantity int32, commissionRate float64) (domain.QuoteAmounts, error) {
	return ComputeQuoteWithVAT(unitPrice, quantity, commissionRate, DefaultVATRate)
}

// ComputeQuoteWithVAT is ComputeQuote with an explicit VAT rate.
func ComputeQuoteWithVAT(unitPrice int64, quantity int32, commissionRate, vatRate float64) (domain.QuoteAmounts, error) {
	if unitPrice < 0 {
		return domain.QuoteAmounts{}, &domain.InvalidQuoteInputError{Field: "unit_price", Reason: "must not be negative"}
	}
	if quantity <= 0 {
		return domain.QuoteAmounts{}, &domain.InvalidQuoteInputError{Field: "quantity", Reason: "must be positive"}
	}
	if commissionRate < 0 {
		return domain.QuoteAmounts{}, &domain.InvalidQuoteInputError{Field: "commission_rate", Reason: "must not be negative"}
	}
	if vatRate < 0 {
		return domain.QuoteAmounts{}, &domain.InvalidQuoteInputError{Field: "vat_rate", Reason: "must not be negative"}
	}

	supply := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt32(quantity))
	commission := supply.Mul(decimal.NewFromFloat(commissionRate)).Round(0)
	vat := supply.Mul(decimal.NewFromFloat(vatRate)).Round(0)
	total := supply.Add(commission).Add(vat)
	// Every amount is non-negative, so the total bounds the others.
	if total.GreaterThan(maxAmount) {
		return domain.QuoteAmounts{}, &domain.InvalidQuoteInputError{Field: "unit_price", Reason: "amount out of range"}
	}

	return domain.QuoteAmounts{
		SupplyAmount:     supply.IntPart(),
		CommissionAmount: commission.IntPart(),
		VATAmount:        vat.IntPart(),
		TotalAmount:      total.IntPart(),
	}, nil
}
