package billing

import (
	"fmt"

	"github.com/invoicehub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FinancialTotals holds the derived document-level money fields.
// All values keep full decimal precision; rounding happens only at
// display time (see Invoice.FormattedTotal).
type FinancialTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

var oneHundred = decimal.NewFromInt(100)

// ValidateRate checks a percentage rate is within [0, 100]
func ValidateRate(name string, rate decimal.Decimal) *shared.DomainError {
	if rate.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s cannot be negative: %s", name, rate))
	}
	if rate.GreaterThan(oneHundred) {
		return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("%s cannot exceed 100: %s", name, rate))
	}
	return nil
}

// CalculateTotals recomputes every line item amount and the document
// totals from quantities, rates, and the two percentage rates. It is
// pure and deterministic: calling it twice with unchanged inputs yields
// identical output.
//
// Each item amount is overwritten with quantity * rate regardless of
// what the caller supplied. Then:
//
//	subtotal       = sum of item amounts
//	taxAmount      = subtotal * taxRate / 100
//	discountAmount = subtotal * discountRate / 100
//	total          = subtotal + taxAmount - discountAmount
func CalculateTotals(items LineItems, taxRate, discountRate decimal.Decimal) (LineItems, FinancialTotals, *shared.DomainError) {
	if err := items.Validate(); err != nil {
		return nil, FinancialTotals{}, err
	}
	if err := ValidateRate("Tax rate", taxRate); err != nil {
		return nil, FinancialTotals{}, err
	}
	if err := ValidateRate("Discount rate", discountRate); err != nil {
		return nil, FinancialTotals{}, err
	}

	recomputed := make(LineItems, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		item.Amount = item.Quantity.Mul(item.Rate)
		recomputed[i] = item
		subtotal = subtotal.Add(item.Amount)
	}

	taxAmount := subtotal.Mul(taxRate).Div(oneHundred)
	discountAmount := subtotal.Mul(discountRate).Div(oneHundred)

	totals := FinancialTotals{
		Subtotal:       subtotal,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		Total:          subtotal.Add(taxAmount).Sub(discountAmount),
	}

	return recomputed, totals, nil
}
