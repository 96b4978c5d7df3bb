package checkout

import (
	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/pkg/money"
	"github.com/shopspring/decimal"
)

// Totals is the derived money summary of a cart.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Calculator derives Totals from a cart. The tax rate is a fraction, e.g. 0.19.
type Calculator struct {
	TaxRate decimal.Decimal
}

func NewCalculator(taxRate decimal.Decimal) Calculator {
	return Calculator{TaxRate: taxRate}
}

// Compute applies the general discount to the subtotal and taxes what remains:
//
//	base  = max(0, Σ line.Total() - GeneralDiscount)
//	tax   = TaxEnabled ? round(base × rate) : 0
//	total = base + tax
//
// Discount holds the part of the general discount that was actually absorbed.
func (c Calculator) Compute(cart *Cart) Totals {
	subtotal := lo.SumBy(cart.Lines, func(l CartLine) int64 { return l.Total() })
	base := money.ClampZero(subtotal - cart.GeneralDiscount)

	var tax int64
	if cart.TaxEnabled {
		tax = money.ApplyRate(base, c.TaxRate)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: subtotal - base,
		Tax:      tax,
		Total:    base + tax,
	}
}
