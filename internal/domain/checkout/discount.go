package checkout

import (
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/pkg/money"
	"github.com/shopspring/decimal"
)

// DiscountDefinition is an active discount from the salon catalog.
type DiscountDefinition struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Kind  enum.DiscountKind `json:"kind"`
	Value decimal.Decimal   `json:"value"`
}

// Amount resolves the definition against a subtotal. Percent values are whole percents
// (10 means 10%) and round half away from zero. Negative definitions resolve to zero.
func (d DiscountDefinition) Amount(subtotal int64) int64 {
	if d.Kind == enum.DiscountKindPercent {
		return money.ClampZero(money.Percent(subtotal, d.Value))
	}
	return money.ClampZero(d.Value.Round(0).IntPart())
}
