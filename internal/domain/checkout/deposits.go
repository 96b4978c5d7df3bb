package checkout

import (
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/pkg/money"
)

// Deposit is a client's prepaid credit ("abono") as reported by the salon backend.
type Deposit struct {
	ID        string    `json:"id"`
	Available int64     `json:"available"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// AppliedDeposit records how much of a deposit the settlement consumes. Available is the
// deposit balance at selection time.
type AppliedDeposit struct {
	DepositID string `json:"deposit_id"`
	Amount    int64  `json:"amount"`
	Available int64  `json:"available"`
}

// DepositSelector tracks which deposits are applied to the current settlement.
type DepositSelector struct {
	Applied []AppliedDeposit `json:"applied"`
}

func (s *DepositSelector) IsApplied(depositID string) bool {
	return lo.ContainsBy(s.Applied, func(a AppliedDeposit) bool { return a.DepositID == depositID })
}

// Toggle applies min(available, stillOwed) when the deposit is not selected and removes it
// entirely when it is. It reports whether the deposit ends up applied. Applying nothing is
// a no-op.
func (s *DepositSelector) Toggle(d Deposit, stillOwed int64) bool {
	if s.IsApplied(d.ID) {
		s.Applied = lo.Reject(s.Applied, func(a AppliedDeposit, _ int) bool { return a.DepositID == d.ID })
		if len(s.Applied) == 0 {
			s.Applied = nil
		}
		return false
	}

	amount := money.Min(money.ClampZero(d.Available), money.ClampZero(stillOwed))
	if amount == 0 {
		return false
	}
	s.Applied = append(s.Applied, AppliedDeposit{DepositID: d.ID, Amount: amount, Available: d.Available})
	return true
}

// AutoApplyAll replaces the selection by walking deposits in order and greedily taking
// min(available, remaining) from each. It reports whether stillOwed was fully covered.
func (s *DepositSelector) AutoApplyAll(deposits []Deposit, stillOwed int64) bool {
	s.Applied = nil
	remaining := money.ClampZero(stillOwed)

	for _, d := range deposits {
		if remaining == 0 {
			break
		}
		amount := money.Min(money.ClampZero(d.Available), remaining)
		if amount == 0 {
			continue
		}
		s.Applied = append(s.Applied, AppliedDeposit{DepositID: d.ID, Amount: amount, Available: d.Available})
		remaining -= amount
	}

	return remaining == 0
}

func (s *DepositSelector) Total() int64 {
	return lo.SumBy(s.Applied, func(a AppliedDeposit) int64 { return a.Amount })
}

func (s *DepositSelector) Clear() {
	s.Applied = nil
}
