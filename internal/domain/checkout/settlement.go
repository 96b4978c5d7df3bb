package checkout

import (
	"fmt"
	"strings"

	"github.com/sangkips/salon-checkout/pkg/money"
)

// SettlementInput is everything the reconciler looks at.
type SettlementInput struct {
	Total            int64
	Payments         []Payment
	Deposits         []AppliedDeposit
	PreviousPayments []PreviousPayment
	PreviousDeposits []PreviousDeposit
	Editing          bool
	ClientID         string
	HasLines         bool
}

// Settlement is the reconciliation of an invoice total against its money sources.
type Settlement struct {
	Total       int64            `json:"total"`
	Paid        int64            `json:"paid"`
	Deposits    int64            `json:"deposits"`
	Previous    int64            `json:"previous"`
	Covered     int64            `json:"covered"`
	Outstanding int64            `json:"outstanding"`
	Change      int64            `json:"change"`
	Errors      ValidationErrors `json:"errors,omitempty"`
}

// CanSubmit reports whether no validation rule is violated.
func (s Settlement) CanSubmit() bool {
	return len(s.Errors) == 0
}

// Reconcile computes the outstanding balance and collects every violation. It has no side
// effects, so calling it twice with the same input gives the same result.
//
// Amounts whose sum does not fit in an int64 are rejected as invalid and leave Outstanding
// and Change at zero.
//
// Change is paid back only from new payments and only on new invoices: a deposit is never
// turned into cash.
func Reconcile(in SettlementInput) Settlement {
	s := Settlement{Total: in.Total}
	overflow := false
	add := func(dst *int64, amount int64) {
		if sum, ok := money.Add(*dst, amount); ok {
			*dst = sum
		} else {
			overflow = true
		}
	}

	if in.HasLines && strings.TrimSpace(in.ClientID) == "" {
		s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindMissingClient, Field: "client_id", Message: "select a client before checking out"})
	}

	hasPositivePayment := false
	for i, p := range in.Payments {
		field := fmt.Sprintf("payments[%d]", i)
		if p.Amount < 0 {
			s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindInvalidAmount, Field: field + ".amount", Message: "payment amount cannot be negative"})
			continue
		}
		add(&s.Paid, p.Amount)
		if p.Amount == 0 {
			continue
		}
		hasPositivePayment = true
		if p.RequiresReference && strings.TrimSpace(p.Reference) == "" {
			s.Errors = append(s.Errors, &ValidationError{
				Kind:    ErrKindMissingReference,
				Field:   field + ".reference",
				Message: fmt.Sprintf("payment method %s requires a reference", p.MethodName),
			})
		}
	}

	for i, d := range in.Deposits {
		field := fmt.Sprintf("deposits[%d].amount", i)
		if d.Amount < 0 {
			s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindInvalidAmount, Field: field, Message: "deposit amount cannot be negative"})
			continue
		}
		if d.Amount > d.Available {
			s.Errors = append(s.Errors, &ValidationError{
				Kind:    ErrKindDepositExceeds,
				Field:   field,
				Message: fmt.Sprintf("deposit %s has only %d available", d.DepositID, d.Available),
			})
		}
		add(&s.Deposits, d.Amount)
	}

	for i, p := range in.PreviousPayments {
		if p.Removed {
			continue
		}
		if p.Amount < 0 {
			s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindInvalidAmount, Field: fmt.Sprintf("previous_payments[%d].amount", i), Message: "payment amount cannot be negative"})
			continue
		}
		add(&s.Previous, p.Amount)
	}
	for _, d := range in.PreviousDeposits {
		if !d.Removed {
			add(&s.Previous, money.ClampZero(d.Amount))
		}
	}

	add(&s.Covered, s.Paid)
	add(&s.Covered, s.Deposits)
	add(&s.Covered, s.Previous)
	if overflow {
		s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindInvalidAmount, Field: "payments", Message: "amounts are too large to add up"})
		return s
	}
	s.Outstanding = money.ClampZero(s.Total - s.Covered)

	if s.Outstanding > 0 {
		if hasPositivePayment {
			s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindOutstanding, Field: "payments", Message: "an outstanding amount remains"})
		} else {
			s.Errors = append(s.Errors, &ValidationError{Kind: ErrKindNoPayment, Field: "payments", Message: "enter a payment, deposits do not cover the total"})
		}
	}

	if !in.Editing {
		s.Change = money.Min(s.Paid, money.ClampZero(s.Covered-s.Total))
	}

	return s
}
