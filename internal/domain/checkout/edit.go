package checkout

import "github.com/samber/lo"

// PreviousPayment is a payment already recorded on the invoice being edited.
type PreviousPayment struct {
	ID         string `json:"id"`
	MethodID   string `json:"method_id"`
	MethodName string `json:"method_name"`
	Amount     int64  `json:"amount"`
	Reference  string `json:"reference,omitempty"`
	Removed    bool   `json:"removed"`
}

// PreviousDeposit is a deposit already applied to the invoice being edited.
type PreviousDeposit struct {
	DepositID string `json:"deposit_id"`
	Amount    int64  `json:"amount"`
	Removed   bool   `json:"removed"`
}

// EditState holds what the invoice being edited already carried, plus the cashier's
// changes to it. Original are the totals the backend issued the invoice with.
type EditState struct {
	InvoiceID string            `json:"invoice_id"`
	Original  Totals            `json:"original"`
	Payments  []PreviousPayment `json:"payments"`
	Deposits  []PreviousDeposit `json:"deposits"`
}

// EditPayment replaces a previous payment's amount. A negative amount is kept and reported
// by Reconcile, the same as for a new payment.
func (e *EditState) EditPayment(id string, amount int64) (PreviousPayment, error) {
	_, idx, ok := lo.FindIndexOf(e.Payments, func(p PreviousPayment) bool { return p.ID == id && !p.Removed })
	if !ok {
		return PreviousPayment{}, ErrPaymentNotFound
	}
	e.Payments[idx].Amount = amount
	return e.Payments[idx], nil
}

func (e *EditState) RemovePayment(id string) error {
	_, idx, ok := lo.FindIndexOf(e.Payments, func(p PreviousPayment) bool { return p.ID == id && !p.Removed })
	if !ok {
		return ErrPaymentNotFound
	}
	e.Payments[idx].Removed = true
	return nil
}

// RemoveDeposit drops a previously applied deposit. Merge reports it for restoration.
func (e *EditState) RemoveDeposit(depositID string) error {
	_, idx, ok := lo.FindIndexOf(e.Deposits, func(d PreviousDeposit) bool { return d.DepositID == depositID && !d.Removed })
	if !ok {
		return ErrDepositNotFound
	}
	e.Deposits[idx].Removed = true
	return nil
}

// RetainedPayments returns the previous payments still part of the invoice.
func (e *EditState) RetainedPayments() []PreviousPayment {
	if e == nil {
		return nil
	}
	return lo.Filter(e.Payments, func(p PreviousPayment, _ int) bool { return !p.Removed })
}

func (e *EditState) RetainedDeposits() []PreviousDeposit {
	if e == nil {
		return nil
	}
	return lo.Filter(e.Deposits, func(d PreviousDeposit, _ int) bool { return !d.Removed })
}

// PreviousTotal sums the retained previous payments and deposits.
func (e *EditState) PreviousTotal() int64 {
	return lo.SumBy(e.RetainedPayments(), func(p PreviousPayment) int64 { return p.Amount }) +
		lo.SumBy(e.RetainedDeposits(), func(d PreviousDeposit) int64 { return d.Amount })
}

// PaymentEntry is a payment as sent to the salon backend.
type PaymentEntry struct {
	MethodID  string `json:"method_id"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// DepositEntry is a deposit amount as sent to the salon backend.
type DepositEntry struct {
	DepositID string `json:"deposit_id"`
	Amount    int64  `json:"amount"`
}

// Merged is the final payment and deposit set of a settlement.
type Merged struct {
	Payments         []PaymentEntry `json:"payments"`
	Deposits         []DepositEntry `json:"deposits"`
	RestoredDeposits []DepositEntry `json:"restored_deposits,omitempty"`
}

// Merge combines retained previous entries with new ones. Zero amounts are dropped.
// Previous deposits the cashier removed come back in RestoredDeposits so the backend can
// return their balance to the client. edit may be nil for a new invoice.
func Merge(edit *EditState, payments []Payment, deposits []AppliedDeposit) Merged {
	var m Merged

	for _, p := range edit.RetainedPayments() {
		if p.Amount > 0 {
			m.Payments = append(m.Payments, PaymentEntry{MethodID: p.MethodID, Amount: p.Amount, Reference: p.Reference})
		}
	}
	for _, p := range payments {
		if p.Amount > 0 {
			m.Payments = append(m.Payments, PaymentEntry{MethodID: p.MethodID, Amount: p.Amount, Reference: p.Reference})
		}
	}

	for _, d := range edit.RetainedDeposits() {
		if d.Amount > 0 {
			m.Deposits = append(m.Deposits, DepositEntry{DepositID: d.DepositID, Amount: d.Amount})
		}
	}
	for _, d := range deposits {
		if d.Amount > 0 {
			m.Deposits = append(m.Deposits, DepositEntry{DepositID: d.DepositID, Amount: d.Amount})
		}
	}

	if edit != nil {
		for _, d := range edit.Deposits {
			if d.Removed {
				m.RestoredDeposits = append(m.RestoredDeposits, DepositEntry{DepositID: d.DepositID, Amount: d.Amount})
			}
		}
	}

	return m
}
