package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// PaymentMethod is an active tender type from the salon catalog.
type PaymentMethod struct {
	ID                string `json:"id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	RequiresReference bool   `json:"requires_reference"`
}

// Payment is one tender line entered for the current settlement.
type Payment struct {
	ID                uuid.UUID `json:"id"`
	MethodID          string    `json:"method_id"`
	MethodName        string    `json:"method_name"`
	RequiresReference bool      `json:"requires_reference"`
	Amount            int64     `json:"amount"`
	Reference         string    `json:"reference,omitempty"`
	Default           bool      `json:"default"`
}

func newPayment(method PaymentMethod, amount int64, reference string) Payment {
	return Payment{
		ID:                uuid.New(),
		MethodID:          method.ID,
		MethodName:        method.Name,
		RequiresReference: method.RequiresReference,
		Amount:            amount,
		Reference:         strings.TrimSpace(reference),
	}
}

// PaymentUpdate carries the fields a cashier may change on a payment line. Nil means unchanged.
type PaymentUpdate struct {
	Method    *PaymentMethod
	Amount    *int64
	Reference *string
}

// PaymentBook holds the new payment lines of a settlement.
//
// While the cashier has a single line the book owns it: Seed keeps that default line equal
// to the amount still due. Once a second line is added, or a line is removed, Manual is set
// for good and Seed never touches the lines again.
type PaymentBook struct {
	Lines     []Payment `json:"lines"`
	Manual    bool      `json:"manual"`
	SeededDue int64     `json:"seeded_due"`
}

// Seed creates or refreshes the default line. An amount the cashier typed into the default
// line survives until the due amount itself changes.
func (b *PaymentBook) Seed(method PaymentMethod, due int64) {
	if b.Manual {
		return
	}

	if len(b.Lines) == 0 {
		if due <= 0 {
			return
		}
		p := newPayment(method, due, "")
		p.Default = true
		b.Lines = append(b.Lines, p)
		b.SeededDue = due
		return
	}

	if len(b.Lines) == 1 && b.Lines[0].Default && due != b.SeededDue {
		b.Lines[0].Amount = due
		b.SeededDue = due
	}
}

// Add appends a payment line. Adding a second line hands the book over to the cashier.
func (b *PaymentBook) Add(method PaymentMethod, amount int64, reference string) Payment {
	p := newPayment(method, amount, reference)
	b.Lines = append(b.Lines, p)
	if len(b.Lines) > 1 {
		b.Manual = true
	}
	return p
}

func (b *PaymentBook) Update(id uuid.UUID, upd PaymentUpdate) (Payment, error) {
	_, idx, ok := lo.FindIndexOf(b.Lines, func(p Payment) bool { return p.ID == id })
	if !ok {
		return Payment{}, ErrPaymentNotFound
	}

	p := b.Lines[idx]
	if upd.Method != nil {
		p.MethodID = upd.Method.ID
		p.MethodName = upd.Method.Name
		p.RequiresReference = upd.Method.RequiresReference
	}
	if upd.Amount != nil {
		p.Amount = *upd.Amount
	}
	if upd.Reference != nil {
		p.Reference = strings.TrimSpace(*upd.Reference)
	}
	b.Lines[idx] = p
	return p, nil
}

// Remove deletes a payment line and stops any further seeding.
func (b *PaymentBook) Remove(id uuid.UUID) error {
	_, idx, ok := lo.FindIndexOf(b.Lines, func(p Payment) bool { return p.ID == id })
	if !ok {
		return ErrPaymentNotFound
	}
	b.Lines = append(b.Lines[:idx], b.Lines[idx+1:]...)
	b.Manual = true
	return nil
}

func (b *PaymentBook) Total() int64 {
	return lo.SumBy(b.Lines, func(p Payment) int64 { return p.Amount })
}

// Entered sums the lines the cashier is responsible for, leaving out a default line the
// book still owns.
func (b *PaymentBook) Entered() int64 {
	return lo.SumBy(b.Lines, func(p Payment) int64 {
		if p.Default && !b.Manual {
			return 0
		}
		return p.Amount
	})
}

func (b *PaymentBook) Reset() {
	*b = PaymentBook{}
}
