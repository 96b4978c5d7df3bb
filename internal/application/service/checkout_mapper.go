package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
)

// toCheckout rebuilds the in-memory checkout from a persisted session. Totals and the
// settlement are not stored in full, so callers recompute before reading them.
func toCheckout(s *entity.CheckoutSession) *checkout.Checkout {
	c := &checkout.Checkout{
		Phase:     s.Phase,
		LastError: s.LastError,
		Cart: checkout.Cart{
			ClientID:         s.ClientID,
			GeneralDiscount:  s.GeneralDiscount,
			DiscountID:       s.DiscountID,
			TaxEnabled:       s.TaxEnabled,
			Notes:            s.Notes,
			EditingInvoiceID: s.EditingInvoiceID,
			Changed:          s.CartChanged,
		},
		Payments: checkout.PaymentBook{
			Manual:    s.PaymentsManual,
			SeededDue: s.SeededDue,
		},
		Totals: checkout.Totals{
			Subtotal: s.Subtotal,
			Discount: s.Discount,
			Tax:      s.Tax,
			Total:    s.Total,
		},
	}

	for _, l := range s.Lines {
		c.Cart.Lines = append(c.Cart.Lines, checkout.CartLine{
			ID:                   l.ID,
			Kind:                 l.Kind,
			ItemID:               l.ItemID,
			Name:                 l.Name,
			Quantity:             l.Quantity,
			UnitPrice:            l.UnitPrice,
			Discount:             l.Discount,
			StaffID:              l.StaffID,
			UseCollaboratorPrice: l.UseCollaboratorPrice,
			CollaboratorPrice:    l.CollaboratorPrice,
		})
	}

	if s.IsEditing() {
		c.Edit = &checkout.EditState{
			InvoiceID: s.EditingInvoiceID,
			Original: checkout.Totals{
				Subtotal: s.OriginalSubtotal,
				Discount: s.OriginalDiscount,
				Tax:      s.OriginalTax,
				Total:    s.OriginalTotal,
			},
		}
	}

	for _, p := range s.Payments {
		if p.Previous {
			if c.Edit == nil {
				continue
			}
			c.Edit.Payments = append(c.Edit.Payments, checkout.PreviousPayment{
				ID:         p.RemoteID,
				MethodID:   p.MethodID,
				MethodName: p.MethodName,
				Amount:     p.Amount,
				Reference:  p.Reference,
				Removed:    p.Removed,
			})
			continue
		}
		c.Payments.Lines = append(c.Payments.Lines, checkout.Payment{
			ID:                p.ID,
			MethodID:          p.MethodID,
			MethodName:        p.MethodName,
			RequiresReference: p.RequiresReference,
			Amount:            p.Amount,
			Reference:         p.Reference,
			Default:           p.IsDefault,
		})
	}

	for _, d := range s.Deposits {
		switch d.State {
		case enum.DepositStateApplied:
			c.Deposits.Applied = append(c.Deposits.Applied, checkout.AppliedDeposit{
				DepositID: d.DepositID,
				Amount:    d.Amount,
				Available: d.Available,
			})
		case enum.DepositStatePrevious:
			if c.Edit != nil {
				c.Edit.Deposits = append(c.Edit.Deposits, checkout.PreviousDeposit{
					DepositID: d.DepositID,
					Amount:    d.Amount,
					Removed:   d.Removed,
				})
			}
		default:
			dep := checkout.Deposit{ID: d.DepositID, Available: d.Available, Note: d.Note}
			if d.DepositAt != nil {
				dep.CreatedAt = *d.DepositAt
			}
			c.Available = append(c.Available, dep)
		}
	}

	return c
}

// applyCheckout writes the checkout back onto the session row and rebuilds its children.
// Line and payment ids are carried over so they stay stable between requests.
func applyCheckout(s *entity.CheckoutSession, c *checkout.Checkout) {
	s.Phase = c.Phase
	s.LastError = c.LastError
	s.ClientID = c.Cart.ClientID
	s.GeneralDiscount = c.Cart.GeneralDiscount
	s.DiscountID = c.Cart.DiscountID
	s.TaxEnabled = c.Cart.TaxEnabled
	s.Notes = c.Cart.Notes
	s.EditingInvoiceID = c.Cart.EditingInvoiceID
	s.CartChanged = c.Cart.Changed
	s.PaymentsManual = c.Payments.Manual
	s.SeededDue = c.Payments.SeededDue
	s.Subtotal = c.Totals.Subtotal
	s.Discount = c.Totals.Discount
	s.Tax = c.Totals.Tax
	s.Total = c.Totals.Total
	s.Outstanding = c.Settlement.Outstanding
	var original checkout.Totals
	if c.Edit != nil {
		original = c.Edit.Original
	}
	s.OriginalSubtotal = original.Subtotal
	s.OriginalDiscount = original.Discount
	s.OriginalTax = original.Tax
	s.OriginalTotal = original.Total

	s.Lines = make([]entity.SessionLine, 0, len(c.Cart.Lines))
	for _, l := range c.Cart.Lines {
		s.Lines = append(s.Lines, entity.SessionLine{
			ID:                   l.ID,
			Kind:                 l.Kind,
			ItemID:               l.ItemID,
			Name:                 l.Name,
			Quantity:             l.Quantity,
			UnitPrice:            l.UnitPrice,
			Discount:             l.Discount,
			StaffID:              l.StaffID,
			UseCollaboratorPrice: l.UseCollaboratorPrice,
			CollaboratorPrice:    l.CollaboratorPrice,
		})
	}

	s.Payments = make([]entity.SessionPayment, 0, len(c.Payments.Lines))
	for _, p := range c.Payments.Lines {
		s.Payments = append(s.Payments, entity.SessionPayment{
			ID:                p.ID,
			MethodID:          p.MethodID,
			MethodName:        p.MethodName,
			RequiresReference: p.RequiresReference,
			Amount:            p.Amount,
			Reference:         p.Reference,
			IsDefault:         p.Default,
		})
	}

	s.Deposits = make([]entity.SessionDeposit, 0, len(c.Available)+len(c.Deposits.Applied))
	for _, d := range c.Available {
		row := entity.SessionDeposit{
			State:     enum.DepositStateOffered,
			DepositID: d.ID,
			Available: d.Available,
			Note:      d.Note,
		}
		if !d.CreatedAt.IsZero() {
			at := d.CreatedAt
			row.DepositAt = &at
		}
		s.Deposits = append(s.Deposits, row)
	}
	for _, d := range c.Deposits.Applied {
		s.Deposits = append(s.Deposits, entity.SessionDeposit{
			State:     enum.DepositStateApplied,
			DepositID: d.DepositID,
			Amount:    d.Amount,
			Available: d.Available,
		})
	}

	if c.Edit == nil {
		return
	}
	for _, p := range c.Edit.Payments {
		s.Payments = append(s.Payments, entity.SessionPayment{
			ID:         uuid.New(),
			MethodID:   p.MethodID,
			MethodName: p.MethodName,
			Amount:     p.Amount,
			Reference:  p.Reference,
			Previous:   true,
			RemoteID:   p.ID,
			Removed:    p.Removed,
		})
	}
	for _, d := range c.Edit.Deposits {
		s.Deposits = append(s.Deposits, entity.SessionDeposit{
			State:     enum.DepositStatePrevious,
			DepositID: d.DepositID,
			Amount:    d.Amount,
			Removed:   d.Removed,
		})
	}
}

// LineView is a cart line with its computed total
type LineView struct {
	checkout.CartLine
	EffectiveUnitPrice int64 `json:"effective_unit_price"`
	Total              int64 `json:"total"`
}

// CheckoutView is what the POS screen renders for one checkout
type CheckoutView struct {
	ID                uuid.UUID                 `json:"id"`
	Phase             enum.CheckoutPhase        `json:"phase"`
	ClientID          string                    `json:"client_id,omitempty"`
	ClientName        string                    `json:"client_name,omitempty"`
	Collaborator      bool                      `json:"collaborator"`
	EditingInvoiceID  string                    `json:"editing_invoice_id,omitempty"`
	Lines             []LineView                `json:"lines"`
	GeneralDiscount   int64                     `json:"general_discount"`
	DiscountID        string                    `json:"discount_id,omitempty"`
	TaxEnabled        bool                      `json:"tax_enabled"`
	Notes             string                    `json:"notes,omitempty"`
	Payments          []checkout.Payment        `json:"payments"`
	PaymentsManual    bool                      `json:"payments_manual"`
	AppliedDeposits   []checkout.AppliedDeposit `json:"applied_deposits"`
	AvailableDeposits []checkout.Deposit        `json:"available_deposits"`
	Previous          *checkout.EditState       `json:"previous,omitempty"`
	Totals            checkout.Totals           `json:"totals"`
	Settlement        checkout.Settlement       `json:"settlement"`
	StillOwed         int64                     `json:"still_owed"`
	CanSubmit         bool                      `json:"can_submit"`
	Display           map[string]string         `json:"display"`
	LastError         string                    `json:"last_error,omitempty"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

func newCheckoutView(s *entity.CheckoutSession, c *checkout.Checkout, format func(int64) string) *CheckoutView {
	v := &CheckoutView{
		ID:                s.ID,
		Phase:             c.Phase,
		ClientID:          c.Cart.ClientID,
		ClientName:        s.ClientName,
		Collaborator:      s.Collaborator,
		EditingInvoiceID:  c.Cart.EditingInvoiceID,
		Lines:             make([]LineView, 0, len(c.Cart.Lines)),
		GeneralDiscount:   c.Cart.GeneralDiscount,
		DiscountID:        c.Cart.DiscountID,
		TaxEnabled:        c.Cart.TaxEnabled,
		Notes:             c.Cart.Notes,
		Payments:          append([]checkout.Payment{}, c.Payments.Lines...),
		PaymentsManual:    c.Payments.Manual,
		AppliedDeposits:   append([]checkout.AppliedDeposit{}, c.Deposits.Applied...),
		AvailableDeposits: append([]checkout.Deposit{}, c.Available...),
		Previous:          c.Edit,
		Totals:            c.Totals,
		Settlement:        c.Settlement,
		StillOwed:         c.StillOwed(),
		CanSubmit:         c.IsOpen() && !c.Cart.IsEmpty() && c.Settlement.CanSubmit(),
		LastError:         c.LastError,
		UpdatedAt:         s.UpdatedAt,
	}
	for _, l := range c.Cart.Lines {
		v.Lines = append(v.Lines, LineView{CartLine: l, EffectiveUnitPrice: l.EffectiveUnitPrice(), Total: l.Total()})
	}
	v.Display = map[string]string{
		"subtotal":    format(c.Totals.Subtotal),
		"discount":    format(c.Totals.Discount),
		"tax":         format(c.Totals.Tax),
		"total":       format(c.Totals.Total),
		"paid":        format(c.Settlement.Paid),
		"deposits":    format(c.Settlement.Deposits),
		"previous":    format(c.Settlement.Previous),
		"outstanding": format(c.Settlement.Outstanding),
		"change":      format(c.Settlement.Change),
	}
	return v
}

// SessionSummary is one row of the open checkouts list
type SessionSummary struct {
	ID               uuid.UUID          `json:"id"`
	Phase            enum.CheckoutPhase `json:"phase"`
	ClientID         string             `json:"client_id,omitempty"`
	ClientName       string             `json:"client_name,omitempty"`
	EditingInvoiceID string             `json:"editing_invoice_id,omitempty"`
	Total            int64              `json:"total"`
	Outstanding      int64              `json:"outstanding"`
	DisplayTotal     string             `json:"display_total"`
	LastError        string             `json:"last_error,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
