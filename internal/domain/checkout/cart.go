package checkout

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/pkg/money"
)

// CartLine is one service or product sold on the invoice. Money fields are minor units.
type CartLine struct {
	ID                   uuid.UUID     `json:"id"`
	Kind                 enum.LineKind `json:"kind"`
	ItemID               string        `json:"item_id"`
	Name                 string        `json:"name"`
	Quantity             int64         `json:"quantity"`
	UnitPrice            int64         `json:"unit_price"`
	Discount             int64         `json:"discount"`
	StaffID              string        `json:"staff_id,omitempty"`
	UseCollaboratorPrice bool          `json:"use_collaborator_price"`
	CollaboratorPrice    *int64        `json:"collaborator_price,omitempty"`
}

// EffectiveUnitPrice is the collaborator price when the line opted into it and one exists.
func (l CartLine) EffectiveUnitPrice() int64 {
	if l.UseCollaboratorPrice && l.CollaboratorPrice != nil {
		return *l.CollaboratorPrice
	}
	return l.UnitPrice
}

// Gross is quantity times the effective unit price, before the line discount.
func (l CartLine) Gross() int64 {
	return l.Quantity * l.EffectiveUnitPrice()
}

// Total never goes below zero and never borrows from other lines.
func (l CartLine) Total() int64 {
	return money.ClampZero(l.Gross() - l.Discount)
}

// Validate checks the line on its own, without looking at the rest of the cart.
func (l CartLine) Validate() *ValidationError {
	switch {
	case !l.Kind.Valid():
		return &ValidationError{Kind: ErrKindInvalidLine, Field: "kind", Message: fmt.Sprintf("unknown line kind %q", l.Kind)}
	case strings.TrimSpace(l.ItemID) == "":
		return &ValidationError{Kind: ErrKindInvalidLine, Field: "item_id", Message: "item id is required"}
	case l.Quantity <= 0:
		return &ValidationError{Kind: ErrKindInvalidLine, Field: "quantity", Message: "quantity must be a positive integer"}
	case l.UnitPrice < 0:
		return &ValidationError{Kind: ErrKindInvalidLine, Field: "unit_price", Message: "unit price cannot be negative"}
	case l.CollaboratorPrice != nil && *l.CollaboratorPrice < 0:
		return &ValidationError{Kind: ErrKindInvalidLine, Field: "collaborator_price", Message: "collaborator price cannot be negative"}
	case l.Discount < 0:
		return &ValidationError{Kind: ErrKindInvalidDiscount, Field: "discount", Message: "line discount cannot be negative"}
	}
	return nil
}

// LineUpdate carries the fields a cashier may change on an existing line. Nil means unchanged.
type LineUpdate struct {
	Quantity             *int64
	Discount             *int64
	StaffID              *string
	UseCollaboratorPrice *bool
}

// Cart is the in-progress invoice: lines plus header fields.
type Cart struct {
	ClientID         string     `json:"client_id,omitempty"`
	Lines            []CartLine `json:"lines"`
	GeneralDiscount  int64      `json:"general_discount"`
	DiscountID       string     `json:"discount_id,omitempty"`
	TaxEnabled       bool       `json:"tax_enabled"`
	Notes            string     `json:"notes,omitempty"`
	EditingInvoiceID string     `json:"editing_invoice_id,omitempty"`

	// Changed is set by every change that can move the totals. An edited invoice keeps its
	// original totals until it is set.
	Changed bool `json:"changed"`
}

// IsEditing reports whether the cart was hydrated from an existing invoice.
func (c *Cart) IsEditing() bool {
	return c.EditingInvoiceID != ""
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line with the given id.
func (c *Cart) Line(id uuid.UUID) (CartLine, bool) {
	return lo.Find(c.Lines, func(l CartLine) bool { return l.ID == id })
}

// AddLine validates and appends a line, assigning an id when the caller did not.
func (c *Cart) AddLine(line CartLine) (CartLine, error) {
	if verr := line.Validate(); verr != nil {
		return CartLine{}, verr
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	c.Lines = append(c.Lines, line)
	c.Changed = true
	return line, nil
}

// UpdateLine applies a partial update. The line is left untouched when the result is invalid.
func (c *Cart) UpdateLine(id uuid.UUID, upd LineUpdate) (CartLine, error) {
	_, idx, ok := lo.FindIndexOf(c.Lines, func(l CartLine) bool { return l.ID == id })
	if !ok {
		return CartLine{}, ErrLineNotFound
	}

	line := c.Lines[idx]
	if upd.Quantity != nil {
		line.Quantity = *upd.Quantity
	}
	if upd.Discount != nil {
		line.Discount = *upd.Discount
	}
	if upd.StaffID != nil {
		line.StaffID = *upd.StaffID
	}
	if upd.UseCollaboratorPrice != nil {
		line.UseCollaboratorPrice = *upd.UseCollaboratorPrice
	}
	if verr := line.Validate(); verr != nil {
		return CartLine{}, verr
	}

	if line.Total() != c.Lines[idx].Total() {
		c.Changed = true
	}
	c.Lines[idx] = line
	return line, nil
}

func (c *Cart) RemoveLine(id uuid.UUID) error {
	_, idx, ok := lo.FindIndexOf(c.Lines, func(l CartLine) bool { return l.ID == id })
	if !ok {
		return ErrLineNotFound
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	c.Changed = true
	return nil
}

func (c *Cart) SetClient(clientID string) {
	c.ClientID = strings.TrimSpace(clientID)
}

// SetGeneralDiscount sets the invoice level discount amount. discountID is the catalog
// definition it came from, empty for a manual amount.
func (c *Cart) SetGeneralDiscount(amount int64, discountID string) error {
	if amount < 0 {
		return &ValidationError{Kind: ErrKindInvalidDiscount, Field: "general_discount", Message: "general discount cannot be negative"}
	}
	if amount != c.GeneralDiscount {
		c.Changed = true
	}
	c.GeneralDiscount = amount
	c.DiscountID = discountID
	return nil
}

func (c *Cart) SetTax(enabled bool) {
	if enabled != c.TaxEnabled {
		c.Changed = true
	}
	c.TaxEnabled = enabled
}

func (c *Cart) SetNotes(notes string) {
	c.Notes = notes
}

// Clear empties the cart, including the edit marker.
func (c *Cart) Clear() {
	*c = Cart{}
}
