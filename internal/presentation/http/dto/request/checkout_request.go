package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sangkips/salon-checkout/pkg/money"
)

// Amount is a money amount in minor units. It accepts a JSON integer or a string typed
// with thousands separators, e.g. 45000 or "45.000". A JSON number keeps its sign; anything
// larger than money.MaxAmount either way is rejected.
type Amount int64

var (
	errFractionalAmount = errors.New("amount must be a whole number of currency units")
	errAmountOutOfRange = errors.New("amount is out of range")
)

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		v, err := money.Parse(raw)
		if err != nil {
			return errAmountOutOfRange
		}
		return a.set(v)
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		if _, ferr := n.Float64(); ferr == nil && strings.ContainsAny(n.String(), ".eE") {
			return errFractionalAmount
		}
		return errAmountOutOfRange
	}
	return a.set(v)
}

func (a *Amount) set(v int64) error {
	if v > money.MaxAmount || v < -money.MaxAmount {
		return errAmountOutOfRange
	}
	*a = Amount(v)
	return nil
}

// Int64 returns the amount, or nil when a is nil
func (a *Amount) Int64() *int64 {
	if a == nil {
		return nil
	}
	v := int64(*a)
	return &v
}

// OpenCheckoutRequest starts a checkout, optionally for a known client
type OpenCheckoutRequest struct {
	ClientID string `json:"client_id" binding:"omitempty,max=64"`
}

// SetClientRequest selects or clears (empty id) the client
type SetClientRequest struct {
	ClientID string `json:"client_id" binding:"max=64"`
}

// UpdateHeaderRequest changes invoice level fields. Omitted fields are left unchanged.
type UpdateHeaderRequest struct {
	GeneralDiscount *Amount `json:"general_discount"`
	DiscountID      *string `json:"discount_id" binding:"omitempty,max=64"`
	TaxEnabled      *bool   `json:"tax_enabled"`
	Notes           *string `json:"notes" binding:"omitempty,max=1000"`
}

// AddLineRequest adds a catalog item to the cart
type AddLineRequest struct {
	Kind                 string `json:"kind" binding:"required,oneof=service product"`
	ItemID               string `json:"item_id" binding:"required,max=64"`
	Quantity             int64  `json:"quantity" binding:"omitempty,min=1,max=999"`
	Discount             Amount `json:"discount"`
	StaffID              string `json:"staff_id" binding:"omitempty,max=64"`
	UseCollaboratorPrice bool   `json:"use_collaborator_price"`
}

// UpdateLineRequest changes a cart line
type UpdateLineRequest struct {
	Quantity             *int64  `json:"quantity" binding:"omitempty,min=1,max=999"`
	Discount             *Amount `json:"discount"`
	StaffID              *string `json:"staff_id" binding:"omitempty,max=64"`
	UseCollaboratorPrice *bool   `json:"use_collaborator_price"`
}

// AddPaymentRequest adds a tender line
type AddPaymentRequest struct {
	MethodID  string `json:"method_id" binding:"required,max=64"`
	Amount    Amount `json:"amount"`
	Reference string `json:"reference" binding:"omitempty,max=100"`
}

// UpdatePaymentRequest changes a tender line
type UpdatePaymentRequest struct {
	MethodID  *string `json:"method_id" binding:"omitempty,max=64"`
	Amount    *Amount `json:"amount"`
	Reference *string `json:"reference" binding:"omitempty,max=100"`
}

// EditPreviousPaymentRequest replaces the amount of a payment the edited invoice carried
type EditPreviousPaymentRequest struct {
	Amount Amount `json:"amount"`
}

// SessionFilterRequest represents open checkout filter parameters
type SessionFilterRequest struct {
	ClientID string `form:"client_id"`
	Editing  *bool  `form:"editing"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
