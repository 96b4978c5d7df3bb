// Package checkout is the settlement core of the point of sale: cart totals, payment and
// deposit reconciliation, edit-mode merging and the submit lifecycle. It performs no I/O;
// callers load a Checkout, mutate it, call Recompute and persist it.
package checkout

import (
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/pkg/money"
	"github.com/shopspring/decimal"
)

// Config carries the settings Recompute needs.
type Config struct {
	TaxRate       decimal.Decimal
	DefaultMethod PaymentMethod
}

// Checkout is one in-progress transaction.
type Checkout struct {
	Phase      enum.CheckoutPhase `json:"phase"`
	Cart       Cart               `json:"cart"`
	Payments   PaymentBook        `json:"payments"`
	Deposits   DepositSelector    `json:"deposits"`
	Available  []Deposit          `json:"available_deposits"`
	Edit       *EditState         `json:"edit,omitempty"`
	Totals     Totals             `json:"totals"`
	Settlement Settlement         `json:"settlement"`
	LastError  string             `json:"last_error,omitempty"`
}

// New starts an empty checkout for a new invoice.
func New() *Checkout {
	return &Checkout{Phase: enum.CheckoutPhaseCreating}
}

// NewFromInvoice starts a checkout that edits an existing invoice. cart must already carry
// the invoice lines and header fields.
func NewFromInvoice(cart Cart, edit EditState) *Checkout {
	cart.EditingInvoiceID = edit.InvoiceID
	cart.Changed = false
	return &Checkout{
		Phase: enum.CheckoutPhaseEditing,
		Cart:  cart,
		Edit:  &edit,
	}
}

// IsOpen reports whether the cashier may still change the checkout.
func (c *Checkout) IsOpen() bool {
	return c.Phase.IsOpen()
}

// Recompute refreshes totals, seeds the default payment for new invoices and reconciles.
// Every mutation must be followed by a call to Recompute.
//
// An edited invoice whose lines, discount and tax flag are untouched keeps the totals it
// was issued with, whatever the tax rate is today.
func (c *Checkout) Recompute(cfg Config) {
	if c.Edit != nil && !c.Cart.Changed {
		c.Totals = c.Edit.Original
	} else {
		c.Totals = NewCalculator(cfg.TaxRate).Compute(&c.Cart)
	}

	if !c.Cart.IsEditing() {
		due := money.ClampZero(c.Totals.Total - c.Deposits.Total() - c.Edit.PreviousTotal())
		c.Payments.Seed(cfg.DefaultMethod, due)
	}

	c.Settlement = Reconcile(c.settlementInput())
}

func (c *Checkout) settlementInput() SettlementInput {
	in := SettlementInput{
		Total:    c.Totals.Total,
		Payments: c.Payments.Lines,
		Deposits: c.Deposits.Applied,
		Editing:  c.Cart.IsEditing(),
		ClientID: c.Cart.ClientID,
		HasLines: !c.Cart.IsEmpty(),
	}
	if c.Edit != nil {
		in.PreviousPayments = c.Edit.Payments
		in.PreviousDeposits = c.Edit.Deposits
	}
	return in
}

// StillOwed is what deposits may still cover: the total minus previous entries, applied
// deposits and the payments the cashier entered. A default payment line the book still
// owns does not count since it only fills the remainder.
func (c *Checkout) StillOwed() int64 {
	return money.ClampZero(c.Totals.Total - c.Edit.PreviousTotal() - c.Deposits.Total() - c.Payments.Entered())
}

// SetClient changes the client. Deposits belong to a client, so the selection and the
// offered deposits are cleared when the client changes.
func (c *Checkout) SetClient(clientID string) {
	clientID = strings.TrimSpace(clientID)
	if clientID != c.Cart.ClientID {
		c.Deposits.Clear()
		c.Available = nil
	}
	c.Cart.SetClient(clientID)
}

// SetAvailableDeposits stores the client's deposits as last fetched from the backend.
func (c *Checkout) SetAvailableDeposits(deposits []Deposit) {
	c.Available = deposits
}

// ToggleDeposit applies or removes one of the offered deposits.
func (c *Checkout) ToggleDeposit(depositID string, cfg Config) (bool, error) {
	d, ok := lo.Find(c.Available, func(d Deposit) bool { return d.ID == depositID })
	if !ok {
		if !c.Deposits.IsApplied(depositID) {
			return false, ErrDepositNotFound
		}
		d = Deposit{ID: depositID}
	}
	applied := c.Deposits.Toggle(d, c.StillOwed())
	c.Recompute(cfg)
	return applied, nil
}

// AutoApplyDeposits replaces the selection with a greedy walk over the offered deposits.
func (c *Checkout) AutoApplyDeposits(cfg Config) bool {
	c.Deposits.Clear()
	stillOwed := c.StillOwed()
	full := c.Deposits.AutoApplyAll(c.Available, stillOwed)
	c.Recompute(cfg)
	return full
}

// EditPreviousPayment replaces the amount of a previous payment.
func (c *Checkout) EditPreviousPayment(id string, amount int64, cfg Config) (PreviousPayment, error) {
	if c.Edit == nil {
		return PreviousPayment{}, ErrNotEditing
	}
	p, err := c.Edit.EditPayment(id, amount)
	if err != nil {
		return PreviousPayment{}, err
	}
	c.Recompute(cfg)
	return p, nil
}

func (c *Checkout) RemovePreviousPayment(id string, cfg Config) error {
	if c.Edit == nil {
		return ErrNotEditing
	}
	if err := c.Edit.RemovePayment(id); err != nil {
		return err
	}
	c.Recompute(cfg)
	return nil
}

func (c *Checkout) RemovePreviousDeposit(depositID string, cfg Config) error {
	if c.Edit == nil {
		return ErrNotEditing
	}
	if err := c.Edit.RemoveDeposit(depositID); err != nil {
		return err
	}
	c.Recompute(cfg)
	return nil
}

// Submission is the snapshot sent to the salon backend to settle or hold a checkout.
type Submission struct {
	Mode            SubmitMode `json:"mode"`
	InvoiceID       string     `json:"invoice_id,omitempty"`
	ClientID        string     `json:"client_id"`
	Lines           []CartLine `json:"lines"`
	Totals          Totals     `json:"totals"`
	GeneralDiscount int64      `json:"general_discount"`
	DiscountID      string     `json:"discount_id,omitempty"`
	TaxEnabled      bool       `json:"tax_enabled"`
	Notes           string     `json:"notes,omitempty"`
	Change          int64      `json:"change"`
	Merged          Merged     `json:"merged"`
}

// PrepareSubmit validates the checkout and builds the create or update snapshot. Local
// violations come back as ValidationErrors and nothing is sent.
func (c *Checkout) PrepareSubmit(cfg Config) (*Submission, error) {
	if !c.IsOpen() {
		return nil, ErrInvalidTransition
	}
	c.Recompute(cfg)

	errs := append(ValidationErrors(nil), c.Settlement.Errors...)
	if c.Cart.IsEmpty() {
		errs = append(errs, &ValidationError{Kind: ErrKindEmptyCart, Field: "lines", Message: "the cart is empty"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	sub := c.snapshot(SubmitModeCreate)
	if c.Cart.IsEditing() {
		sub.Mode = SubmitModeUpdate
		sub.InvoiceID = c.Cart.EditingInvoiceID
	}
	sub.Change = c.Settlement.Change
	sub.Merged = Merge(c.Edit, c.Payments.Lines, c.Deposits.Applied)
	return sub, nil
}

// PrepareHold builds an order snapshot. Holding needs a client and at least one line but no
// payment. Invoices being edited cannot be held.
func (c *Checkout) PrepareHold() (*Submission, error) {
	if !c.IsOpen() {
		return nil, ErrInvalidTransition
	}
	if c.Cart.IsEditing() {
		return nil, ErrHoldWhileEditing
	}

	var errs ValidationErrors
	if strings.TrimSpace(c.Cart.ClientID) == "" {
		errs = append(errs, &ValidationError{Kind: ErrKindMissingClient, Field: "client_id", Message: "select a client before holding the order"})
	}
	if c.Cart.IsEmpty() {
		errs = append(errs, &ValidationError{Kind: ErrKindEmptyCart, Field: "lines", Message: "the cart is empty"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return c.snapshot(SubmitModeHold), nil
}

func (c *Checkout) snapshot(mode SubmitMode) *Submission {
	return &Submission{
		Mode:            mode,
		ClientID:        c.Cart.ClientID,
		Lines:           append([]CartLine(nil), c.Cart.Lines...),
		Totals:          c.Totals,
		GeneralDiscount: c.Cart.GeneralDiscount,
		DiscountID:      c.Cart.DiscountID,
		TaxEnabled:      c.Cart.TaxEnabled,
		Notes:           c.Cart.Notes,
	}
}

// BeginSubmit moves the checkout into Submitting.
func (c *Checkout) BeginSubmit() error {
	if err := Transition(c.Phase, enum.CheckoutPhaseSubmitting); err != nil {
		return err
	}
	c.Phase = enum.CheckoutPhaseSubmitting
	c.LastError = ""
	return nil
}

// Settle records a successful submission. The cart is cleared: the invoice now belongs to
// the backend.
func (c *Checkout) Settle() error {
	if err := Transition(c.Phase, enum.CheckoutPhaseSettled); err != nil {
		return err
	}
	c.Phase = enum.CheckoutPhaseSettled
	c.Cart.Clear()
	c.Payments.Reset()
	c.Deposits.Clear()
	c.Available = nil
	c.Edit = nil
	c.Totals = Totals{}
	c.Settlement = Settlement{}
	return nil
}

// Fail records a rejected submission. Cart and settlement are left as they were so the
// cashier can correct them and retry.
func (c *Checkout) Fail(message string) error {
	if err := Transition(c.Phase, enum.CheckoutPhaseFailed); err != nil {
		return err
	}
	c.Phase = enum.CheckoutPhaseFailed
	c.LastError = message
	return nil
}

// AddLine, UpdateLine and RemoveLine wrap the cart mutations with a recompute.

func (c *Checkout) AddLine(line CartLine, cfg Config) (CartLine, error) {
	added, err := c.Cart.AddLine(line)
	if err != nil {
		return CartLine{}, err
	}
	c.Recompute(cfg)
	return added, nil
}

func (c *Checkout) UpdateLine(id uuid.UUID, upd LineUpdate, cfg Config) (CartLine, error) {
	line, err := c.Cart.UpdateLine(id, upd)
	if err != nil {
		return CartLine{}, err
	}
	c.Recompute(cfg)
	return line, nil
}

func (c *Checkout) RemoveLine(id uuid.UUID, cfg Config) error {
	if err := c.Cart.RemoveLine(id); err != nil {
		return err
	}
	c.Recompute(cfg)
	return nil
}
