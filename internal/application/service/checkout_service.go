package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/internal/domain/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/salon-checkout/internal/infrastructure/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/pkg/apperror"
	"github.com/sangkips/salon-checkout/pkg/money"
	"github.com/sangkips/salon-checkout/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CheckoutService runs the POS checkout: it loads a session, applies one cashier action
// through the settlement core, recomputes and saves. Submit and Hold hand the session over
// to the salon backend.
type CheckoutService struct {
	sessions      repository.CheckoutSessionRepository
	backend       SalonBackend
	catalog       *CatalogService
	receipts      ReceiptEnqueuer
	recorder      SubmissionRecorder
	guard         *checkout.SubmitGuard
	taxRate       decimal.Decimal
	defaultMethod string
	locale        string
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessions repository.CheckoutSessionRepository,
	backend SalonBackend,
	catalog *CatalogService,
	receipts ReceiptEnqueuer,
	recorder SubmissionRecorder,
	cfg *config.CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		sessions:      sessions,
		backend:       backend,
		catalog:       catalog,
		receipts:      receipts,
		recorder:      recorder,
		guard:         &checkout.SubmitGuard{},
		taxRate:       cfg.TaxRate,
		defaultMethod: cfg.DefaultMethod,
		locale:        cfg.Locale,
	}
}

// LineInput represents a line the cashier picked from the catalog. Prices always come
// from the catalog.
type LineInput struct {
	Kind                 enum.LineKind
	ItemID               string
	Quantity             int64
	Discount             int64
	StaffID              string
	UseCollaboratorPrice bool
}

// HeaderInput carries invoice level changes. Nil fields are left as they are. A non-empty
// DiscountID takes precedence over GeneralDiscount.
type HeaderInput struct {
	GeneralDiscount *int64
	DiscountID      *string
	TaxEnabled      *bool
	Notes           *string
}

// PaymentInput represents a new tender line
type PaymentInput struct {
	MethodID  string
	Amount    int64
	Reference string
}

// PaymentPatch changes an existing tender line. Nil fields are left as they are.
type PaymentPatch struct {
	MethodID  *string
	Amount    *int64
	Reference *string
}

// SubmitResult is returned once the backend accepted an invoice
type SubmitResult struct {
	CheckoutID    uuid.UUID           `json:"checkout_id"`
	Mode          checkout.SubmitMode `json:"mode"`
	InvoiceID     string              `json:"invoice_id"`
	InvoiceNumber string              `json:"invoice_number,omitempty"`
	Total         int64               `json:"total"`
	Change        int64               `json:"change"`
	Display       map[string]string   `json:"display"`
	ReceiptQueued bool                `json:"receipt_queued"`
}

// HoldResult is returned once the backend stored a held order
type HoldResult struct {
	CheckoutID  uuid.UUID `json:"checkout_id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number,omitempty"`
	Total       int64     `json:"total"`
}

// Open starts an empty checkout for the cashier in ctx, optionally with a client
func (s *CheckoutService) Open(ctx context.Context, clientID string) (*CheckoutView, error) {
	cashierID, ok := infraRepo.GetCashierID(ctx)
	if !ok || cashierID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	session := &entity.CheckoutSession{CashierID: cashierID, Phase: enum.CheckoutPhaseCreating}
	c := checkout.New()

	if clientID = strings.TrimSpace(clientID); clientID != "" {
		if err := s.assignClient(ctx, session, c, clientID); err != nil {
			return nil, err
		}
	}

	cfg, err := s.config(ctx, c)
	if err != nil {
		return nil, err
	}
	c.Recompute(cfg)
	applyCheckout(session, c)

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("checkout opened", "checkout_id", session.ID, "cashier_id", cashierID, "client_id", session.ClientID)
	return s.view(session, c), nil
}

// OpenFromInvoice loads a settled invoice for editing. An open session already editing the
// same invoice is returned instead of a second one.
func (s *CheckoutService) OpenFromInvoice(ctx context.Context, invoiceID string) (*CheckoutView, error) {
	cashierID, ok := infraRepo.GetCashierID(ctx)
	if !ok || cashierID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}

	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, apperror.NewBadRequestError("Invoice id is required")
	}

	existing, err := s.sessions.GetOpenByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.Get(ctx, existing.ID)
	}

	inv, err := s.backend.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.ID == "" {
		inv.ID = invoiceID
	}

	c := checkout.NewFromInvoice(cartFromInvoice(inv), editStateFromInvoice(inv))
	session := &entity.CheckoutSession{CashierID: cashierID, ClientName: inv.ClientName}

	if inv.ClientID != "" {
		client, err := s.backend.GetClient(ctx, inv.ClientID)
		if err != nil {
			slog.Warn("could not load invoice client", "invoice_id", inv.ID, "client_id", inv.ClientID, "error", err)
		} else {
			session.ClientName = client.Name
			session.Collaborator = client.Collaborator
		}
		s.refreshDeposits(ctx, c)
	}

	cfg, err := s.config(ctx, c)
	if err != nil {
		return nil, err
	}
	c.Recompute(cfg)
	applyCheckout(session, c)

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	slog.Info("invoice opened for editing", "checkout_id", session.ID, "invoice_id", inv.ID, "cashier_id", cashierID)
	return s.view(session, c), nil
}

func cartFromInvoice(inv *salonapi.Invoice) checkout.Cart {
	cart := checkout.Cart{
		ClientID:        inv.ClientID,
		GeneralDiscount: inv.GeneralDiscount,
		DiscountID:      inv.DiscountID,
		TaxEnabled:      inv.TaxEnabled,
		Notes:           inv.Notes,
		Lines:           make([]checkout.CartLine, 0, len(inv.Lines)),
	}
	for _, l := range inv.Lines {
		cart.Lines = append(cart.Lines, checkout.CartLine{
			ID:                   uuid.New(),
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
	return cart
}

func editStateFromInvoice(inv *salonapi.Invoice) checkout.EditState {
	edit := checkout.EditState{
		InvoiceID: inv.ID,
		Original: checkout.Totals{
			Subtotal: inv.Subtotal,
			Discount: inv.GeneralDiscount,
			Tax:      inv.Tax,
			Total:    inv.Total,
		},
	}
	for _, p := range inv.Payments {
		edit.Payments = append(edit.Payments, checkout.PreviousPayment{
			ID:         p.ID,
			MethodID:   p.MethodID,
			MethodName: p.MethodName,
			Amount:     p.Amount,
			Reference:  p.Reference,
		})
	}
	for _, d := range inv.Deposits {
		edit.Deposits = append(edit.Deposits, checkout.PreviousDeposit{DepositID: d.DepositID, Amount: d.Amount})
	}
	return edit
}

// Get returns the checkout with freshly computed totals and settlement
func (s *CheckoutService) Get(ctx context.Context, id uuid.UUID) (*CheckoutView, error) {
	session, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config(ctx, c)
	if err != nil {
		return nil, err
	}
	c.Recompute(cfg)
	return s.view(session, c), nil
}

// List returns the open checkouts visible to the caller
func (s *CheckoutService) List(ctx context.Context, params *repository.SessionFilterParams) (*pagination.PaginatedResult[SessionSummary], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	sessions, total, err := s.sessions.ListOpen(ctx, params)
	if err != nil {
		return nil, err
	}

	items := lo.Map(sessions, func(session entity.CheckoutSession, _ int) SessionSummary {
		return SessionSummary{
			ID:               session.ID,
			Phase:            session.Phase,
			ClientID:         session.ClientID,
			ClientName:       session.ClientName,
			EditingInvoiceID: session.EditingInvoiceID,
			Total:            session.Total,
			Outstanding:      session.Outstanding,
			DisplayTotal:     s.format(session.Total),
			LastError:        session.LastError,
			UpdatedAt:        session.UpdatedAt,
		}
	})

	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// Discard drops an open checkout. A checkout being submitted cannot be discarded.
func (s *CheckoutService) Discard(ctx context.Context, id uuid.UUID) error {
	session, c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if s.guard.Held(session.ID.String()) || c.Phase == enum.CheckoutPhaseSubmitting {
		return errSubmitBusy
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}
	slog.Info("checkout discarded", "checkout_id", session.ID)
	return nil
}

// SetClient selects the client. An empty id clears it. Offered and applied deposits are
// replaced by the new client's.
func (s *CheckoutService) SetClient(ctx context.Context, id uuid.UUID, clientID string) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(session *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		clientID = strings.TrimSpace(clientID)
		if clientID == "" {
			c.SetClient("")
			session.ClientName = ""
			session.Collaborator = false
			dropCollaboratorPricing(c)
			return nil
		}
		return s.assignClient(ctx, session, c, clientID)
	})
}

func (s *CheckoutService) assignClient(ctx context.Context, session *entity.CheckoutSession, c *checkout.Checkout, clientID string) error {
	client, err := s.backend.GetClient(ctx, clientID)
	if err != nil {
		return err
	}

	c.SetClient(clientID)
	session.ClientName = client.Name
	session.Collaborator = client.Collaborator
	if !client.Collaborator {
		dropCollaboratorPricing(c)
	}
	s.refreshDeposits(ctx, c)
	return nil
}

func dropCollaboratorPricing(c *checkout.Checkout) {
	for i := range c.Cart.Lines {
		c.Cart.Lines[i].UseCollaboratorPrice = false
	}
}

// UpdateHeader changes the general discount, the tax flag or the notes
func (s *CheckoutService) UpdateHeader(ctx context.Context, id uuid.UUID, in HeaderInput) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		byDefinition := false
		if in.DiscountID != nil {
			discountID := strings.TrimSpace(*in.DiscountID)
			if discountID != "" {
				def, err := s.catalog.Discount(ctx, discountID)
				if err != nil {
					if isNotFound(err) {
						return validationFailed("discount_id", string(checkout.ErrKindInvalidDiscount), "discount is not active")
					}
					return err
				}
				if err := c.Cart.SetGeneralDiscount(def.Amount(subtotal(c)), def.ID); err != nil {
					return err
				}
				byDefinition = true
			} else if in.GeneralDiscount == nil {
				if err := c.Cart.SetGeneralDiscount(0, ""); err != nil {
					return err
				}
			}
		}
		if in.GeneralDiscount != nil && !byDefinition {
			if err := c.Cart.SetGeneralDiscount(*in.GeneralDiscount, ""); err != nil {
				return err
			}
		}
		if in.TaxEnabled != nil {
			c.Cart.SetTax(*in.TaxEnabled)
		}
		if in.Notes != nil {
			c.Cart.SetNotes(strings.TrimSpace(*in.Notes))
		}
		c.Recompute(cfg)
		return nil
	})
}

// AddLine adds a service or product priced from the active catalog
func (s *CheckoutService) AddLine(ctx context.Context, id uuid.UUID, in LineInput) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(session *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		line, err := s.catalogLine(ctx, session, in)
		if err != nil {
			return err
		}
		_, err = c.AddLine(line, cfg)
		return err
	})
}

func (s *CheckoutService) catalogLine(ctx context.Context, session *entity.CheckoutSession, in LineInput) (checkout.CartLine, error) {
	line := checkout.CartLine{
		Kind:     in.Kind,
		ItemID:   strings.TrimSpace(in.ItemID),
		Quantity: in.Quantity,
		Discount: in.Discount,
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}

	switch in.Kind {
	case enum.LineKindService:
		svc, err := s.catalog.Service(ctx, line.ItemID)
		if err != nil {
			return line, unknownItem(err, "service")
		}
		line.Name, line.UnitPrice, line.CollaboratorPrice = svc.Name, svc.Price, svc.CollaboratorPrice
	case enum.LineKindProduct:
		p, err := s.catalog.Product(ctx, line.ItemID)
		if err != nil {
			return line, unknownItem(err, "product")
		}
		line.Name, line.UnitPrice, line.CollaboratorPrice = p.Name, p.Price, p.CollaboratorPrice
	default:
		return line, validationFailed("kind", string(checkout.ErrKindInvalidLine), fmt.Sprintf("unknown line kind %q", in.Kind))
	}

	staffID := strings.TrimSpace(in.StaffID)
	if err := s.checkStaff(ctx, staffID); err != nil {
		return line, err
	}
	line.StaffID = staffID

	if in.UseCollaboratorPrice {
		if !session.Collaborator {
			return line, errNotCollaborator
		}
		line.UseCollaboratorPrice = true
	}
	return line, nil
}

var errNotCollaborator = validationFailed("use_collaborator_price", string(checkout.ErrKindInvalidLine), "collaborator pricing is only available to collaborator clients")

func unknownItem(err error, kind string) error {
	if isNotFound(err) {
		return validationFailed("item_id", string(checkout.ErrKindInvalidLine), kind+" is not in the active catalog")
	}
	return err
}

func (s *CheckoutService) checkStaff(ctx context.Context, staffID string) error {
	if staffID == "" {
		return nil
	}
	if _, err := s.catalog.Specialist(ctx, staffID); err != nil {
		if isNotFound(err) {
			return validationFailed("staff_id", string(checkout.ErrKindInvalidLine), "specialist is not active")
		}
		return err
	}
	return nil
}

// UpdateLine changes quantity, discount, specialist or collaborator pricing of a line
func (s *CheckoutService) UpdateLine(ctx context.Context, id, lineID uuid.UUID, upd checkout.LineUpdate) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(session *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		if upd.StaffID != nil {
			staffID := strings.TrimSpace(*upd.StaffID)
			if err := s.checkStaff(ctx, staffID); err != nil {
				return err
			}
			upd.StaffID = &staffID
		}
		if upd.UseCollaboratorPrice != nil && *upd.UseCollaboratorPrice && !session.Collaborator {
			return errNotCollaborator
		}
		_, err := c.UpdateLine(lineID, upd, cfg)
		return err
	})
}

func (s *CheckoutService) RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		return c.RemoveLine(lineID, cfg)
	})
}

// ToggleDeposit applies or removes one of the client's deposits. The offered list is
// refreshed from the backend first; the stored list is used when that fails.
func (s *CheckoutService) ToggleDeposit(ctx context.Context, id uuid.UUID, depositID string) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		if c.Cart.ClientID == "" {
			return errNoClientForDeposits
		}
		s.refreshDeposits(ctx, c)
		_, err := c.ToggleDeposit(strings.TrimSpace(depositID), cfg)
		return err
	})
}

// AutoApplyDeposits replaces the deposit selection with a greedy walk over the client's deposits
func (s *CheckoutService) AutoApplyDeposits(ctx context.Context, id uuid.UUID) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		if c.Cart.ClientID == "" {
			return errNoClientForDeposits
		}
		s.refreshDeposits(ctx, c)
		c.AutoApplyDeposits(cfg)
		return nil
	})
}

var errNoClientForDeposits = validationFailed("client_id", string(checkout.ErrKindMissingClient), "select a client before applying deposits")

func (s *CheckoutService) refreshDeposits(ctx context.Context, c *checkout.Checkout) {
	if c.Cart.ClientID == "" {
		return
	}
	balance, err := s.backend.ClientDeposits(ctx, c.Cart.ClientID)
	if err != nil {
		slog.Warn("could not refresh client deposits, keeping the last known list", "client_id", c.Cart.ClientID, "error", err)
		return
	}

	deposits := make([]checkout.Deposit, 0, len(balance.Deposits))
	for _, d := range balance.Deposits {
		if d.Available <= 0 {
			continue
		}
		deposits = append(deposits, checkout.Deposit{ID: d.ID, Available: d.Available, Note: d.Note, CreatedAt: d.CreatedAt})
	}
	c.SetAvailableDeposits(deposits)
}

// AddPayment adds a tender line
func (s *CheckoutService) AddPayment(ctx context.Context, id uuid.UUID, in PaymentInput) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		method, err := s.paymentMethod(ctx, in.MethodID)
		if err != nil {
			return err
		}
		c.Payments.Add(*method, in.Amount, in.Reference)
		c.Recompute(cfg)
		return nil
	})
}

func (s *CheckoutService) UpdatePayment(ctx context.Context, id, paymentID uuid.UUID, patch PaymentPatch) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		upd := checkout.PaymentUpdate{Amount: patch.Amount, Reference: patch.Reference}
		if patch.MethodID != nil {
			method, err := s.paymentMethod(ctx, *patch.MethodID)
			if err != nil {
				return err
			}
			upd.Method = method
		}
		if _, err := c.Payments.Update(paymentID, upd); err != nil {
			return err
		}
		c.Recompute(cfg)
		return nil
	})
}

func (s *CheckoutService) RemovePayment(ctx context.Context, id, paymentID uuid.UUID) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		if err := c.Payments.Remove(paymentID); err != nil {
			return err
		}
		c.Recompute(cfg)
		return nil
	})
}

func (s *CheckoutService) paymentMethod(ctx context.Context, methodID string) (*checkout.PaymentMethod, error) {
	method, err := s.catalog.PaymentMethod(ctx, strings.TrimSpace(methodID))
	if err != nil {
		if isNotFound(err) {
			return nil, validationFailed("method_id", "unknown_method", "payment method is not active")
		}
		return nil, err
	}
	return method, nil
}

// EditPreviousPayment replaces the amount of a payment the edited invoice already carried.
func (s *CheckoutService) EditPreviousPayment(ctx context.Context, id uuid.UUID, paymentID string, amount int64) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		_, err := c.EditPreviousPayment(paymentID, amount, cfg)
		return err
	})
}

func (s *CheckoutService) RemovePreviousPayment(ctx context.Context, id uuid.UUID, paymentID string) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		return c.RemovePreviousPayment(paymentID, cfg)
	})
}

// RemovePreviousDeposit drops a deposit from the edited invoice. Its balance is restored
// to the client when the update is submitted.
func (s *CheckoutService) RemovePreviousDeposit(ctx context.Context, id uuid.UUID, depositID string) (*CheckoutView, error) {
	return s.mutate(ctx, id, func(_ *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error {
		return c.RemovePreviousDeposit(depositID, cfg)
	})
}

// Submit settles the checkout: a new invoice is created, or the edited one is updated.
// Local violations return 422 and nothing reaches the backend. A backend rejection leaves
// the cart as it was, in the Failed phase, ready to be corrected and submitted again.
func (s *CheckoutService) Submit(ctx context.Context, id uuid.UUID, cashier string) (*SubmitResult, error) {
	key := id.String()
	if !s.guard.TryAcquire(key) {
		// not loaded yet, so create and update cannot be told apart
		s.recorder.ObserveSubmission(metrics.ModeUnknown, metrics.OutcomeBusy)
		return nil, errSubmitBusy
	}
	defer s.guard.Release(key)

	session, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	mode := checkout.SubmitModeCreate
	if c.Cart.IsEditing() {
		mode = checkout.SubmitModeUpdate
	}
	if c.Phase == enum.CheckoutPhaseSubmitting {
		s.recorder.ObserveSubmission(string(mode), metrics.OutcomeBusy)
		return nil, errSubmitBusy
	}

	cfg, err := s.config(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.resolveDiscount(ctx, c); err != nil {
		return nil, err
	}

	sub, err := c.PrepareSubmit(cfg)
	if err != nil {
		if !errors.Is(err, checkout.ErrInvalidTransition) {
			s.recorder.ObserveSubmission(string(mode), metrics.OutcomeInvalid)
		}
		return nil, toAppError(err)
	}

	if err := s.begin(ctx, session, c); err != nil {
		s.recorder.ObserveSubmission(string(mode), metrics.OutcomeBusy)
		return nil, err
	}

	var inv *salonapi.Invoice
	operation := "invoices.create"
	if sub.Mode == checkout.SubmitModeUpdate {
		operation = "invoices.update"
		inv, err = s.backend.UpdateInvoice(ctx, sub.InvoiceID, sub)
	} else {
		inv, err = s.backend.CreateInvoice(ctx, sub)
	}
	if err != nil {
		s.fail(ctx, session, c, sub.Mode, operation, err)
		return nil, err
	}

	invoiceID := inv.ID
	if invoiceID == "" {
		invoiceID = sub.InvoiceID
	}
	s.settle(ctx, session, c, invoiceID)
	queued := s.enqueueReceipt(ctx, invoiceID, cashier)

	s.recorder.ObserveSubmission(string(sub.Mode), metrics.OutcomeSettled)
	s.recorder.ObserveSettled(string(sub.Mode), sub.Totals.Total)
	slog.Info("checkout settled",
		"checkout_id", session.ID,
		"mode", sub.Mode,
		"invoice_id", invoiceID,
		"total", sub.Totals.Total,
		"change", sub.Change,
	)

	return &SubmitResult{
		CheckoutID:    session.ID,
		Mode:          sub.Mode,
		InvoiceID:     invoiceID,
		InvoiceNumber: inv.Number,
		Total:         sub.Totals.Total,
		Change:        sub.Change,
		Display: map[string]string{
			"total":  s.format(sub.Totals.Total),
			"change": s.format(sub.Change),
		},
		ReceiptQueued: queued,
	}, nil
}

// Hold stores the cart as an order awaiting payment. It needs a client and at least one
// line; payments are not checked.
func (s *CheckoutService) Hold(ctx context.Context, id uuid.UUID) (*HoldResult, error) {
	mode := string(checkout.SubmitModeHold)
	key := id.String()
	if !s.guard.TryAcquire(key) {
		s.recorder.ObserveSubmission(mode, metrics.OutcomeBusy)
		return nil, errSubmitBusy
	}
	defer s.guard.Release(key)

	session, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Phase == enum.CheckoutPhaseSubmitting {
		s.recorder.ObserveSubmission(mode, metrics.OutcomeBusy)
		return nil, errSubmitBusy
	}

	cfg, err := s.config(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.resolveDiscount(ctx, c); err != nil {
		return nil, err
	}
	c.Recompute(cfg)

	sub, err := c.PrepareHold()
	if err != nil {
		var verrs checkout.ValidationErrors
		if errors.As(err, &verrs) {
			s.recorder.ObserveSubmission(mode, metrics.OutcomeInvalid)
		}
		return nil, toAppError(err)
	}

	if err := s.begin(ctx, session, c); err != nil {
		s.recorder.ObserveSubmission(mode, metrics.OutcomeBusy)
		return nil, err
	}

	order, err := s.backend.CreateOrder(ctx, sub)
	if err != nil {
		s.fail(ctx, session, c, sub.Mode, "orders.create", err)
		return nil, err
	}

	s.settle(ctx, session, c, order.ID)
	s.recorder.ObserveSubmission(mode, metrics.OutcomeSettled)
	slog.Info("checkout held", "checkout_id", session.ID, "order_id", order.ID, "total", sub.Totals.Total)

	return &HoldResult{
		CheckoutID:  session.ID,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Total:       sub.Totals.Total,
	}, nil
}

// begin moves the checkout into Submitting, in memory and then in storage. The storage
// update only succeeds if no other request moved the session first.
func (s *CheckoutService) begin(ctx context.Context, session *entity.CheckoutSession, c *checkout.Checkout) error {
	from := c.Phase
	if err := c.BeginSubmit(); err != nil {
		return toAppError(err)
	}
	ok, err := s.sessions.UpdatePhase(ctx, session.ID, from, c.Phase)
	if err != nil {
		return err
	}
	if !ok {
		return errSubmitBusy
	}
	return nil
}

func (s *CheckoutService) fail(ctx context.Context, session *entity.CheckoutSession, c *checkout.Checkout, mode checkout.SubmitMode, operation string, cause error) {
	if err := c.Fail(failureMessage(ctx, cause)); err != nil {
		slog.Error("could not mark checkout as failed", "checkout_id", session.ID, "error", err)
	}
	applyCheckout(session, c)
	if ok, err := s.sessions.Save(context.WithoutCancel(ctx), session, enum.CheckoutPhaseSubmitting); err != nil || !ok {
		slog.Error("could not save failed checkout", "checkout_id", session.ID, "saved", ok, "error", err)
	}

	s.recorder.ObserveSubmission(string(mode), metrics.OutcomeRejected)
	s.recorder.ObserveBackendFailure(operation)
	slog.Warn("checkout submission failed", "checkout_id", session.ID, "mode", mode, "error", cause)
}

func failureMessage(ctx context.Context, err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if ctx.Err() != nil {
		return "The request was canceled before the salon backend answered"
	}
	return apperror.ErrBackendDown.Message
}

// settle clears the session once the backend owns the invoice. Storage errors are only
// logged: the sale already happened.
func (s *CheckoutService) settle(ctx context.Context, session *entity.CheckoutSession, c *checkout.Checkout, invoiceID string) {
	ctx = context.WithoutCancel(ctx)
	if err := c.Settle(); err != nil {
		slog.Error("could not mark checkout as settled", "checkout_id", session.ID, "error", err)
	}
	applyCheckout(session, c)
	session.InvoiceID = invoiceID

	if ok, err := s.sessions.Save(ctx, session, enum.CheckoutPhaseSubmitting); err != nil || !ok {
		slog.Error("could not save settled checkout", "checkout_id", session.ID, "invoice_id", invoiceID, "saved", ok, "error", err)
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		slog.Error("could not clear settled checkout", "checkout_id", session.ID, "invoice_id", invoiceID, "error", err)
	}
}

func (s *CheckoutService) enqueueReceipt(ctx context.Context, invoiceID, cashier string) bool {
	if err := s.receipts.EnqueueReceipt(context.WithoutCancel(ctx), invoiceID, cashier); err != nil {
		slog.Error("could not queue receipt", "invoice_id", invoiceID, "error", err)
		return false
	}
	return true
}

// mutate loads an open checkout, applies fn, re-resolves the general discount, recomputes
// and saves. fn errors from the checkout core are mapped to HTTP errors. The save only
// lands if no submit moved the session since it was loaded.
func (s *CheckoutService) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(session *entity.CheckoutSession, c *checkout.Checkout, cfg checkout.Config) error,
) (*CheckoutView, error) {
	session, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.guard.Held(session.ID.String()) || c.Phase == enum.CheckoutPhaseSubmitting {
		return nil, errSubmitBusy
	}
	if !c.IsOpen() {
		return nil, errCheckoutClosed
	}

	cfg, err := s.config(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := fn(session, c, cfg); err != nil {
		return nil, toAppError(err)
	}
	if err := s.resolveDiscount(ctx, c); err != nil {
		return nil, err
	}
	c.Recompute(cfg)

	loaded := session.Phase
	applyCheckout(session, c)
	saved, err := s.sessions.Save(ctx, session, loaded)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, errSubmitBusy
	}
	return s.view(session, c), nil
}

func (s *CheckoutService) load(ctx context.Context, id uuid.UUID) (*entity.CheckoutSession, *checkout.Checkout, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, errCheckoutNotFound
	}
	return session, toCheckout(session), nil
}

// config resolves the default payment method. Edited invoices are never seeded, so they
// skip the catalog lookup.
func (s *CheckoutService) config(ctx context.Context, c *checkout.Checkout) (checkout.Config, error) {
	cfg := checkout.Config{TaxRate: s.taxRate}
	if c.Cart.IsEditing() {
		return cfg, nil
	}
	method, err := s.catalog.PaymentMethod(ctx, s.defaultMethod)
	if err != nil {
		if isNotFound(err) {
			return cfg, apperror.NewAppError(http.StatusInternalServerError, fmt.Sprintf("Default payment method %q is not active", s.defaultMethod))
		}
		return cfg, err
	}
	cfg.DefaultMethod = *method
	return cfg, nil
}

// resolveDiscount recomputes a general discount chosen from the catalog against the
// current subtotal. A definition that is no longer active keeps its last amount.
func (s *CheckoutService) resolveDiscount(ctx context.Context, c *checkout.Checkout) error {
	if c.Cart.DiscountID == "" || (c.Cart.IsEditing() && !c.Cart.Changed) {
		return nil
	}
	def, err := s.catalog.Discount(ctx, c.Cart.DiscountID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return toAppError(c.Cart.SetGeneralDiscount(def.Amount(subtotal(c)), def.ID))
}

func subtotal(c *checkout.Checkout) int64 {
	return lo.SumBy(c.Cart.Lines, func(l checkout.CartLine) int64 { return l.Total() })
}

func (s *CheckoutService) view(session *entity.CheckoutSession, c *checkout.Checkout) *CheckoutView {
	return newCheckoutView(session, c, s.format)
}

func (s *CheckoutService) format(amount int64) string {
	return money.FormatLocale(amount, s.locale)
}

func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}
